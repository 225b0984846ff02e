package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/deepsyllabus/backend/internal/models"
	"go.uber.org/zap"
)

// SyllabusRepository is the interface that wraps methods for syllabi, components and files data access.
//
// Lookups by id return "nil" together with a "nil" error when the record does not exist,
// an error is only returned when the underlying store fails.
type SyllabusRepository interface {
	// Method Init idempotently prepares the store (creates the tables in relational mode).
	Init(ctx context.Context) error
	// Method CreateSyllabus inserts a syllabus and returns it with empty component and file collections.
	CreateSyllabus(ctx context.Context, title, synopsis string) (*models.Syllabus, error)
	// Method CreateSyllabusWithComponents inserts a syllabus and its components atomically.
	//
	// Either all records are created or none of them.
	CreateSyllabusWithComponents(ctx context.Context, title, synopsis string, drafts []models.ComponentDraft) (*models.Syllabus, error)
	// Method GetSyllabus retrieves a syllabus together with its components and files in insertion order.
	GetSyllabus(ctx context.Context, id string) (*models.Syllabus, error)
	// Method SyllabusExists reports whether a syllabus with the given id exists.
	SyllabusExists(ctx context.Context, id string) (bool, error)
	// Method GetAllSyllabi retrieves all syllabi without their components and files.
	GetAllSyllabi(ctx context.Context) ([]models.Syllabus, error)
	// Method DeleteSyllabus removes a syllabus with its components and files.
	//
	// The removed file records are returned so that the stored objects can be cleaned up.
	// "false" is returned when the syllabus does not exist.
	DeleteSyllabus(ctx context.Context, id string) ([]models.File, bool, error)
	// Method CreateComponent inserts a component of the given type for a syllabus.
	CreateComponent(ctx context.Context, syllabusID string, componentType models.ComponentType, content string, accepted bool) (*models.Component, error)
	// Method UpdateComponent replaces content and accepted flag of a component unconditionally.
	UpdateComponent(ctx context.Context, id, content string, accepted bool) (*models.Component, error)
	// Method SetComponentAccepted changes only the accepted flag of a component, keeping its content.
	SetComponentAccepted(ctx context.Context, id string, accepted bool) (*models.Component, error)
	// Method AddFile records metadata of an uploaded file.
	AddFile(ctx context.Context, syllabusID, name, url string, size int64, fileType string) (*models.File, error)
}

// Generator is the interface that wraps methods of the language model completion client.
type Generator interface {
	// Method GenerateSyllabus drafts all three components for a synopsis.
	GenerateSyllabus(ctx context.Context, req models.GenerateRequest) (*models.SyllabusDraft, error)
	// Method RegenerateComponent drafts a single component of the given type.
	//
	// The returned payload is JSON shaped like the content of that component type.
	RegenerateComponent(ctx context.Context, componentType models.ComponentType, synopsis, feedback string) (json.RawMessage, error)
}

// FileDeleter removes stored objects by their URL
type FileDeleter interface {
	DeleteFile(ctx context.Context, url string) error
}

const maxTitleLength = 200

const untitledSyllabus = "Untitled syllabus"

type syllabusService struct {
	repo      SyllabusRepository
	generator Generator
	files     FileDeleter
	logger    *zap.Logger
}

// NewSyllabusService creates a new syllabus service
func NewSyllabusService(repo SyllabusRepository, generator Generator, files FileDeleter, logger *zap.Logger) *syllabusService {
	return &syllabusService{
		repo:      repo,
		generator: generator,
		files:     files,
		logger:    logger,
	}
}

// InitDatabase prepares the underlying store
func (s *syllabusService) InitDatabase(ctx context.Context) error {
	if err := s.repo.Init(ctx); err != nil {
		s.logger.Error("failed to initialize database", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// GenerateSyllabus asks the generator for three components and persists them with a new syllabus.
//
// The model is called before anything is written, and the syllabus and its components are
// created in a single transaction, so a failed generation never leaves an empty syllabus behind.
func (s *syllabusService) GenerateSyllabus(ctx context.Context, req models.GenerateRequest) (*models.Syllabus, *models.SyllabusDraft, error) {
	req.Synopsis = strings.TrimSpace(req.Synopsis)
	if req.Synopsis == "" {
		return nil, nil, fmt.Errorf("%w: synopsis is required", ErrValidation)
	}

	draft, err := s.generator.GenerateSyllabus(ctx, req)
	if err != nil {
		s.logger.Error("failed to generate syllabus", zap.Error(err), zap.Int("files", len(req.Files)))
		return nil, nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	drafts, err := componentDrafts(draft)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	syllabus, err := s.repo.CreateSyllabusWithComponents(ctx, buildTitle(req.Synopsis), req.Synopsis, drafts)
	if err != nil {
		s.logger.Error("failed to persist generated syllabus", zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.logger.Info("syllabus generated",
		zap.String("syllabus_id", syllabus.ID),
		zap.Int("components", len(syllabus.Components)),
	)
	return syllabus, draft, nil
}

// RegenerateComponent replaces the content of one component with a freshly generated one.
//
// The component is reset to not accepted.
func (s *syllabusService) RegenerateComponent(ctx context.Context, syllabusID, componentID, feedback string) (*models.Component, json.RawMessage, error) {
	if syllabusID == "" || componentID == "" {
		return nil, nil, fmt.Errorf("%w: syllabus id and component id are required", ErrValidation)
	}

	syllabus, err := s.repo.GetSyllabus(ctx, syllabusID)
	if err != nil {
		s.logger.Error("failed to get syllabus", zap.Error(err), zap.String("syllabus_id", syllabusID))
		return nil, nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if syllabus == nil {
		return nil, nil, ErrSyllabusNotFound
	}

	component := syllabus.FindComponent(componentID)
	if component == nil {
		return nil, nil, ErrComponentNotFound
	}

	content, err := s.generator.RegenerateComponent(ctx, component.Type, syllabus.Synopsis, strings.TrimSpace(feedback))
	if err != nil {
		s.logger.Error("failed to regenerate component",
			zap.Error(err),
			zap.String("component_id", componentID),
			zap.String("kind", string(component.Type)),
		)
		return nil, nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	updated, err := s.repo.UpdateComponent(ctx, componentID, string(content), false)
	if err != nil {
		s.logger.Error("failed to store regenerated component", zap.Error(err), zap.String("component_id", componentID))
		return nil, nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if updated == nil {
		// Deleted between the read and the update.
		return nil, nil, ErrComponentNotFound
	}

	return updated, content, nil
}

// UpdateComponent replaces the content and accepted flag of a component
func (s *syllabusService) UpdateComponent(ctx context.Context, id, content string, accepted bool) (*models.Component, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: component id is required", ErrValidation)
	}

	component, err := s.repo.UpdateComponent(ctx, id, content, accepted)
	if err != nil {
		s.logger.Error("failed to update component", zap.Error(err), zap.String("component_id", id))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if component == nil {
		return nil, ErrComponentNotFound
	}
	return component, nil
}

// AcceptComponent toggles the accepted flag of a component without touching its content
func (s *syllabusService) AcceptComponent(ctx context.Context, id string, accepted bool) (*models.Component, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: component id is required", ErrValidation)
	}

	component, err := s.repo.SetComponentAccepted(ctx, id, accepted)
	if err != nil {
		s.logger.Error("failed to accept component", zap.Error(err), zap.String("component_id", id))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if component == nil {
		return nil, ErrComponentNotFound
	}
	return component, nil
}

// GetSyllabus retrieves a syllabus with its components and files
func (s *syllabusService) GetSyllabus(ctx context.Context, id string) (*models.Syllabus, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: syllabus id is required", ErrValidation)
	}

	syllabus, err := s.repo.GetSyllabus(ctx, id)
	if err != nil {
		s.logger.Error("failed to get syllabus", zap.Error(err), zap.String("syllabus_id", id))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if syllabus == nil {
		return nil, ErrSyllabusNotFound
	}
	return syllabus, nil
}

// GetAllSyllabi retrieves all syllabi without components and files
func (s *syllabusService) GetAllSyllabi(ctx context.Context) ([]models.Syllabus, error) {
	syllabi, err := s.repo.GetAllSyllabi(ctx)
	if err != nil {
		s.logger.Error("failed to get syllabi", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if syllabi == nil {
		syllabi = []models.Syllabus{}
	}
	return syllabi, nil
}

// DeleteSyllabus removes a syllabus, its components and files, then the stored file objects.
//
// Object removal is best effort: the records are already gone, failures are only logged.
func (s *syllabusService) DeleteSyllabus(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: syllabus id is required", ErrValidation)
	}

	files, found, err := s.repo.DeleteSyllabus(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete syllabus", zap.Error(err), zap.String("syllabus_id", id))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if !found {
		return ErrSyllabusNotFound
	}

	for _, f := range files {
		if err := s.files.DeleteFile(ctx, f.URL); err != nil {
			s.logger.Warn("failed to remove stored file of deleted syllabus",
				zap.Error(err),
				zap.String("syllabus_id", id),
				zap.String("file_id", f.ID),
			)
		}
	}
	return nil
}

// componentDrafts encodes the generated payloads in generation order
func componentDrafts(draft *models.SyllabusDraft) ([]models.ComponentDraft, error) {
	payloads := map[models.ComponentType]any{
		models.ComponentTypeVideo:       draft.Video,
		models.ComponentTypeExplanation: draft.Explanation,
		models.ComponentTypeAssessment:  draft.Assessment,
	}

	drafts := make([]models.ComponentDraft, 0, len(models.ComponentTypes))
	for _, ct := range models.ComponentTypes {
		content, err := json.Marshal(payloads[ct])
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s component: %w", ct, err)
		}
		drafts = append(drafts, models.ComponentDraft{Type: ct, Content: string(content)})
	}
	return drafts, nil
}

func buildTitle(synopsis string) string {
	title := models.TitleFromSynopsis(synopsis)
	if title == "" {
		return untitledSyllabus
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		title = strings.TrimSpace(string([]rune(title)[:maxTitleLength]))
	}
	return title
}
