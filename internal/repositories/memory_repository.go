package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/deepsyllabus/backend/internal/ids"
	"github.com/deepsyllabus/backend/internal/models"
	"go.uber.org/zap"
)

// memoryRepository keeps syllabi in process memory. It is used in mock mode and loses its content on restart.
//
// Values are copied in and out so callers never share state with the store.
type memoryRepository struct {
	mu         sync.RWMutex
	order      []string
	syllabi    map[string]*models.Syllabus
	components map[string]*models.Component
	bySyllabus map[string][]string
	files      map[string][]models.File
	logger     *zap.Logger
}

// NewMemoryRepository creates a new in-memory instance of the SyllabusRepository interface
func NewMemoryRepository(logger *zap.Logger) *memoryRepository {
	return &memoryRepository{
		syllabi:    make(map[string]*models.Syllabus),
		components: make(map[string]*models.Component),
		bySyllabus: make(map[string][]string),
		files:      make(map[string][]models.File),
		logger:     logger,
	}
}

// Method Init is a no-op for the in-memory store.
func (r *memoryRepository) Init(ctx context.Context) error {
	r.logger.Info("using in-memory repository, nothing to initialize")
	return ctx.Err()
}

// Method CreateSyllabus is a SyllabusRepository implementation for inserting a syllabus without components.
func (r *memoryRepository) CreateSyllabus(ctx context.Context, title, synopsis string) (*models.Syllabus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	syllabus := newSyllabus(title, synopsis)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertSyllabus(syllabus)

	return r.snapshot(syllabus.ID), nil
}

// Method CreateSyllabusWithComponents is a SyllabusRepository implementation for inserting a syllabus
// and its components under a single lock.
func (r *memoryRepository) CreateSyllabusWithComponents(ctx context.Context, title, synopsis string, drafts []models.ComponentDraft) (*models.Syllabus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, draft := range drafts {
		if !draft.Type.IsValid() {
			return nil, fmt.Errorf("invalid component type: %s", draft.Type)
		}
	}
	syllabus := newSyllabus(title, synopsis)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertSyllabus(syllabus)
	for _, draft := range drafts {
		r.insertComponent(syllabus.ID, newComponent(draft.Type, draft.Content, false))
	}

	return r.snapshot(syllabus.ID), nil
}

// Method GetSyllabus is a SyllabusRepository implementation for retrieving a syllabus with its components and files.
func (r *memoryRepository) GetSyllabus(ctx context.Context, id string) (*models.Syllabus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.syllabi[id]; !ok {
		return nil, nil
	}
	return r.snapshot(id), nil
}

// Method SyllabusExists is a SyllabusRepository implementation for checking if a syllabus exists.
func (r *memoryRepository) SyllabusExists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.syllabi[id]
	return ok, nil
}

// Method GetAllSyllabi is a SyllabusRepository implementation for listing syllabi, newest first.
func (r *memoryRepository) GetAllSyllabi(ctx context.Context) ([]models.Syllabus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	syllabi := make([]models.Syllabus, 0, len(r.order))
	for _, id := range slices.Backward(r.order) {
		s := *r.syllabi[id]
		s.Components = []models.Component{}
		s.Files = []models.File{}
		syllabi = append(syllabi, s)
	}
	return syllabi, nil
}

// Method DeleteSyllabus is a SyllabusRepository implementation for removing a syllabus with its components and files.
func (r *memoryRepository) DeleteSyllabus(ctx context.Context, id string) ([]models.File, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.syllabi[id]; !ok {
		return nil, false, nil
	}
	for _, componentID := range r.bySyllabus[id] {
		delete(r.components, componentID)
	}
	delete(r.bySyllabus, id)
	files := slices.Clone(r.files[id])
	if files == nil {
		files = []models.File{}
	}
	delete(r.files, id)
	delete(r.syllabi, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })

	return files, true, nil
}

// Method CreateComponent is a SyllabusRepository implementation for inserting a single component.
func (r *memoryRepository) CreateComponent(ctx context.Context, syllabusID string, componentType models.ComponentType, content string, accepted bool) (*models.Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !componentType.IsValid() {
		return nil, fmt.Errorf("invalid component type: %s", componentType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.syllabi[syllabusID]; !ok {
		return nil, fmt.Errorf("failed to insert component: syllabus %s does not exist", syllabusID)
	}

	component := newComponent(componentType, content, accepted)
	r.insertComponent(syllabusID, component)
	c := *component
	return &c, nil
}

// Method UpdateComponent is a SyllabusRepository implementation for replacing content and accepted flag of a component.
func (r *memoryRepository) UpdateComponent(ctx context.Context, id, content string, accepted bool) (*models.Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modifyComponent(id, func(c *models.Component) {
		c.Content = content
		c.Accepted = accepted
	}), nil
}

// Method SetComponentAccepted is a SyllabusRepository implementation for changing only the accepted flag of a component.
func (r *memoryRepository) SetComponentAccepted(ctx context.Context, id string, accepted bool) (*models.Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modifyComponent(id, func(c *models.Component) {
		c.Accepted = accepted
	}), nil
}

// Method AddFile is a SyllabusRepository implementation for recording metadata of an uploaded file.
func (r *memoryRepository) AddFile(ctx context.Context, syllabusID, name, url string, size int64, fileType string) (*models.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.syllabi[syllabusID]; !ok {
		return nil, fmt.Errorf("failed to insert file: syllabus %s does not exist", syllabusID)
	}

	file := models.File{
		ID:       ids.New(),
		Name:     name,
		URL:      url,
		Size:     size,
		Type:     fileType,
		Uploaded: now(),
	}
	r.files[syllabusID] = append(r.files[syllabusID], file)
	return &file, nil
}

// insertSyllabus stores a new syllabus. The caller holds the write lock.
func (r *memoryRepository) insertSyllabus(s *models.Syllabus) {
	stored := *s
	stored.Components = nil
	stored.Files = nil
	r.syllabi[s.ID] = &stored
	r.order = append(r.order, s.ID)
}

// insertComponent stores a component for an existing syllabus. The caller holds the write lock.
func (r *memoryRepository) insertComponent(syllabusID string, c *models.Component) {
	stored := *c
	r.components[c.ID] = &stored
	r.bySyllabus[syllabusID] = append(r.bySyllabus[syllabusID], c.ID)
}

func (r *memoryRepository) modifyComponent(id string, apply func(*models.Component)) *models.Component {
	c, ok := r.components[id]
	if !ok {
		return nil
	}
	apply(c)
	c.Modified = now()
	out := *c
	return &out
}

// snapshot builds a detached copy of a stored syllabus. The caller holds a lock.
func (r *memoryRepository) snapshot(id string) *models.Syllabus {
	stored := r.syllabi[id]
	out := *stored
	out.Components = make([]models.Component, 0, len(r.bySyllabus[id]))
	for _, componentID := range r.bySyllabus[id] {
		out.Components = append(out.Components, *r.components[componentID])
	}
	out.Files = slices.Clone(r.files[id])
	if out.Files == nil {
		out.Files = []models.File{}
	}
	return &out
}
