package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deepsyllabus/backend/internal/ids"
	"github.com/deepsyllabus/backend/internal/models"
	"go.uber.org/zap"
)

// SchemaMigrator brings the database schema up to date
type SchemaMigrator interface {
	Up() error
}

type syllabusRepository struct {
	db       *sql.DB
	migrator SchemaMigrator
	logger   *zap.Logger
}

// NewSyllabusRepository creates a new MySQL backed instance of the SyllabusRepository interface
func NewSyllabusRepository(db *sql.DB, migrator SchemaMigrator, logger *zap.Logger) *syllabusRepository {
	return &syllabusRepository{
		db:       db,
		migrator: migrator,
		logger:   logger,
	}
}

// now returns the current time with the precision of a DATETIME(3) column
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Method Init is a SyllabusRepository implementation for creating the tables through the schema migrations.
func (r *syllabusRepository) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.migrator.Up(); err != nil {
		r.logger.Error("failed to migrate database", zap.Error(err))
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

// Method CreateSyllabus is a SyllabusRepository implementation for inserting a syllabus without components.
func (r *syllabusRepository) CreateSyllabus(ctx context.Context, title, synopsis string) (*models.Syllabus, error) {
	syllabus := newSyllabus(title, synopsis)

	query := `INSERT INTO syllabi (id, title, synopsis, created, modified) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, syllabus.ID, syllabus.Title, syllabus.Synopsis, syllabus.Created, syllabus.Modified)
	if err != nil {
		r.logger.Error("failed to insert syllabus", zap.Error(err))
		return nil, fmt.Errorf("failed to insert syllabus: %w", err)
	}

	return syllabus, nil
}

// Method CreateSyllabusWithComponents is a SyllabusRepository implementation for inserting a syllabus
// and its components in one transaction.
func (r *syllabusRepository) CreateSyllabusWithComponents(ctx context.Context, title, synopsis string, drafts []models.ComponentDraft) (*models.Syllabus, error) {
	syllabus := newSyllabus(title, synopsis)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO syllabi (id, title, synopsis, created, modified) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, syllabus.ID, syllabus.Title, syllabus.Synopsis, syllabus.Created, syllabus.Modified); err != nil {
		r.logger.Error("failed to insert syllabus", zap.Error(err))
		return nil, fmt.Errorf("failed to insert syllabus: %w", err)
	}

	for _, draft := range drafts {
		component := newComponent(draft.Type, draft.Content, false)
		if err := insertComponent(ctx, tx, syllabus.ID, component); err != nil {
			r.logger.Error("failed to insert component", zap.Error(err), zap.String("kind", string(draft.Type)))
			return nil, err
		}
		syllabus.Components = append(syllabus.Components, *component)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return syllabus, nil
}

// Method GetSyllabus is a SyllabusRepository implementation for retrieving a syllabus with its components and files.
//
// Returns nil without an error if the syllabus doesn't exist.
func (r *syllabusRepository) GetSyllabus(ctx context.Context, id string) (*models.Syllabus, error) {
	query := `SELECT id, title, synopsis, created, modified FROM syllabi WHERE id = ?`

	var syllabus models.Syllabus
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&syllabus.ID,
		&syllabus.Title,
		&syllabus.Synopsis,
		&syllabus.Created,
		&syllabus.Modified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get syllabus", zap.Error(err), zap.String("syllabus_id", id))
		return nil, fmt.Errorf("failed to get syllabus: %w", err)
	}

	components, err := r.getComponents(ctx, id)
	if err != nil {
		return nil, err
	}
	files, err := r.getFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	syllabus.Components = components
	syllabus.Files = files

	return &syllabus, nil
}

func (r *syllabusRepository) getComponents(ctx context.Context, syllabusID string) ([]models.Component, error) {
	query := `
		SELECT id, type, content, accepted, created, modified
		FROM components
		WHERE syllabus_id = ?
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query, syllabusID)
	if err != nil {
		r.logger.Error("failed to query components", zap.Error(err))
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	components := []models.Component{}
	for rows.Next() {
		var c models.Component
		if err := rows.Scan(&c.ID, &c.Type, &c.Content, &c.Accepted, &c.Created, &c.Modified); err != nil {
			r.logger.Error("failed to scan component", zap.Error(err))
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		components = append(components, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return components, nil
}

func (r *syllabusRepository) getFiles(ctx context.Context, syllabusID string) ([]models.File, error) {
	query := `
		SELECT id, name, url, size, type, uploaded
		FROM files
		WHERE syllabus_id = ?
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query, syllabusID)
	if err != nil {
		r.logger.Error("failed to query files", zap.Error(err))
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.Name, &f.URL, &f.Size, &f.Type, &f.Uploaded); err != nil {
			r.logger.Error("failed to scan file", zap.Error(err))
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return files, nil
}

// Method SyllabusExists is a SyllabusRepository implementation for checking if a syllabus exists.
func (r *syllabusRepository) SyllabusExists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM syllabi WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("failed to check syllabus existence", zap.Error(err))
		return false, fmt.Errorf("failed to check syllabus existence: %w", err)
	}

	return exists, nil
}

// Method GetAllSyllabi is a SyllabusRepository implementation for listing syllabi, newest first.
//
// Components and files are not loaded.
func (r *syllabusRepository) GetAllSyllabi(ctx context.Context) ([]models.Syllabus, error) {
	query := `SELECT id, title, synopsis, created, modified FROM syllabi ORDER BY seq DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query syllabi", zap.Error(err))
		return nil, fmt.Errorf("failed to query syllabi: %w", err)
	}
	defer rows.Close()

	syllabi := []models.Syllabus{}
	for rows.Next() {
		s := models.Syllabus{Components: []models.Component{}, Files: []models.File{}}
		if err := rows.Scan(&s.ID, &s.Title, &s.Synopsis, &s.Created, &s.Modified); err != nil {
			r.logger.Error("failed to scan syllabus", zap.Error(err))
			return nil, fmt.Errorf("failed to scan syllabus: %w", err)
		}
		syllabi = append(syllabi, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return syllabi, nil
}

// Method DeleteSyllabus is a SyllabusRepository implementation for removing a syllabus.
//
// Components and files are removed by the foreign key cascade. The file records are read first
// in the same transaction and returned.
func (r *syllabusRepository) DeleteSyllabus(ctx context.Context, id string) ([]models.File, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id, name, url, size, type, uploaded FROM files WHERE syllabus_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query files: %w", err)
	}
	files := []models.File{}
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.Name, &f.URL, &f.Size, &f.Type, &f.Uploaded); err != nil {
			rows.Close()
			return nil, false, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, false, fmt.Errorf("error iterating rows: %w", err)
	}
	rows.Close()

	result, err := tx.ExecContext(ctx, `DELETE FROM syllabi WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete syllabus", zap.Error(err), zap.String("syllabus_id", id))
		return nil, false, fmt.Errorf("failed to delete syllabus: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, false, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return files, true, nil
}

// Method CreateComponent is a SyllabusRepository implementation for inserting a single component.
func (r *syllabusRepository) CreateComponent(ctx context.Context, syllabusID string, componentType models.ComponentType, content string, accepted bool) (*models.Component, error) {
	if !componentType.IsValid() {
		return nil, fmt.Errorf("invalid component type: %s", componentType)
	}

	component := newComponent(componentType, content, accepted)
	if err := insertComponent(ctx, r.db, syllabusID, component); err != nil {
		r.logger.Error("failed to insert component", zap.Error(err), zap.String("syllabus_id", syllabusID))
		return nil, err
	}

	return component, nil
}

// Method UpdateComponent is a SyllabusRepository implementation for replacing content and accepted flag of a component.
//
// Returns nil without an error if the component doesn't exist.
func (r *syllabusRepository) UpdateComponent(ctx context.Context, id, content string, accepted bool) (*models.Component, error) {
	query := `UPDATE components SET content = ?, accepted = ?, modified = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, content, accepted, now(), id); err != nil {
		r.logger.Error("failed to update component", zap.Error(err), zap.String("component_id", id))
		return nil, fmt.Errorf("failed to update component: %w", err)
	}

	return r.getComponent(ctx, id)
}

// Method SetComponentAccepted is a SyllabusRepository implementation for changing only the accepted flag of a component.
//
// Returns nil without an error if the component doesn't exist.
func (r *syllabusRepository) SetComponentAccepted(ctx context.Context, id string, accepted bool) (*models.Component, error) {
	query := `UPDATE components SET accepted = ?, modified = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, accepted, now(), id); err != nil {
		r.logger.Error("failed to update component acceptance", zap.Error(err), zap.String("component_id", id))
		return nil, fmt.Errorf("failed to update component: %w", err)
	}

	return r.getComponent(ctx, id)
}

// getComponent reads a component back after an update.
// MySQL reports zero affected rows when the values did not change, so existence is decided by the read.
func (r *syllabusRepository) getComponent(ctx context.Context, id string) (*models.Component, error) {
	query := `SELECT id, type, content, accepted, created, modified FROM components WHERE id = ?`

	var c models.Component
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Type, &c.Content, &c.Accepted, &c.Created, &c.Modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get component", zap.Error(err), zap.String("component_id", id))
		return nil, fmt.Errorf("failed to get component: %w", err)
	}

	return &c, nil
}

// Method AddFile is a SyllabusRepository implementation for recording metadata of an uploaded file.
func (r *syllabusRepository) AddFile(ctx context.Context, syllabusID, name, url string, size int64, fileType string) (*models.File, error) {
	file := &models.File{
		ID:       ids.New(),
		Name:     name,
		URL:      url,
		Size:     size,
		Type:     fileType,
		Uploaded: now(),
	}

	query := `INSERT INTO files (id, syllabus_id, name, url, size, type, uploaded) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, file.ID, syllabusID, file.Name, file.URL, file.Size, file.Type, file.Uploaded)
	if err != nil {
		r.logger.Error("failed to insert file", zap.Error(err), zap.String("syllabus_id", syllabusID))
		return nil, fmt.Errorf("failed to insert file: %w", err)
	}

	return file, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertComponent(ctx context.Context, db execer, syllabusID string, c *models.Component) error {
	query := `
		INSERT INTO components (id, syllabus_id, type, content, accepted, created, modified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, query, c.ID, syllabusID, c.Type, c.Content, c.Accepted, c.Created, c.Modified); err != nil {
		return fmt.Errorf("failed to insert component: %w", err)
	}
	return nil
}

func newSyllabus(title, synopsis string) *models.Syllabus {
	ts := now()
	return &models.Syllabus{
		ID:         ids.New(),
		Title:      title,
		Synopsis:   synopsis,
		Components: []models.Component{},
		Files:      []models.File{},
		Created:    ts,
		Modified:   ts,
	}
}

func newComponent(componentType models.ComponentType, content string, accepted bool) *models.Component {
	ts := now()
	return &models.Component{
		ID:       ids.New(),
		Type:     componentType,
		Content:  content,
		Accepted: accepted,
		Created:  ts,
		Modified: ts,
	}
}
