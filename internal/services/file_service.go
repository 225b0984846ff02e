package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/deepsyllabus/backend/internal/models"
	"github.com/deepsyllabus/backend/internal/storage"
	"go.uber.org/zap"
)

// BlobStorage defines the interface for object storage operations
type BlobStorage interface {
	// Put stores the content of reader under objectName and returns a retrievable URL
	// together with the number of bytes written.
	Put(ctx context.Context, objectName, contentType string, reader io.Reader) (url string, size int64, err error)
	// Delete removes the object behind a URL previously returned by Put.
	Delete(ctx context.Context, url string) error
}

// FileRepository defines the subset of the repository used for file ingestion
type FileRepository interface {
	SyllabusExists(ctx context.Context, id string) (bool, error)
	AddFile(ctx context.Context, syllabusID, name, url string, size int64, fileType string) (*models.File, error)
}

const defaultContentType = "application/octet-stream"

// FileService handles business logic of reference file uploads
type FileService struct {
	repo    FileRepository
	storage BlobStorage
	logger  *zap.Logger
}

// NewFileService creates a new file service
func NewFileService(repo FileRepository, storage BlobStorage, logger *zap.Logger) *FileService {
	return &FileService{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// UploadFile stores an uploaded file and records its metadata for a syllabus.
//
// If the metadata cannot be recorded the stored object is removed again.
func (s *FileService) UploadFile(ctx context.Context, syllabusID, name, contentType string, reader io.Reader) (*models.File, error) {
	if syllabusID == "" {
		return nil, fmt.Errorf("%w: syllabus id is required", ErrValidation)
	}
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	exists, err := s.repo.SyllabusExists(ctx, syllabusID)
	if err != nil {
		s.logger.Error("failed to check syllabus", zap.Error(err), zap.String("syllabus_id", syllabusID))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if !exists {
		return nil, ErrSyllabusNotFound
	}

	objectName := storage.GenerateObjectName(name)
	url, size, err := s.storage.Put(ctx, objectName, contentType, reader)
	if err != nil {
		s.logger.Error("failed to store file", zap.Error(err), zap.String("object", objectName))
		return nil, fmt.Errorf("%w: %w", ErrIngestion, err)
	}

	file, err := s.repo.AddFile(ctx, syllabusID, name, url, size, contentType)
	if err != nil {
		s.logger.Error("failed to record file", zap.Error(err), zap.String("syllabus_id", syllabusID))
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			s.logger.Warn("failed to clean up stored file", zap.Error(delErr), zap.String("url", url))
		}
		return nil, fmt.Errorf("%w: %w", ErrIngestion, err)
	}

	s.logger.Info("file uploaded",
		zap.String("syllabus_id", syllabusID),
		zap.String("file_id", file.ID),
		zap.Int64("size", size),
	)
	return file, nil
}

// DeleteFile removes the stored object behind url
func (s *FileService) DeleteFile(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("%w: file url is required", ErrValidation)
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		s.logger.Error("failed to delete file", zap.Error(err), zap.String("url", url))
		return fmt.Errorf("%w: %w", ErrIngestion, err)
	}
	return nil
}
