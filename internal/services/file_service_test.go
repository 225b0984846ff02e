package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/deepsyllabus/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockBlobStorage is a mock implementation of BlobStorage
type mockBlobStorage struct {
	putErr      error
	deleteErr   error
	objectName  string
	contentType string
	written     string
	deleted     []string
}

func (m *mockBlobStorage) Put(ctx context.Context, objectName, contentType string, reader io.Reader) (string, int64, error) {
	if m.putErr != nil {
		return "", 0, m.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", 0, err
	}
	m.objectName = objectName
	m.contentType = contentType
	m.written = string(data)
	return "mock://uploads/" + objectName, int64(len(data)), nil
}

func (m *mockBlobStorage) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return m.deleteErr
}

func TestFileService_UploadFile(t *testing.T) {
	tests := []struct {
		name                string
		syllabusID          string
		fileName            string
		contentType         string
		repo                *mockSyllabusRepository
		storage             *mockBlobStorage
		expectedError       error
		expectedContentType string
		expectedCleanup     bool
	}{
		{
			name:                "success",
			syllabusID:          "s1",
			fileName:            "lecture notes.pdf",
			contentType:         "application/pdf",
			repo:                &mockSyllabusRepository{exists: true},
			storage:             &mockBlobStorage{},
			expectedContentType: "application/pdf",
		},
		{
			name:                "missing content type",
			syllabusID:          "s1",
			fileName:            "data.bin",
			repo:                &mockSyllabusRepository{exists: true},
			storage:             &mockBlobStorage{},
			expectedContentType: "application/octet-stream",
		},
		{
			name:                "path components are stripped",
			syllabusID:          "s1",
			fileName:            "../../etc/passwd",
			contentType:         "text/plain",
			repo:                &mockSyllabusRepository{exists: true},
			storage:             &mockBlobStorage{},
			expectedContentType: "text/plain",
		},
		{
			name:          "missing syllabus id",
			syllabusID:    "",
			fileName:      "a.pdf",
			repo:          &mockSyllabusRepository{},
			storage:       &mockBlobStorage{},
			expectedError: ErrValidation,
		},
		{
			name:          "missing file name",
			syllabusID:    "s1",
			fileName:      "  ",
			repo:          &mockSyllabusRepository{exists: true},
			storage:       &mockBlobStorage{},
			expectedError: ErrValidation,
		},
		{
			name:          "syllabus not found",
			syllabusID:    "s1",
			fileName:      "a.pdf",
			repo:          &mockSyllabusRepository{exists: false},
			storage:       &mockBlobStorage{},
			expectedError: ErrSyllabusNotFound,
		},
		{
			name:          "existence check failure",
			syllabusID:    "s1",
			fileName:      "a.pdf",
			repo:          &mockSyllabusRepository{err: errors.New("database error")},
			storage:       &mockBlobStorage{},
			expectedError: ErrStorage,
		},
		{
			name:          "store failure",
			syllabusID:    "s1",
			fileName:      "a.pdf",
			repo:          &mockSyllabusRepository{exists: true},
			storage:       &mockBlobStorage{putErr: errors.New("bucket unavailable")},
			expectedError: ErrIngestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFileService(tt.repo, tt.storage, zap.NewNop())

			file, err := svc.UploadFile(context.Background(), tt.syllabusID, tt.fileName, tt.contentType, strings.NewReader("hello world"))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, file)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(11), file.Size)
			assert.Equal(t, tt.expectedContentType, file.Type)
			assert.Equal(t, tt.expectedContentType, tt.storage.contentType)
			assert.Equal(t, "hello world", tt.storage.written)
			assert.Equal(t, "mock://uploads/"+tt.storage.objectName, file.URL)
			assert.NotContains(t, file.Name, "/")
			assert.NotContains(t, tt.storage.objectName, "/")
		})
	}
}

// failingFileRepository records the file lookup but fails to insert metadata
type failingFileRepository struct {
	mockSyllabusRepository
}

func (f *failingFileRepository) AddFile(ctx context.Context, syllabusID, name, url string, size int64, fileType string) (*models.File, error) {
	return nil, errors.New("database error")
}

func TestFileService_UploadFile_CleansUpOnMetadataFailure(t *testing.T) {
	repo := &failingFileRepository{mockSyllabusRepository{exists: true}}
	storage := &mockBlobStorage{}
	svc := NewFileService(repo, storage, zap.NewNop())

	file, err := svc.UploadFile(context.Background(), "s1", "a.pdf", "application/pdf", strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrIngestion)
	assert.Nil(t, file)
	require.Len(t, storage.deleted, 1)
	assert.Equal(t, "mock://uploads/"+storage.objectName, storage.deleted[0])
}

func TestFileService_DeleteFile(t *testing.T) {
	storage := &mockBlobStorage{}
	svc := NewFileService(&mockSyllabusRepository{}, storage, zap.NewNop())

	require.NoError(t, svc.DeleteFile(context.Background(), "mock://uploads/a"))
	assert.Equal(t, []string{"mock://uploads/a"}, storage.deleted)

	assert.ErrorIs(t, svc.DeleteFile(context.Background(), ""), ErrValidation)

	storage.deleteErr = errors.New("permission denied")
	assert.ErrorIs(t, svc.DeleteFile(context.Background(), "mock://uploads/b"), ErrIngestion)
}
