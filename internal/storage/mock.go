package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// mockStorage stands in for the blob store when no storage credentials are configured.
//
// It never performs network I/O: uploaded bytes are only counted and the returned URL is a placeholder.
type mockStorage struct {
	baseURL string
	logger  *zap.Logger
}

// NewMockStorage creates a placeholder storage that builds URLs below baseURL
func NewMockStorage(baseURL string, logger *zap.Logger) *mockStorage {
	return &mockStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Put drains reader and returns a placeholder URL for objectName
func (s *mockStorage) Put(ctx context.Context, objectName, contentType string, reader io.Reader) (string, int64, error) {
	sw := newSizeWriter()
	if _, err := io.Copy(sw, reader); err != nil {
		return "", 0, fmt.Errorf("failed to read upload: %w", err)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, objectName)
	s.logger.Debug("mock storage upload",
		zap.String("object", objectName),
		zap.String("content_type", contentType),
		zap.Int64("size", sw.Size()),
	)
	return url, sw.Size(), nil
}

// Delete only logs the request
func (s *mockStorage) Delete(ctx context.Context, url string) error {
	s.logger.Info("mock storage delete skipped", zap.String("url", url))
	return nil
}
