// Package storage provides blob storage for uploaded reference files
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/deepsyllabus/backend/internal/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	uploadTimeout = 2 * time.Minute
	deleteTimeout = 30 * time.Second

	defaultPublicHost = "https://storage.googleapis.com"
)

// gcsStorage stores objects in a Google Cloud Storage bucket
type gcsStorage struct {
	client        *gcs.Client
	bucket        string
	publicBaseURL string
	emulatorHost  string
	logger        *zap.Logger
}

// NewGCSStorage creates a bucket backed storage.
//
// Credentials are taken from GOOGLE_APPLICATION_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS,
// falling back to application default credentials. With an emulator host no authentication is used.
func NewGCSStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*gcsStorage, error) {
	var opts []option.ClientOption
	if cfg.EmulatorHost != "" {
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(opts, clientOptionsFromEnv()...)
		opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	s := &gcsStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		emulatorHost:  strings.TrimRight(cfg.EmulatorHost, "/"),
		logger:        logger,
	}

	logger.Info("object storage initialized",
		zap.String("bucket", s.bucket),
		zap.String("public_base_url", s.publicBaseURL),
		zap.String("emulator_host", s.emulatorHost),
	)
	return s, nil
}

// Put streams reader into the bucket under objectName and returns its public URL
func (s *gcsStorage) Put(ctx context.Context, objectName, contentType string, reader io.Reader) (string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	// Closing a writer commits the object, cancelling its context before Close discards it.
	uploadCtx, abort := context.WithCancel(ctx)
	defer abort()

	sw := newSizeWriter()
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(uploadCtx)
	w.ContentType = contentType

	if _, err := io.Copy(w, io.TeeReader(reader, sw)); err != nil {
		abort()
		if closeErr := w.Close(); closeErr != nil {
			s.logger.Debug("aborted object upload", zap.String("object", objectName), zap.Error(closeErr))
		}
		return "", 0, fmt.Errorf("failed to write object %q: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to finalize object %q: %w", objectName, err)
	}

	return s.publicURL(objectName), sw.Size(), nil
}

// Delete removes the object behind a URL returned by Put.
//
// A missing object is not an error.
func (s *gcsStorage) Delete(ctx context.Context, rawURL string) error {
	objectName, err := s.objectNameFromURL(rawURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if err := s.client.Bucket(s.bucket).Object(objectName).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			s.logger.Warn("object already removed", zap.String("object", objectName))
			return nil
		}
		return fmt.Errorf("failed to delete object %q in bucket %q: %w", objectName, s.bucket, err)
	}
	return nil
}

// Close releases the underlying client
func (s *gcsStorage) Close() error {
	return s.client.Close()
}

// publicURL builds the URL under which an object can be retrieved
func (s *gcsStorage) publicURL(objectName string) string {
	escaped := url.PathEscape(objectName)
	switch {
	case s.publicBaseURL != "":
		return fmt.Sprintf("%s/%s", s.publicBaseURL, escaped)
	case s.emulatorHost != "":
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", s.emulatorHost, s.bucket, escaped)
	default:
		return fmt.Sprintf("%s/%s/%s", defaultPublicHost, s.bucket, escaped)
	}
}

// objectNameFromURL reverses publicURL
func (s *gcsStorage) objectNameFromURL(rawURL string) (string, error) {
	var prefix, suffix string
	switch {
	case s.publicBaseURL != "":
		prefix = s.publicBaseURL + "/"
	case s.emulatorHost != "":
		prefix = fmt.Sprintf("%s/storage/v1/b/%s/o/", s.emulatorHost, s.bucket)
		suffix = "?alt=media"
	default:
		prefix = fmt.Sprintf("%s/%s/", defaultPublicHost, s.bucket)
	}

	if !strings.HasPrefix(rawURL, prefix) {
		return "", fmt.Errorf("url %q does not belong to bucket %q", rawURL, s.bucket)
	}
	escaped := strings.TrimSuffix(strings.TrimPrefix(rawURL, prefix), suffix)
	name, err := url.PathUnescape(escaped)
	if err != nil || name == "" {
		return "", fmt.Errorf("invalid object url %q", rawURL)
	}
	return name, nil
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}
