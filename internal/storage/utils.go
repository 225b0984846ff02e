package storage

import (
	"path/filepath"
	"strings"

	"github.com/deepsyllabus/backend/internal/ids"
)

// GenerateObjectName derives a collision resistant object name from an original file name.
//
// The name is prefixed with a fresh id; characters outside [A-Za-z0-9._-] are replaced
// so the result is safe in object keys and URLs.
func GenerateObjectName(name string) string {
	var b strings.Builder
	for _, r := range filepath.Base(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	safe := strings.Trim(b.String(), "._")
	if safe == "" {
		return ids.New()
	}
	return ids.New() + "-" + safe
}

// sizeWriter tracks the total number of bytes written to it
type sizeWriter struct {
	size int64
}

// Write implements io.Writer interface
func (sw *sizeWriter) Write(p []byte) (int, error) {
	n := len(p)
	sw.size += int64(n)
	return n, nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// newSizeWriter creates a new sizeWriter instance
func newSizeWriter() *sizeWriter {
	return &sizeWriter{}
}
