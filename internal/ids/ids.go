// Package ids generates opaque identifiers for new records
package ids

import "github.com/google/uuid"

// New returns a random (version 4) UUID string
func New() string {
	return uuid.New().String()
}
