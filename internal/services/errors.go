package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks invalid input supplied by the caller
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced record that does not exist
	ErrNotFound = errors.New("not found")
	// ErrGeneration marks a failed or malformed language model completion
	ErrGeneration = errors.New("failed to generate syllabus components")
	// ErrIngestion marks a failed upload or removal of a stored file
	ErrIngestion = errors.New("failed to ingest file")
	// ErrStorage marks a failed repository operation
	ErrStorage = errors.New("storage failure")

	ErrSyllabusNotFound  = fmt.Errorf("syllabus %w", ErrNotFound)
	ErrComponentNotFound = fmt.Errorf("component %w", ErrNotFound)
)
