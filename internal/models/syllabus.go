package models

import (
	"strings"
	"time"
)

// Syllabus represents a course outline generated from a synopsis
type Syllabus struct {
	ID         string      `json:"id" db:"id"`
	Title      string      `json:"title" db:"title"`
	Synopsis   string      `json:"synopsis" db:"synopsis"`
	Components []Component `json:"components"`
	Files      []File      `json:"files"`
	Created    time.Time   `json:"created" db:"created"`
	Modified   time.Time   `json:"modified" db:"modified"`
}

// FindComponent returns the component of the syllabus with the given id, or nil
func (s *Syllabus) FindComponent(id string) *Component {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return &s.Components[i]
		}
	}
	return nil
}

// TitleFromSynopsis derives a syllabus title from the first sentence of a synopsis
func TitleFromSynopsis(synopsis string) string {
	first, _, _ := strings.Cut(synopsis, ".")
	return strings.TrimSpace(first)
}
