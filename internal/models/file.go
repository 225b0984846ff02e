package models

import "time"

// File represents reference material uploaded for a syllabus
type File struct {
	ID       string    `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	URL      string    `json:"url" db:"url"`
	Size     int64     `json:"size" db:"size"`
	Type     string    `json:"type" db:"type"`
	Uploaded time.Time `json:"uploaded" db:"uploaded"`
}

// FileRef describes reference material passed along with a generation request
type FileRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
