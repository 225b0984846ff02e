package models

import "time"

// ComponentType represents the kind of a syllabus component
type ComponentType string

const (
	ComponentTypeVideo       ComponentType = "video"
	ComponentTypeExplanation ComponentType = "explanation"
	ComponentTypeAssessment  ComponentType = "assessment"
)

// ComponentTypes lists every component kind in the order they are generated
var ComponentTypes = []ComponentType{
	ComponentTypeVideo,
	ComponentTypeExplanation,
	ComponentTypeAssessment,
}

// IsValid reports whether t is one of the known component kinds
func (t ComponentType) IsValid() bool {
	switch t {
	case ComponentTypeVideo, ComponentTypeExplanation, ComponentTypeAssessment:
		return true
	default:
		return false
	}
}

// Component represents one generated part of a syllabus.
//
// Content holds a JSON encoded payload whose shape depends on Type
// (see VideoContent, ExplanationContent and AssessmentContent).
type Component struct {
	ID       string        `json:"id" db:"id"`
	Type     ComponentType `json:"type" db:"type"`
	Content  string        `json:"content" db:"content"`
	Accepted bool          `json:"accepted" db:"accepted"`
	Created  time.Time     `json:"created" db:"created"`
	Modified time.Time     `json:"modified" db:"modified"`
}

// ComponentDraft is a component that has not been persisted yet
type ComponentDraft struct {
	Type    ComponentType
	Content string
}
