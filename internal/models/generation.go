package models

// VideoContent is the payload of a video component
type VideoContent struct {
	Idea string `json:"idea"`
	Link string `json:"link"`
}

// ExplanationContent is the payload of an explanation component
type ExplanationContent struct {
	Content  string   `json:"content"`
	Sections []string `json:"sections"`
}

// AssessmentContent is the payload of an assessment component
type AssessmentContent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// DefaultAssessmentType is used when the model does not name the kind of assessment
const DefaultAssessmentType = "quiz"

// SyllabusDraft holds the three generated components of a syllabus
type SyllabusDraft struct {
	Video       VideoContent       `json:"video"`
	Explanation ExplanationContent `json:"explanation"`
	Assessment  AssessmentContent  `json:"assessment"`
}

// Preferences holds optional style hints for the generated components
type Preferences struct {
	VideoStyle       string `json:"videoStyle,omitempty"`
	ExplanationStyle string `json:"explanationStyle,omitempty"`
	AssessmentStyle  string `json:"assessmentStyle,omitempty"`
}

// IsEmpty reports whether no preference is set
func (p *Preferences) IsEmpty() bool {
	return p == nil || (p.VideoStyle == "" && p.ExplanationStyle == "" && p.AssessmentStyle == "")
}

// GenerateRequest is the input of a syllabus generation
type GenerateRequest struct {
	Synopsis    string
	Files       []FileRef
	Preferences *Preferences
}
