package completion

import (
	"fmt"
	"strings"

	"github.com/deepsyllabus/backend/internal/models"
)

const syllabusSystemPrompt = `You are an assistant that helps educators build course syllabi.
Given a course synopsis, draft three syllabus components:

1. A video resource suggestion: an idea for a video and, if you know a suitable one, a link.
2. A detailed written explanation divided into logical sections.
3. A measure of learning such as a quiz, a test or a demonstration.

Respond with a single JSON object of exactly this shape:
{"video": {"idea": string, "link": string}, "explanation": {"content": string, "sections": [string]}, "assessment": {"type": string, "content": string}}`

const componentSystemPrompt = `You are an assistant that helps educators build course syllabi.
Your task is to draft the %s component of a syllabus for the given course synopsis.
Respond with a single JSON object of exactly this shape:
%s`

var componentShapes = map[models.ComponentType]string{
	models.ComponentTypeVideo:       `{"idea": string, "link": string}`,
	models.ComponentTypeExplanation: `{"content": string, "sections": [string]}`,
	models.ComponentTypeAssessment:  `{"type": string, "content": string}`,
}

var componentInstructions = map[models.ComponentType]string{
	models.ComponentTypeVideo:       "Suggest a video resource with an idea and an optional link.",
	models.ComponentTypeExplanation: "Write a detailed explanation divided into logical sections.",
	models.ComponentTypeAssessment:  "Create a measure of learning such as a quiz, a test or a demonstration.",
}

// syllabusPrompts builds the system and user prompt of a full syllabus generation
func syllabusPrompts(req models.GenerateRequest) (string, string) {
	var system strings.Builder
	system.WriteString(syllabusSystemPrompt)

	if len(req.Files) > 0 {
		system.WriteString("\n\nThe following materials have been provided as reference:")
		for _, f := range req.Files {
			fmt.Fprintf(&system, "\n- %s (%s)", f.Name, f.Type)
		}
	}

	if !req.Preferences.IsEmpty() {
		system.WriteString("\n\nFollow these style preferences:")
		p := req.Preferences
		if p.VideoStyle != "" {
			fmt.Fprintf(&system, "\n- Video: %s", p.VideoStyle)
		}
		if p.ExplanationStyle != "" {
			fmt.Fprintf(&system, "\n- Explanation: %s", p.ExplanationStyle)
		}
		if p.AssessmentStyle != "" {
			fmt.Fprintf(&system, "\n- Assessment: %s", p.AssessmentStyle)
		}
	}

	user := fmt.Sprintf(`Please generate a syllabus for the following course synopsis:
%s

Respond with a JSON object containing a video suggestion, a detailed explanation, and a learning assessment.`, req.Synopsis)

	return system.String(), user
}

// componentPrompts builds the system and user prompt of a single component regeneration
func componentPrompts(componentType models.ComponentType, synopsis, feedback string) (string, string) {
	system := fmt.Sprintf(componentSystemPrompt, componentType, componentShapes[componentType])
	if feedback != "" {
		system += fmt.Sprintf("\n\nThe user gave this feedback on the previous version: %s", feedback)
	}

	user := fmt.Sprintf(`Please generate a %s component for the following course synopsis:
%s

%s`, componentType, synopsis, componentInstructions[componentType])

	return system, user
}
