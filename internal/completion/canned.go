package completion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deepsyllabus/backend/internal/models"
	"go.uber.org/zap"
)

// cannedGenerator returns static content and never performs network I/O.
// It is used when the service runs without model credentials.
type cannedGenerator struct {
	logger *zap.Logger
}

// NewCannedGenerator creates the generator used in mock mode
func NewCannedGenerator(logger *zap.Logger) *cannedGenerator {
	return &cannedGenerator{logger: logger}
}

func cannedVideo() models.VideoContent {
	return models.VideoContent{
		Idea: "An introductory lecture that walks through the core concepts of the course with worked examples.",
		Link: "",
	}
}

func cannedExplanation() models.ExplanationContent {
	return models.ExplanationContent{
		Content: "This course introduces the fundamental ideas of the subject, builds intuition through examples and closes with practical applications.",
		Sections: []string{
			"Introduction",
			"Core concepts",
			"Worked examples",
			"Applications",
			"Summary",
		},
	}
}

func cannedAssessment() models.AssessmentContent {
	return models.AssessmentContent{
		Type:    models.DefaultAssessmentType,
		Content: "1. Define the central concept of the course in your own words.\n2. Solve the worked example without notes.\n3. Describe one real world application.",
	}
}

// GenerateSyllabus returns the same draft on every call, whatever the request
func (g *cannedGenerator) GenerateSyllabus(_ context.Context, req models.GenerateRequest) (*models.SyllabusDraft, error) {
	g.logger.Debug("returning canned syllabus", zap.Int("files", len(req.Files)))

	return &models.SyllabusDraft{
		Video:       cannedVideo(),
		Explanation: cannedExplanation(),
		Assessment:  cannedAssessment(),
	}, nil
}

// RegenerateComponent returns the canned payload of the requested component type
func (g *cannedGenerator) RegenerateComponent(_ context.Context, componentType models.ComponentType, _, feedback string) (json.RawMessage, error) {
	var payload any
	switch componentType {
	case models.ComponentTypeVideo:
		payload = cannedVideo()
	case models.ComponentTypeExplanation:
		payload = cannedExplanation()
	case models.ComponentTypeAssessment:
		payload = cannedAssessment()
	default:
		return nil, fmt.Errorf("unknown component type %q", componentType)
	}

	g.logger.Debug("returning canned component",
		zap.String("kind", string(componentType)),
		zap.Bool("feedback", feedback != ""),
	)
	return json.Marshal(payload)
}
