package completion

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deepsyllabus/backend/internal/models"
)

// Parsed is the outcome of parsing a model response.
//
// Defaulted lists the fields (dotted paths) that were missing or had the wrong type
// and were replaced by their default value.
type Parsed[T any] struct {
	Value     T
	Defaulted []string
}

type object map[string]json.RawMessage

// fieldReader reads fields of a decoded JSON object, recording every substituted default
type fieldReader struct {
	defaulted []string
}

func (r *fieldReader) mark(path string) {
	r.defaulted = append(r.defaulted, path)
}

func (r *fieldReader) nested(obj object, key, path string) object {
	raw, ok := obj[key]
	if !ok {
		r.mark(path)
		return object{}
	}
	var nested object
	if err := json.Unmarshal(raw, &nested); err != nil || nested == nil {
		r.mark(path)
		return object{}
	}
	return nested
}

func (r *fieldReader) text(obj object, key, path, def string) string {
	raw, ok := obj[key]
	if !ok {
		r.mark(path)
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		r.mark(path)
		return def
	}
	if s == "" && def != "" {
		r.mark(path)
		return def
	}
	return s
}

func (r *fieldReader) textList(obj object, key, path string) []string {
	out := []string{}
	raw, ok := obj[key]
	if !ok {
		r.mark(path)
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		r.mark(path)
		return out
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			r.mark(path)
			continue
		}
		out = append(out, s)
	}
	return out
}

// decodeObject decodes the top level JSON object of a model response
func decodeObject(raw string) (object, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	var obj object
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: response is not an object", ErrMalformedResponse)
	}
	return obj, nil
}

// ParseSyllabusDraft parses the response of a full syllabus generation.
//
// Invalid JSON is an error; missing or mistyped fields are defaulted and reported.
func ParseSyllabusDraft(raw string) (Parsed[models.SyllabusDraft], error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Parsed[models.SyllabusDraft]{}, err
	}

	r := &fieldReader{}
	video := r.nested(obj, "video", "video")
	explanation := r.nested(obj, "explanation", "explanation")
	assessment := r.nested(obj, "assessment", "assessment")

	return Parsed[models.SyllabusDraft]{
		Value: models.SyllabusDraft{
			Video:       readVideo(r, video, "video."),
			Explanation: readExplanation(r, explanation, "explanation."),
			Assessment:  readAssessment(r, assessment, "assessment."),
		},
		Defaulted: r.defaulted,
	}, nil
}

// ParseComponent parses the response of a single component regeneration.
//
// Models sometimes wrap the payload in an object keyed by the component type; such a wrapper is removed.
func ParseComponent(componentType models.ComponentType, raw string) (Parsed[any], error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Parsed[any]{}, err
	}
	if wrapped, ok := obj[string(componentType)]; ok && len(obj) == 1 {
		var nested object
		if err := json.Unmarshal(wrapped, &nested); err == nil && nested != nil {
			obj = nested
		}
	}

	r := &fieldReader{}
	var value any
	switch componentType {
	case models.ComponentTypeVideo:
		value = readVideo(r, obj, "")
	case models.ComponentTypeExplanation:
		value = readExplanation(r, obj, "")
	case models.ComponentTypeAssessment:
		value = readAssessment(r, obj, "")
	default:
		return Parsed[any]{}, fmt.Errorf("unknown component type %q", componentType)
	}

	return Parsed[any]{Value: value, Defaulted: r.defaulted}, nil
}

func readVideo(r *fieldReader, obj object, prefix string) models.VideoContent {
	return models.VideoContent{
		Idea: r.text(obj, "idea", prefix+"idea", ""),
		Link: optionalString(obj, "link"),
	}
}

func readExplanation(r *fieldReader, obj object, prefix string) models.ExplanationContent {
	return models.ExplanationContent{
		Content:  r.text(obj, "content", prefix+"content", ""),
		Sections: r.textList(obj, "sections", prefix+"sections"),
	}
}

func readAssessment(r *fieldReader, obj object, prefix string) models.AssessmentContent {
	return models.AssessmentContent{
		Type:    r.text(obj, "type", prefix+"type", models.DefaultAssessmentType),
		Content: r.text(obj, "content", prefix+"content", ""),
	}
}

// optionalString reads a field that the model may legitimately omit
func optionalString(obj object, key string) string {
	var s string
	if raw, ok := obj[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}
