package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromSynopsis(t *testing.T) {
	tests := []struct {
		name     string
		synopsis string
		expected string
	}{
		{name: "first sentence", synopsis: "Intro to Linear Algebra. Covers vectors and matrices.", expected: "Intro to Linear Algebra"},
		{name: "no period", synopsis: "Organic chemistry basics", expected: "Organic chemistry basics"},
		{name: "leading whitespace", synopsis: "  Statistics 101 . Sampling.", expected: "Statistics 101"},
		{name: "starts with period", synopsis: ".NET fundamentals", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleFromSynopsis(tt.synopsis))
		})
	}
}

func TestSyllabus_FindComponent(t *testing.T) {
	s := &Syllabus{Components: []Component{
		{ID: "c1", Type: ComponentTypeVideo},
		{ID: "c2", Type: ComponentTypeAssessment},
	}}

	found := s.FindComponent("c2")
	if assert.NotNil(t, found) {
		assert.Equal(t, ComponentTypeAssessment, found.Type)
	}
	assert.Nil(t, s.FindComponent("missing"))
}

func TestComponentType_IsValid(t *testing.T) {
	for _, ct := range ComponentTypes {
		assert.True(t, ct.IsValid(), ct)
	}
	assert.False(t, ComponentType("quiz").IsValid())
	assert.False(t, ComponentType("").IsValid())
}

func TestPreferences_IsEmpty(t *testing.T) {
	var nilPrefs *Preferences
	assert.True(t, nilPrefs.IsEmpty())
	assert.True(t, (&Preferences{}).IsEmpty())
	assert.False(t, (&Preferences{AssessmentStyle: "oral exam"}).IsEmpty())
}
