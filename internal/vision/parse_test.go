package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssessment_ValidJSON(t *testing.T) {
	a, ok := parseAssessment(`{"confidence": 85, "reason": "Stock photos and suspiciously low price."}`)
	assert.True(t, ok)
	assert.Equal(t, 85, a.Confidence)
	assert.Equal(t, "Stock photos and suspiciously low price.", a.Reason)
}

func TestParseAssessment_MarkdownFences(t *testing.T) {
	a, ok := parseAssessment("```json\n{\"confidence\": 42, \"reason\": \"ok\"}\n```")
	assert.True(t, ok)
	assert.Equal(t, 42, a.Confidence)
	assert.Equal(t, "ok", a.Reason)
}

func TestParseAssessment_SurroundingProse(t *testing.T) {
	a, ok := parseAssessment(`Here is my assessment: {"confidence": 60, "reason": "vague description"} Hope that helps!`)
	assert.True(t, ok)
	assert.Equal(t, 60, a.Confidence)
}

func TestParseAssessment_NonJSONText(t *testing.T) {
	a, ok := parseAssessment("I cannot analyze this listing.")
	assert.False(t, ok)
	assert.Equal(t, 0, a.Confidence)
	assert.Equal(t, "unable to parse analysis response", a.Reason)
}

func TestParseAssessment_EmptyText(t *testing.T) {
	a, ok := parseAssessment("")
	assert.False(t, ok)
	assert.Equal(t, 0, a.Confidence)
}

func TestParseAssessment_ClampsConfidence(t *testing.T) {
	a, _ := parseAssessment(`{"confidence": 250, "reason": "x"}`)
	assert.Equal(t, 100, a.Confidence)

	a, _ = parseAssessment(`{"confidence": -10, "reason": "x"}`)
	assert.Equal(t, 0, a.Confidence)
}

func TestParseAssessment_NumericString(t *testing.T) {
	a, ok := parseAssessment(`{"confidence": "70", "reason": "x"}`)
	assert.True(t, ok)
	assert.Equal(t, 70, a.Confidence)
}

func TestParseAssessment_NonNumericConfidence(t *testing.T) {
	a, ok := parseAssessment(`{"confidence": "high", "reason": "x"}`)
	assert.True(t, ok)
	assert.Equal(t, 0, a.Confidence)
	assert.Equal(t, "x", a.Reason)
}

func TestParseAssessment_MissingFields(t *testing.T) {
	a, ok := parseAssessment(`{}`)
	assert.True(t, ok)
	assert.Equal(t, 0, a.Confidence)
	assert.Equal(t, "unable to determine", a.Reason)
}
