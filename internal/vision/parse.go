package vision

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	reasonParseFailure = "unable to parse analysis response"
	reasonMissing      = "unable to determine"
)

// rawAssessment tolerates whatever the model decided JSON numbers and
// strings look like today.
type rawAssessment struct {
	Confidence any `json:"confidence"`
	Reason     any `json:"reason"`
}

// parseAssessment extracts the first brace-delimited JSON object from the
// model's text output and normalizes it. The model is instructed to respond
// with JSON only, but this is the one boundary where that can't be trusted:
// markdown fences, leading prose and malformed fields all occur in practice.
func parseAssessment(text string) (Assessment, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return Assessment{Confidence: 0, Reason: reasonParseFailure}, false
	}

	var raw rawAssessment
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return Assessment{Confidence: 0, Reason: reasonParseFailure}, false
	}

	return Assessment{
		Confidence: clampConfidence(raw.Confidence),
		Reason:     coerceReason(raw.Reason),
	}, true
}

// clampConfidence coerces the model's confidence value into [0, 100].
// Non-numeric or missing values become 0.
func clampConfidence(v any) int {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	c := int(f)
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func coerceReason(v any) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return reasonMissing
	}
	return s
}
