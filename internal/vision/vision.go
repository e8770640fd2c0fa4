package vision

import (
	"context"

	"stickcheck/internal/sideline"
)

// Assessment is the model's verdict for one listing. Confidence 0 means
// definitely authentic, 100 definitely counterfeit.
type Assessment struct {
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
}

// Usage contains token usage and cost information for one model call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// ImagePayload is a fetched listing image ready for inline upload.
type ImagePayload struct {
	Data      []byte
	MediaType string
}

// Analyzer scores listings for counterfeit likelihood. Implementations never
// return an error: any failure degrades to a zero-confidence assessment with
// a diagnostic reason.
type Analyzer interface {
	AssessListing(ctx context.Context, listing sideline.Listing) Assessment
}

// ModelClient is one vision-capable model provider. It receives the prompt
// plus zero or more inline images and returns the model's raw text output.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, images []ImagePayload) (string, Usage, error)
}
