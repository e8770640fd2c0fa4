package vision

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"stickcheck/internal/sideline"
)

// MaxImagesPerAssessment caps how many listing images go into one model
// call, to stay within provider limits.
const MaxImagesPerAssessment = 4

// Assessor implements Analyzer on top of a ModelClient. It downloads the
// listing's images, builds the evaluation prompt and normalizes the model's
// answer. It never returns an error: model failures, unreachable images and
// malformed output all degrade to a zero-confidence assessment.
type Assessor struct {
	model      ModelClient
	downloader *ImageDownloader
}

func NewAssessor(model ModelClient) *Assessor {
	return &Assessor{
		model:      model,
		downloader: NewImageDownloader(),
	}
}

func (a *Assessor) AssessListing(ctx context.Context, listing sideline.Listing) Assessment {
	if a.model == nil {
		return Assessment{Confidence: 0, Reason: "Analysis error: vision model not configured"}
	}

	images := a.collectImages(ctx, listing)

	text, usage, err := a.model.Generate(ctx, buildAssessmentPrompt(listing), images)
	if err != nil {
		log.Warn().Err(err).Str("itemId", listing.ItemID).Msg("model call failed")
		return Assessment{Confidence: 0, Reason: fmt.Sprintf("Analysis error: %v", err)}
	}

	log.Info().
		Str("itemId", listing.ItemID).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("model usage")

	assessment, ok := parseAssessment(text)
	if !ok {
		log.Warn().Str("itemId", listing.ItemID).Str("response", text).Msg("unparseable model output")
	}
	return assessment
}

// collectImages downloads up to MaxImagesPerAssessment listing images.
// Images that fail to fetch are skipped; zero images is a valid, degraded
// input for the model.
func (a *Assessor) collectImages(ctx context.Context, listing sideline.Listing) []ImagePayload {
	urls := listing.ImageURLs
	if len(urls) > MaxImagesPerAssessment {
		urls = urls[:MaxImagesPerAssessment]
	}

	var images []ImagePayload
	for _, imageURL := range urls {
		img, err := a.downloader.DownloadImage(ctx, imageURL)
		if err != nil {
			log.Warn().Err(err).Str("url", imageURL).Msg("failed to fetch listing image")
			continue
		}
		images = append(images, img)
	}
	return images
}
