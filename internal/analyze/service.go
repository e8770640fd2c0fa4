package analyze

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"stickcheck/internal/sideline"
	"stickcheck/internal/vision"
)

// ListingSource produces a seller's candidate listings. Implementations
// never fail; an empty slice means "nothing found".
type ListingSource interface {
	FetchSellerListings(ctx context.Context, username string) []sideline.Listing
}

// ListingEnricher fills in missing listing details. Implementations return
// the input unchanged on failure.
type ListingEnricher interface {
	EnrichListing(ctx context.Context, listing sideline.Listing) sideline.Listing
}

// Service drives the fetch → enrich → assess pipeline across all requested
// sellers. Everything runs strictly sequentially: one seller at a time, one
// listing at a time, one model call at a time. Paid per-call model usage and
// scraping courtesy both argue against fan-out here.
type Service struct {
	fetcher          ListingSource
	enricher         ListingEnricher
	assessor         vision.Analyzer
	marketplaceLimit Limiter
	modelLimit       Limiter
}

func NewService(fetcher ListingSource, enricher ListingEnricher, assessor vision.Analyzer, marketplaceLimit, modelLimit Limiter) *Service {
	return &Service{
		fetcher:          fetcher,
		enricher:         enricher,
		assessor:         assessor,
		marketplaceLimit: marketplaceLimit,
		modelLimit:       modelLimit,
	}
}

// Run processes one analysis batch. Per-seller failures accumulate into the
// response's error list; they never abort the remaining sellers. The only
// early exit is context cancellation, which returns whatever accumulated so
// far.
func (s *Service) Run(ctx context.Context, req Request) Response {
	results := []AnalysisRecord{}
	var errs []string

	for _, username := range req.Usernames {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}

		log.Info().Str("seller", username).Msg("fetching listings")
		listings := s.fetcher.FetchSellerListings(ctx, username)
		if len(listings) == 0 {
			errs = append(errs, fmt.Sprintf("No hockey stick listings found for seller: %s", username))
			continue
		}
		log.Info().Str("seller", username).Int("count", len(listings)).Msg("found listings")

		for i := range listings {
			if i >= sideline.MaxEnrichPerSeller {
				break
			}
			if err := s.marketplaceLimit.Wait(ctx); err != nil {
				return s.finish(results, errs)
			}
			listings[i] = s.enricher.EnrichListing(ctx, listings[i])
		}

		for _, listing := range listings {
			if err := s.modelLimit.Wait(ctx); err != nil {
				return s.finish(results, errs)
			}

			log.Info().Str("itemId", listing.ItemID).Msg("assessing listing")
			assessment := s.assessor.AssessListing(ctx, listing)
			if assessment.Confidence < req.Threshold {
				continue
			}

			record := AnalysisRecord{
				ItemID:     listing.ItemID,
				URL:        listing.URL,
				Title:      listing.Title,
				Confidence: assessment.Confidence,
				Reason:     assessment.Reason,
			}
			if len(listing.ImageURLs) > 0 {
				record.ImageURL = listing.ImageURLs[0]
			}
			results = append(results, record)
		}

		if err := s.marketplaceLimit.Wait(ctx); err != nil {
			return s.finish(results, errs)
		}
	}

	return s.finish(results, errs)
}

// finish sorts results by confidence descending. The sort is stable so
// equal-confidence records keep their seller-then-listing encounter order.
func (s *Service) finish(results []AnalysisRecord, errs []string) Response {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return Response{Results: results, Errors: errs}
}
