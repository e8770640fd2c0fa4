// Command scrape-test fetches a seller's listings without touching the
// vision model. Useful for checking whether the extraction strategies still
// match the live storefront markup.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stickcheck/internal/sideline"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: scrape-test <username>")
		os.Exit(2)
	}
	username := os.Args[1]

	client := sideline.NewClient(sideline.ClientOpts{
		ApiBaseURL: os.Getenv("SIDELINE_API_BASE_URL"),
		WebBaseURL: os.Getenv("SIDELINE_WEB_BASE_URL"),
	})

	ctx := context.Background()
	fetcher := sideline.NewFetcher(client)
	listings := fetcher.FetchSellerListings(ctx, username)
	log.Info().Str("seller", username).Int("count", len(listings)).Msg("fetched listings")

	enricher := sideline.NewEnricher(client)
	for i := range listings {
		if i >= sideline.MaxEnrichPerSeller {
			break
		}
		listings[i] = enricher.EnrichListing(ctx, listings[i])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(listings); err != nil {
		log.Fatal().Err(err).Msg("failed to encode listings")
	}
}
