package sideline

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Fetcher produces a bounded list of a seller's hockey stick listings. It
// tries the structured API first and falls back to scraping the storefront
// page. FetchSellerListings never returns an error; any failure yields an
// empty slice and the caller records a "no listings found" condition.
type Fetcher struct {
	client     *Client
	strategies []ExtractStrategy
}

func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{
		client:     client,
		strategies: defaultStrategies(),
	}
}

func (f *Fetcher) FetchSellerListings(ctx context.Context, username string) []Listing {
	listings, err := f.client.SearchSellerItems(ctx, username)
	if err != nil {
		log.Warn().Err(err).Str("seller", username).Msg("listings API unavailable, falling back to scraping")
	}

	if len(listings) == 0 {
		listings = f.client.ScrapeSellerPage(ctx, username, f.strategies)
	}

	listings = dedupeByItemID(listings)
	if len(listings) > MaxListingsPerSeller {
		listings = listings[:MaxListingsPerSeller]
	}

	return listings
}
