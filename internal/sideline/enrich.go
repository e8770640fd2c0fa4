package sideline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// MaxEnrichPerSeller bounds how many listings get a detail fetch per seller.
const MaxEnrichPerSeller = 10

var (
	widthToken  = regexp.MustCompile(`w_\d+`)
	heightToken = regexp.MustCompile(`h_\d+`)
)

// ItemResponse is the shape of /v1/items/{id}.
type ItemResponse struct {
	Data ItemDetail `json:"data"`
}

type ItemDetail struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	Price       *FacetPrice  `json:"price"`
	Images      []FacetImage `json:"images"`
}

// Enricher fills in description, full-resolution images and price from the
// per-item detail resource. EnrichListing never returns an error; on any
// failure the input listing comes back unchanged.
type Enricher struct {
	client *Client
}

func NewEnricher(client *Client) *Enricher {
	return &Enricher{client: client}
}

func (e *Enricher) EnrichListing(ctx context.Context, listing Listing) Listing {
	if enriched, ok := e.enrichFromAPI(ctx, listing); ok {
		return enriched
	}
	return e.enrichFromPage(ctx, listing)
}

func (e *Enricher) enrichFromAPI(ctx context.Context, listing Listing) (Listing, bool) {
	res, err := handleError(e.client.httpClient.
		NewRequest().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(e.client.apiBaseURL + "/v1/items/" + listing.ItemID))
	if err != nil {
		return listing, false
	}

	var result ItemResponse
	if err := json.Unmarshal(res.Body(), &result); err != nil {
		log.Debug().Err(fmt.Errorf("%w: %v", ErrDecode, err)).Str("itemId", listing.ItemID).Msg("item detail decode failed")
		return listing, false
	}
	if result.Data.ID == 0 {
		return listing, false
	}

	if desc := TruncateDescription(result.Data.Description); desc != "" {
		listing.Description = desc
	}
	if listing.Price == PriceUnknown && result.Data.Price != nil && result.Data.Price.Display != "" {
		listing.Price = result.Data.Price.Display
	}

	var imageURLs []string
	for _, img := range result.Data.Images {
		src := img.LargeURL
		if src == "" {
			src = img.SmallURL
		}
		if src != "" && usableImageURL(src) {
			imageURLs = append(imageURLs, upscaleImageURL(src))
		}
	}
	if urls := dedupeStrings(imageURLs); len(urls) > 0 {
		listing.ImageURLs = urls
	}

	return listing, true
}

func (e *Enricher) enrichFromPage(ctx context.Context, listing Listing) Listing {
	res, err := handleError(e.client.httpClient.
		NewRequest().
		SetContext(ctx).
		Get(listing.URL))
	if err != nil {
		return listing
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.String()))
	if err != nil {
		return listing
	}

	description := strings.TrimSpace(doc.Find(`[class*="description"]`).First().Text())
	if description == "" {
		description = strings.TrimSpace(doc.Find(`[data-testid="description"]`).Text())
	}
	if description == "" {
		description, _ = doc.Find(`meta[name="description"]`).Attr("content")
	}
	if description != "" {
		listing.Description = TruncateDescription(description)
	}

	var imageURLs []string
	doc.Find(`img[src*="sidelineswap"], img[src*="cloudinary"]`).Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if src == "" || !usableImageURL(src) {
			return
		}
		imageURLs = append(imageURLs, upscaleImageURL(src))
	})
	if urls := dedupeStrings(imageURLs); len(urls) > 0 {
		listing.ImageURLs = urls
	}

	if listing.Price == PriceUnknown {
		priceText := doc.Find(`[class*="price"]`).First().Text()
		if priceText == "" {
			priceText = doc.Find(`[data-testid="price"]`).Text()
		}
		listing.Price = ExtractPrice(priceText)
	}

	return listing
}

// usableImageURL filters out placeholder graphics and seller avatars.
func usableImageURL(src string) bool {
	return !strings.Contains(src, "placeholder") && !strings.Contains(src, "avatar")
}

// upscaleImageURL rewrites Cloudinary-style thumbnail size tokens to a larger
// rendition. URLs without size tokens pass through unchanged.
func upscaleImageURL(src string) string {
	src = widthToken.ReplaceAllString(src, "w_800")
	return heightToken.ReplaceAllString(src, "h_800")
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
