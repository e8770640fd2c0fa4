package sideline

import (
	"regexp"
	"strings"
)

const (
	// MaxListingsPerSeller caps how many listings are kept per seller before
	// enrichment, so one storefront can't trigger an unbounded number of
	// follow-up requests.
	MaxListingsPerSeller = 12

	// MaxDescriptionLength is the upper bound for a listing description.
	MaxDescriptionLength = 1000

	// PriceUnknown is the display price used when no price could be extracted.
	PriceUnknown = "Unknown"
)

// Listing is one seller's product entry on SidelineSwap. The fetcher creates
// listings with whatever the storefront exposes; enrichment overwrites fields
// when it finds better values but never clears them.
type Listing struct {
	ItemID         string   `json:"item_id"`
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Price          string   `json:"price"`
	Description    string   `json:"description"`
	ImageURLs      []string `json:"image_urls"`
	SellerUsername string   `json:"seller_username"`
}

var (
	itemIDPattern = regexp.MustCompile(`/gear/(\d+)`)
	pricePattern  = regexp.MustCompile(`\$[\d,.]+`)

	// hockeyKeywords is a best-effort filter for "is this a hockey stick".
	// Brand names cover listings titled without the word "stick".
	hockeyKeywords = regexp.MustCompile(`(?i)hockey|stick|bauer|ccm|warrior|true|sherwood|easton`)
)

// ItemIDFromURL extracts the numeric item identifier from a gear URL.
// Returns "" when the URL doesn't point at a gear page.
func ItemIDFromURL(href string) string {
	m := itemIDPattern.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}

// MatchesHockeyKeywords reports whether text looks like it belongs to a
// hockey stick listing.
func MatchesHockeyKeywords(text string) bool {
	return hockeyKeywords.MatchString(text)
}

// ExtractPrice pulls the first dollar-formatted price out of text, falling
// back to PriceUnknown.
func ExtractPrice(text string) string {
	if p := pricePattern.FindString(text); p != "" {
		return p
	}
	return PriceUnknown
}

// TruncateDescription bounds a description to MaxDescriptionLength runes.
func TruncateDescription(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= MaxDescriptionLength {
		return s
	}
	return s[:MaxDescriptionLength]
}

// absoluteGearURL resolves a storefront-relative gear link.
func absoluteGearURL(base, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return base + href
}

// dedupeByItemID keeps the first occurrence of each item id, preserving
// encounter order.
func dedupeByItemID(listings []Listing) []Listing {
	seen := make(map[string]bool, len(listings))
	out := listings[:0]
	for _, l := range listings {
		if seen[l.ItemID] {
			continue
		}
		seen[l.ItemID] = true
		out = append(out, l)
	}
	return out
}
