package sideline

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// ExtractStrategy pulls candidate listings out of a storefront page. The
// fetcher tries strategies in priority order and stops at the first one that
// yields anything, so new marketplace layouts only need a new entry in
// defaultStrategies.
type ExtractStrategy interface {
	Name() string
	Extract(doc *goquery.Document, username, webBaseURL string) []Listing
}

// defaultStrategies is ordered from most to least specific. The card
// selectors cover layouts SidelineSwap has used at various points; the link
// scan is the last resort when no card markup is recognizable.
func defaultStrategies() []ExtractStrategy {
	return []ExtractStrategy{
		cardStrategy{selector: `[data-testid="product-card"]`},
		cardStrategy{selector: ".product-card"},
		cardStrategy{selector: ".listing-card"},
		cardStrategy{selector: `[class*="ProductCard"]`},
		cardStrategy{selector: `[class*="listing"]`},
		linkScanStrategy{},
	}
}

// cardStrategy extracts listings from product card elements matched by a
// single CSS selector.
type cardStrategy struct {
	selector string
}

func (s cardStrategy) Name() string { return "card:" + s.selector }

func (s cardStrategy) Extract(doc *goquery.Document, username, webBaseURL string) []Listing {
	var listings []Listing

	doc.Find(s.selector).Each(func(_ int, el *goquery.Selection) {
		href, ok := el.Find("a").First().Attr("href")
		if !ok {
			href, _ = el.Attr("href")
		}
		itemID := ItemIDFromURL(href)
		if itemID == "" {
			return
		}

		title := strings.TrimSpace(el.Find(`[class*="title"]`).First().Text())
		if title == "" {
			title = strings.TrimSpace(el.Find("h2, h3, h4").First().Text())
		}
		if title == "" {
			title, _ = el.Find("img").First().Attr("alt")
			title = strings.TrimSpace(title)
		}
		if !MatchesHockeyKeywords(title) {
			return
		}
		if len(title) > 200 {
			title = title[:200]
		}

		var imageURLs []string
		el.Find("img").Each(func(_ int, img *goquery.Selection) {
			src, ok := img.Attr("src")
			if !ok || src == "" {
				src, _ = img.Attr("data-src")
			}
			if src != "" && !strings.Contains(src, "placeholder") {
				imageURLs = append(imageURLs, src)
			}
		})

		listings = append(listings, Listing{
			ItemID:         itemID,
			URL:            absoluteGearURL(webBaseURL, href),
			Title:          title,
			Price:          ExtractPrice(el.Find(`[class*="price"]`).Text()),
			Description:    strings.TrimSpace(el.Find(`[class*="description"]`).Text()),
			ImageURLs:      imageURLs,
			SellerUsername: username,
		})
	})

	return listings
}

// linkScanStrategy scans every outbound gear link on the page and keeps the
// ones whose visible text passes the hockey keyword filter. It produces
// minimal listings that rely on enrichment for images and descriptions.
type linkScanStrategy struct{}

func (linkScanStrategy) Name() string { return "link-scan" }

func (linkScanStrategy) Extract(doc *goquery.Document, username, webBaseURL string) []Listing {
	var listings []Listing

	doc.Find(`a[href*="/gear/"]`).Each(func(_ int, el *goquery.Selection) {
		href, _ := el.Attr("href")
		itemID := ItemIDFromURL(href)
		if itemID == "" {
			return
		}

		title, _ := el.Find("img").First().Attr("alt")
		title = strings.TrimSpace(title)
		if title == "" {
			title = strings.TrimSpace(el.Text())
		}
		if title == "" {
			title, _ = el.Attr("title")
		}
		if !MatchesHockeyKeywords(title) {
			return
		}
		if len(title) > 200 {
			title = title[:200]
		}

		priceText := el.Find(`[class*="price"]`).Text()
		if priceText == "" {
			priceText = el.Parent().Find(`[class*="price"]`).Text()
		}

		var imageURLs []string
		if src, ok := el.Find("img").First().Attr("src"); ok && src != "" {
			imageURLs = append(imageURLs, src)
		} else if src, ok := el.Find("img").First().Attr("data-src"); ok && src != "" {
			imageURLs = append(imageURLs, src)
		}

		listings = append(listings, Listing{
			ItemID:         itemID,
			URL:            absoluteGearURL(webBaseURL, href),
			Title:          title,
			Price:          ExtractPrice(priceText),
			ImageURLs:      imageURLs,
			SellerUsername: username,
		})
	})

	return listings
}

// ScrapeSellerPage fetches the seller's storefront and runs the extraction
// strategies over it. Returns nil when the page can't be fetched or nothing
// recognizable is on it.
func (c *Client) ScrapeSellerPage(ctx context.Context, username string, strategies []ExtractStrategy) []Listing {
	res, err := handleError(c.httpClient.
		NewRequest().
		SetContext(ctx).
		Get(c.webBaseURL + "/shop/" + username))
	if err != nil {
		log.Warn().Err(err).Str("seller", username).Msg("storefront fetch failed")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.String()))
	if err != nil {
		log.Warn().Err(err).Str("seller", username).Msg("storefront parse failed")
		return nil
	}

	for _, strategy := range strategies {
		listings := strategy.Extract(doc, username, c.webBaseURL)
		if len(listings) > 0 {
			log.Debug().
				Str("seller", username).
				Str("strategy", strategy.Name()).
				Int("count", len(listings)).
				Msg("extraction strategy matched")
			return listings
		}
	}

	return nil
}
