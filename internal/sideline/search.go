package sideline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrDecode indicates the API answered 2xx but the body didn't match the
// expected schema. Callers treat it like "no usable data" and fall back to
// scraping, but it stays distinguishable in logs.
var ErrDecode = errors.New("unexpected response shape")

// FacetItemsResponse is the shape of /v1/facet_items. The API is unversioned
// from our point of view, so every field we rely on is validated after
// decoding rather than trusted.
type FacetItemsResponse struct {
	Data []FacetItem `json:"data"`
}

type FacetItem struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	URL    string       `json:"url"`
	Price  *FacetPrice  `json:"price"`
	Images []FacetImage `json:"images"`
}

type FacetPrice struct {
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

type FacetImage struct {
	SmallURL string `json:"small_url"`
	LargeURL string `json:"large_url"`
}

// SearchSellerItems queries the structured listings API for a seller's
// hockey sticks. The seller and category filters use the API's bracket-style
// repeated array parameters.
func (c *Client) SearchSellerItems(ctx context.Context, username string) ([]Listing, error) {
	res, err := handleError(c.httpClient.
		NewRequest().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParamsFromValues(url.Values{
			"seller[]":         {username},
			"category_slugs[]": {"hockey-sticks"},
			"page_size":        {strconv.Itoa(MaxListingsPerSeller)},
		}).
		Get(c.apiBaseURL + "/v1/facet_items"))
	if err != nil {
		return nil, err
	}

	var result FacetItemsResponse
	if err := json.Unmarshal(res.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	listings := make([]Listing, 0, len(result.Data))
	for _, item := range result.Data {
		if item.ID == 0 || item.Name == "" {
			continue
		}
		if !MatchesHockeyKeywords(item.Name) {
			continue
		}
		l := Listing{
			ItemID:         strconv.FormatInt(item.ID, 10),
			URL:            item.URL,
			Title:          item.Name,
			Price:          PriceUnknown,
			SellerUsername: username,
		}
		if l.URL == "" {
			l.URL = fmt.Sprintf("%s/gear/%d", c.webBaseURL, item.ID)
		}
		if item.Price != nil && item.Price.Display != "" {
			l.Price = item.Price.Display
		}
		for _, img := range item.Images {
			switch {
			case img.LargeURL != "":
				l.ImageURLs = append(l.ImageURLs, img.LargeURL)
			case img.SmallURL != "":
				l.ImageURLs = append(l.ImageURLs, img.SmallURL)
			}
		}
		listings = append(listings, l)
	}

	return listings, nil
}
