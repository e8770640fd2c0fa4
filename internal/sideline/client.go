package sideline

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

const (
	ApiBaseUrl = "https://api.sidelineswap.com"
	WebBaseURL = "https://sidelineswap.com"

	// SidelineSwap serves a bot-detection page to obvious non-browser agents,
	// so every request goes out with desktop Chrome headers.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	browserAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
)

type ClientOpts struct {
	ApiBaseURL string
	WebBaseURL string
}

// Client talks to SidelineSwap, both the JSON API and the public storefront
// pages used as a scraping fallback.
type Client struct {
	httpClient *resty.Client
	apiBaseURL string
	webBaseURL string
}

func NewClient(opts ClientOpts) *Client {
	c := Client{apiBaseURL: ApiBaseUrl, webBaseURL: WebBaseURL}
	if opts.ApiBaseURL != "" {
		c.apiBaseURL = opts.ApiBaseURL
	}
	if opts.WebBaseURL != "" {
		c.webBaseURL = opts.WebBaseURL
	}
	c.httpClient = resty.New().
		SetDebug(false).
		SetHeaders(
			map[string]string{
				"User-Agent":      browserUserAgent,
				"Accept":          browserAccept,
				"Accept-Language": "en-US,en;q=0.5",
			},
		)

	return &c
}

// handleError is a generic error handler for failing responses (>399 status
// code). Without this, failing responses would have nil error.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}

	return res, nil
}
