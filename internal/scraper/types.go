package scraper

import (
	"context"
	"time"
)

// Store names, in the fixed priority order used for aggregate output.
const (
	StoreAmazon     = "Amazon"
	StoreBookWalker = "BookWalker"
	StoreRightStuf  = "RightStuf"
	StoreRakuten    = "Rakuten"
	StoreEbookJapan = "eBookJapan"
	StoreCmoa       = "CMoa"
)

// Item represents a normalized price listing from a single store
type Item struct {
	Store            string  `json:"store"`
	Title            string  `json:"title"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	URL              string  `json:"url"`
	ImageURL         string  `json:"imageUrl,omitempty"`
	Availability     string  `json:"availability,omitempty"`
	IsDigital        bool    `json:"isDigital"`
	IsEstimated      bool    `json:"isEstimated"`
	OriginalPrice    float64 `json:"originalPrice,omitempty"`
	OriginalCurrency string  `json:"originalCurrency,omitempty"`
}

// Scraper interface defines the contract for all store scrapers
type Scraper interface {
	// Search retrieves the best matching listing for a title. A nil
	// item with a nil error means the store had no results; a non-nil
	// error is a fault (network, parsing, rate limit, timeout).
	Search(ctx context.Context, title string) (*Item, error)

	// Store returns the store name for logging and identification
	Store() string
}

// Selectors contains the ordered CSS selector cascades for one store.
// Each list is tried in order and the first selector matching at least
// one element wins. Retailer markup drifts across layouts and A/B
// tests; a single selector would silently degrade to zero results.
type Selectors struct {
	Result       []string
	Title        []string
	Price        []string
	Link         []string
	Image        []string
	Availability []string

	// ImageAttrs is the attribute cascade tried on a matched image
	// element (lazy-loading sites put the real URL in data-* attrs)
	ImageAttrs []string

	// PricePatterns are regular expressions whose first capture group
	// is the numeric amount, tried in order against the price text
	PricePatterns []string
}

// StoreConfig contains configuration for a store scraper
type StoreConfig struct {
	Store     string
	SearchURL string // fmt template; %s is the URL-encoded title
	BaseURL   string
	Currency  string
	IsDigital bool

	CacheKey  string
	BlockTime time.Duration

	Selectors Selectors

	// DefaultPrice is substituted (with IsEstimated=true) when a
	// result element is found but no price pattern matches
	DefaultPrice        float64
	DefaultAvailability string
}
