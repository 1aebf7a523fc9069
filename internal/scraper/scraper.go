package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ryosk0315/manga-price-tarcker/helpers"
	"github.com/ryosk0315/manga-price-tarcker/logger"
	apperr "github.com/ryosk0315/manga-price-tarcker/pkg/errors"
	"github.com/ryosk0315/manga-price-tarcker/services/cache"
)

// SiteScraper is a store scraper driven entirely by a StoreConfig.
// All six retail sites share this implementation; only the selector
// tables and URL templates differ.
type SiteScraper struct {
	config   StoreConfig
	cacheSvc cache.CacheService
	log      *logger.Logger

	// fetchFunc is replaceable in tests
	fetchFunc func(ctx context.Context, url string) (io.Reader, error)
}

// NewSiteScraper creates a new scraper for the given store configuration
func NewSiteScraper(config StoreConfig, cacheSvc cache.CacheService) *SiteScraper {
	return &SiteScraper{
		config:    config,
		cacheSvc:  cacheSvc,
		log:       logger.ForStore(config.Store),
		fetchFunc: helpers.FetchSearchPage,
	}
}

// Store returns the store name
func (s *SiteScraper) Store() string {
	return s.config.Store
}

// SearchURL builds the site-specific search URL for a title
func (s *SiteScraper) SearchURL(title string) string {
	return fmt.Sprintf(s.config.SearchURL, url.QueryEscape(title))
}

// Search fetches the store's search results page for a title and
// extracts the first matching listing. Returns (nil, nil) when the
// page parsed but contained no results.
func (s *SiteScraper) Search(ctx context.Context, title string) (*Item, error) {
	searchURL := s.SearchURL(title)

	// Check if the store is rate-limit blocked
	if s.cacheSvc != nil && s.config.CacheKey != "" {
		if _, err := s.cacheSvc.Get(s.config.CacheKey); err == nil {
			return nil, apperr.NewRateLimit(s.config.Store, s.config.BlockTime)
		}
	}

	body, err := s.fetchFunc(ctx, searchURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, apperr.New(apperr.ErrorTypeTimeout, s.config.Store, "search timed out", err)
		}
		if strings.HasPrefix(err.Error(), "rate limited") {
			// Block further requests to this store for a while
			if s.cacheSvc != nil && s.config.CacheKey != "" {
				if setErr := s.cacheSvc.Set(s.config.CacheKey, []byte("blocked"), s.config.BlockTime); setErr != nil {
					s.log.Warn().Err(setErr).Msg("Failed to set rate limit block")
				}
			}
			return nil, apperr.NewRateLimit(s.config.Store, s.config.BlockTime)
		}
		return nil, apperr.NewNetwork(s.config.Store, "failed to fetch search page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, apperr.NewParsing(s.config.Store, "failed to parse search page", err)
	}

	result := findFirst(doc.Selection, s.config.Selectors.Result)
	if result == nil {
		s.log.Debug().Str("title", title).Msg("No results found")
		return nil, nil
	}

	return s.extractItem(result, title, searchURL), nil
}

// extractItem resolves each field of a listing independently from the
// matched result element. A missing field never aborts the others.
func (s *SiteScraper) extractItem(result *goquery.Selection, queryTitle, searchURL string) *Item {
	item := &Item{
		Store:        s.config.Store,
		Currency:     s.config.Currency,
		IsDigital:    s.config.IsDigital,
		Availability: s.config.DefaultAvailability,
	}

	// Title
	item.Title = firstText(result, s.config.Selectors.Title)
	if item.Title == "" {
		item.Title = queryTitle
	}

	// Price: try each pattern against the matched price text; on
	// failure substitute the store's estimated default
	priceText := firstText(result, s.config.Selectors.Price)
	if price, ok := parsePrice(priceText, s.config.Selectors.PricePatterns); ok {
		item.Price = price
	} else {
		s.log.Debug().Str("price_text", priceText).Msg("No price matched, using estimated default")
		item.Price = s.config.DefaultPrice
		item.IsEstimated = true
	}

	// URL: item link when present, search URL otherwise
	if href := firstAttr(result, s.config.Selectors.Link, []string{"href"}); href != "" {
		item.URL = resolveURL(s.config.BaseURL, href)
	} else {
		item.URL = searchURL
	}

	// Image (optional)
	if src := firstAttr(result, s.config.Selectors.Image, s.config.Selectors.ImageAttrs); src != "" {
		// data-srcset values carry "url width" pairs
		src = strings.TrimSpace(strings.SplitN(src, ",", 2)[0])
		src = strings.SplitN(src, " ", 2)[0]
		item.ImageURL = resolveURL(s.config.BaseURL, src)
	}

	// Availability (optional, store-specific phrasing preserved as-is)
	if avail := firstText(result, s.config.Selectors.Availability); avail != "" {
		item.Availability = avail
	}

	return item
}

// findFirst returns the first element matched by the selector cascade,
// or nil when no selector matches anything.
func findFirst(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		found := root.Find(sel).First()
		if found.Length() > 0 {
			return found
		}
	}
	return nil
}

// firstText returns the trimmed text of the first element matched by
// the selector cascade.
func firstText(root *goquery.Selection, selectors []string) string {
	if found := findFirst(root, selectors); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}

// firstAttr returns the first non-empty attribute from the attribute
// cascade on the first element matched by the selector cascade.
func firstAttr(root *goquery.Selection, selectors []string, attrs []string) string {
	found := findFirst(root, selectors)
	if found == nil {
		return ""
	}
	for _, attr := range attrs {
		if value, exists := found.Attr(attr); exists && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// parsePrice tries each price pattern in order against text and parses
// the first capture group as a number, stripping thousands separators.
func parsePrice(text string, patterns []string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			logger.Warn("Invalid price pattern %q: %v", pattern, err)
			continue
		}
		match := re.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		raw := strings.ReplaceAll(match[1], ",", "")
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			continue
		}
		return price, true
	}
	return 0, false
}

// resolveURL resolves a possibly relative href against the store base URL
func resolveURL(baseURL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(baseURL, "/") + href
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + href
}
