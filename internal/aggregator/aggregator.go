package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ryosk0315/manga-price-tarcker/internal/scraper"
	"github.com/ryosk0315/manga-price-tarcker/logger"
	apperr "github.com/ryosk0315/manga-price-tarcker/pkg/errors"
	"github.com/ryosk0315/manga-price-tarcker/services/cache"
)

// DefaultCurrency is assumed when a request does not name one.
const DefaultCurrency = "JPY"

// StoreError reports one store's failure reason inside an otherwise
// successful aggregate response.
type StoreError struct {
	Store string `json:"store"`
	Error string `json:"error"`
}

// AggregateResult is the unified response for one search. It is never
// mutated after creation; cache refreshes replace it wholesale.
type AggregateResult struct {
	Title             string         `json:"title"`
	Timestamp         time.Time      `json:"timestamp"`
	RequestedCurrency string         `json:"requestedCurrency"`
	Stores            []scraper.Item `json:"stores"`
	UsedMockData      bool           `json:"usedMockData"`
	PartialErrors     []StoreError   `json:"partialErrors,omitempty"`
}

// Converter converts an amount between currencies.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// Options configures an Aggregator.
type Options struct {
	CacheTTL         time.Duration
	StoreTimeout     time.Duration
	AggregateTimeout time.Duration // 0 disables the coarse deadline
}

// Aggregator fans a search out to every store scraper concurrently and
// merges the outcomes into one result, substituting mock data for any
// store that failed or came back empty.
type Aggregator struct {
	scrapers  []scraper.Scraper
	cacheSvc  cache.CacheService
	converter Converter
	opts      Options
	log       *logger.Logger
	now       func() time.Time
}

// New creates a new Aggregator
func New(scrapers []scraper.Scraper, cacheSvc cache.CacheService, converter Converter, opts Options) *Aggregator {
	return &Aggregator{
		scrapers:  scrapers,
		cacheSvc:  cacheSvc,
		converter: converter,
		opts:      opts,
		log:       logger.ForComponent("aggregator"),
		now:       time.Now,
	}
}

// SetClock replaces the aggregator's clock, for tests.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// searchOutcome is the settled result of one store's search.
type searchOutcome struct {
	store string
	item  *scraper.Item
	err   error
}

// Aggregate searches every store for a title and returns one unified
// result. It fails only on an empty title; any combination of store
// failures still yields a complete item list via mock fallback.
func (a *Aggregator) Aggregate(ctx context.Context, title, currency string, forceMock bool) (*AggregateResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.NewValidation("missing title parameter")
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	key := cacheKey(title, currency)

	// Forced mock responses bypass the cache in both directions
	if !forceMock && a.cacheSvc != nil {
		if data, err := a.cacheSvc.Get(key); err == nil {
			var cached AggregateResult
			if err := json.Unmarshal(data, &cached); err == nil {
				a.log.Debug().Str("title", title).Msg("Returning cached result")
				return &cached, nil
			}
			// Corrupt entry; drop it and re-aggregate
			if delErr := a.cacheSvc.Delete(key); delErr != nil {
				a.log.Warn().Err(delErr).Msg("Failed to drop corrupt cache entry")
			}
		}
	}

	var result *AggregateResult
	if forceMock {
		result = a.allMockResult(title, currency, nil)
	} else {
		result = a.fanOut(ctx, title, currency)
	}

	a.convertPrices(ctx, result, currency)

	if !forceMock && a.cacheSvc != nil {
		if data, err := json.Marshal(result); err == nil {
			if setErr := a.cacheSvc.Set(key, data, a.opts.CacheTTL); setErr != nil {
				a.log.Warn().Err(setErr).Msg("Failed to cache result")
			}
		}
	}

	return result, nil
}

// fanOut runs every scraper concurrently, each under its own deadline,
// waits for all of them to settle, and merges the outcomes in the
// fixed store priority order.
func (a *Aggregator) fanOut(ctx context.Context, title, currency string) *AggregateResult {
	outcomes := make(chan searchOutcome, len(a.scrapers))
	var wg sync.WaitGroup

	start := a.now()
	for _, s := range a.scrapers {
		wg.Add(1)
		go func(s scraper.Scraper) {
			defer wg.Done()
			storeCtx, cancel := context.WithTimeout(ctx, a.opts.StoreTimeout)
			defer cancel()

			item, err := s.Search(storeCtx, title)
			outcomes <- searchOutcome{store: s.Store(), item: item, err: err}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(outcomes)
		close(done)
	}()

	// Optional coarse deadline over the whole fan-out: on expiry the
	// stragglers are abandoned and every store gets mock data, so the
	// caller always receives a bounded, complete response.
	if a.opts.AggregateTimeout > 0 {
		select {
		case <-done:
		case <-time.After(a.opts.AggregateTimeout):
			a.log.Warn().
				Str("title", title).
				Dur("timeout", a.opts.AggregateTimeout).
				Msg("Aggregate deadline exceeded, falling back to mock data for every store")
			errs := make([]StoreError, 0, len(a.scrapers))
			for _, s := range a.scrapers {
				errs = append(errs, StoreError{
					Store: s.Store(),
					Error: apperr.NewTimeout(s.Store(), a.opts.AggregateTimeout).Error(),
				})
			}
			return a.allMockResult(title, currency, errs)
		}
	} else {
		<-done
	}

	settled := make(map[string]searchOutcome, len(a.scrapers))
	for o := range outcomes {
		settled[o.store] = o
	}

	result := &AggregateResult{
		Title:             title,
		Timestamp:         a.now(),
		RequestedCurrency: currency,
	}

	liveCount := 0
	for _, s := range a.scrapers {
		o := settled[s.Store()]
		if o.err == nil && o.item != nil {
			liveCount++
			result.Stores = append(result.Stores, *o.item)
			continue
		}
		if o.err != nil {
			a.log.Debug().Str("store", s.Store()).Err(o.err).Msg("Store search failed, using mock data")
			result.PartialErrors = append(result.PartialErrors, StoreError{
				Store: s.Store(),
				Error: o.err.Error(),
			})
		}
		result.Stores = append(result.Stores, *scraper.GenerateMockItem(title, s.Store()))
	}

	// usedMockData answers "is anything real?"; per-item IsEstimated
	// answers "is this specific item real?"
	result.UsedMockData = liveCount == 0

	a.log.Info().
		Str("title", title).
		Int("live", liveCount).
		Int("stores", len(a.scrapers)).
		Dur("elapsed", a.now().Sub(start)).
		Msg("Aggregated search")

	return result
}

// allMockResult builds a result with mock data for every store.
func (a *Aggregator) allMockResult(title, currency string, errs []StoreError) *AggregateResult {
	result := &AggregateResult{
		Title:             title,
		Timestamp:         a.now(),
		RequestedCurrency: currency,
		UsedMockData:      true,
		PartialErrors:     errs,
	}
	for _, s := range a.scrapers {
		result.Stores = append(result.Stores, *scraper.GenerateMockItem(title, s.Store()))
	}
	return result
}

// convertPrices rewrites each item's price into the requested currency,
// preserving the original for auditability. An unsupported pair leaves
// the item in its native currency rather than failing the aggregate.
func (a *Aggregator) convertPrices(ctx context.Context, result *AggregateResult, currency string) {
	if a.converter == nil {
		return
	}
	for i := range result.Stores {
		item := &result.Stores[i]
		if item.Currency == currency {
			continue
		}
		converted, err := a.converter.Convert(ctx, item.Price, item.Currency, currency)
		if err != nil {
			a.log.Warn().
				Str("store", item.Store).
				Str("from", item.Currency).
				Str("to", currency).
				Err(err).
				Msg("Currency conversion failed, keeping native currency")
			continue
		}
		item.OriginalPrice = item.Price
		item.OriginalCurrency = item.Currency
		item.Price = converted
		item.Currency = currency
	}
}

// cacheKey builds the result cache key for a (title, currency) pair
func cacheKey(title, currency string) string {
	return fmt.Sprintf("search:%s:%s", title, currency)
}
