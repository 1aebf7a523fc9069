package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ryosk0315/manga-price-tarcker/helpers"
	"github.com/ryosk0315/manga-price-tarcker/logger"
	apperr "github.com/ryosk0315/manga-price-tarcker/pkg/errors"
)

// fallbackRates is used when the exchange rate API is unreachable and
// no cached table exists. Rates are relative to USD.
var fallbackRates = map[string]float64{
	"USD": 1,
	"JPY": 150.27,
	"EUR": 0.92,
	"GBP": 0.79,
	"CAD": 1.37,
	"AUD": 1.52,
}

// Service fetches and caches exchange rates and converts amounts
// between currencies via USD as the base.
type Service struct {
	mu        sync.RWMutex
	ratesURL  string
	ttl       time.Duration
	rates     map[string]float64
	fetchedAt time.Time
	now       func() time.Time
}

// NewService creates a new currency service. ratesURL must return a
// JSON document with a "rates" object keyed by currency code.
func NewService(ratesURL string, ttl time.Duration) *Service {
	return &Service{
		ratesURL: ratesURL,
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock replaces the service's clock, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Rates returns the current exchange rate table. A cached table is
// reused within the TTL; a stale table is still preferred over the
// hardcoded fallback when the API is unreachable.
func (s *Service) Rates(ctx context.Context) map[string]float64 {
	s.mu.RLock()
	cached := s.rates
	fresh := cached != nil && s.now().Sub(s.fetchedAt) < s.ttl
	s.mu.RUnlock()

	if fresh {
		return cached
	}

	rates, err := s.fetchRates(ctx)
	if err != nil {
		logger.Error("Failed to fetch exchange rates: %v", err)
		if cached != nil {
			logger.Warn("Using stale exchange rate cache as fallback")
			return cached
		}
		return fallbackRates
	}

	s.mu.Lock()
	s.rates = rates
	s.fetchedAt = s.now()
	s.mu.Unlock()

	return rates
}

// Convert converts amount from one currency to another, rounded to two
// decimal places. Returns a currency error when either code has no
// known rate.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	rates := s.Rates(ctx)

	fromRate, okFrom := rates[from]
	toRate, okTo := rates[to]
	if !okFrom || !okTo || fromRate == 0 {
		return 0, apperr.NewCurrency(from, to)
	}

	// Convert via USD as base currency
	amountInUSD := amount / fromRate
	converted := amountInUSD * toRate

	return math.Round(converted*100) / 100, nil
}

// fetchRates retrieves the rate table from the exchange rate API
func (s *Service) fetchRates(ctx context.Context) (map[string]float64, error) {
	body, err := helpers.FetchSimply(ctx, s.ratesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse exchange rate response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("invalid exchange rate data format")
	}

	logger.Debug("Fetched %d exchange rates", len(payload.Rates))
	return payload.Rates, nil
}
