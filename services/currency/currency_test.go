package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperr "github.com/ryosk0315/manga-price-tarcker/pkg/errors"
)

func newRateServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","rates":{"USD":1,"JPY":150.27,"EUR":0.92}}`))
	}))
}

func TestConvert(t *testing.T) {
	var hits int32
	server := newRateServer(t, &hits)
	defer server.Close()

	svc := NewService(server.URL, 24*time.Hour)

	// 616 JPY at 150.27 JPY/USD is about 4.10 USD
	got, err := svc.Convert(context.Background(), 616, "JPY", "USD")
	assert.NoError(t, err)
	assert.InDelta(t, 4.10, got, 0.01)
}

func TestConvertSameCurrency(t *testing.T) {
	svc := NewService("http://unused.invalid", 24*time.Hour)

	got, err := svc.Convert(context.Background(), 616, "JPY", "JPY")
	assert.NoError(t, err)
	assert.Equal(t, 616.0, got)
}

func TestConvertRoundTrip(t *testing.T) {
	var hits int32
	server := newRateServer(t, &hits)
	defer server.Close()

	svc := NewService(server.URL, 24*time.Hour)
	ctx := context.Background()

	// A JPY -> USD -> JPY round trip on the same rate snapshot should
	// reproduce the original within rounding tolerance
	usd, err := svc.Convert(ctx, 616, "JPY", "USD")
	assert.NoError(t, err)
	back, err := svc.Convert(ctx, usd, "USD", "JPY")
	assert.NoError(t, err)
	assert.InDelta(t, 616, back, 1.0)
}

func TestConvertUnsupportedCurrency(t *testing.T) {
	var hits int32
	server := newRateServer(t, &hits)
	defer server.Close()

	svc := NewService(server.URL, 24*time.Hour)

	_, err := svc.Convert(context.Background(), 100, "JPY", "XYZ")
	assert.Error(t, err)
	assert.Equal(t, apperr.ErrorTypeCurrency, apperr.TypeOf(err))
}

func TestRatesCached(t *testing.T) {
	var hits int32
	server := newRateServer(t, &hits)
	defer server.Close()

	svc := NewService(server.URL, 24*time.Hour)
	ctx := context.Background()

	svc.Rates(ctx)
	svc.Rates(ctx)
	svc.Rates(ctx)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "rates should be fetched once within the TTL")
}

func TestRatesRefetchAfterTTL(t *testing.T) {
	var hits int32
	server := newRateServer(t, &hits)
	defer server.Close()

	svc := NewService(server.URL, 24*time.Hour)
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return current })
	ctx := context.Background()

	svc.Rates(ctx)
	current = current.Add(25 * time.Hour)
	svc.Rates(ctx)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRatesFallbackWhenUnreachable(t *testing.T) {
	svc := NewService("http://unreachable.invalid", 24*time.Hour)

	rates := svc.Rates(context.Background())
	assert.Equal(t, fallbackRates, rates)

	// Conversion still works on the fallback table
	got, err := svc.Convert(context.Background(), 616, "JPY", "USD")
	assert.NoError(t, err)
	assert.InDelta(t, 4.10, got, 0.01)
}

func TestRatesStaleCachePreferredOverFallback(t *testing.T) {
	var hits int32
	server := newRateServer(t, &hits)

	svc := NewService(server.URL, time.Hour)
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return current })
	ctx := context.Background()

	fresh := svc.Rates(ctx)
	assert.InDelta(t, 150.27, fresh["JPY"], 0.001)

	// Upstream goes away and the cache goes stale
	server.Close()
	current = current.Add(2 * time.Hour)

	stale := svc.Rates(ctx)
	assert.InDelta(t, 150.27, stale["JPY"], 0.001, "stale cache should be served when upstream is down")
}
