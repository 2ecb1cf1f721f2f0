package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pfledger/finance_ledger_app/internal/core/ports"
	portssvc "github.com/pfledger/finance_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultRateCacheTTL bounds how long a fetched rate set stays servable.
const DefaultRateCacheTTL = 30 * time.Minute

type cachedRates struct {
	fetchedAt time.Time
	rates     map[string]decimal.Decimal
}

// ratesService is the TTL-bound, concurrency-safe cache in front of the rate
// fetcher. It is the only stateful, concurrently accessed piece of the core:
// the mutex covers the in-memory map only, never the network call, so slow
// fetches do not serialize unrelated requests. Concurrent misses for the same
// key may each fetch; the last writer wins, which is acceptable because any
// valid recent rate is acceptable.
type ratesService struct {
	BaseService
	fetcher ports.RateFetcher
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cachedRates
}

// RatesOption is a functional option for configuring the rates service.
type RatesOption func(*ratesService)

// WithRatesClock overrides the time source, used by tests to age the cache.
func WithRatesClock(now func() time.Time) RatesOption {
	return func(s *ratesService) {
		s.now = now
	}
}

// NewRatesService creates the exchange-rate cache. A non-positive ttl selects
// the 30-minute default.
func NewRatesService(fetcher ports.RateFetcher, ttl time.Duration, options ...RatesOption) portssvc.RatesSvcFacade {
	if ttl <= 0 {
		ttl = DefaultRateCacheTTL
	}
	svc := &ratesService{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		cache:   make(map[string]cachedRates),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RatesSvcFacade = (*ratesService)(nil)

// GetRates returns a mapping of target code to foreign-units-per-base-unit.
// It never fails: a missing credential, an empty target set, a fetch failure
// or a malformed payload all yield an empty map, and failures are never
// cached, so a later call retries immediately.
func (s *ratesService) GetRates(ctx context.Context, base string, symbols []string, apiKey string) map[string]decimal.Decimal {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return map[string]decimal.Decimal{}
	}

	normalizedBase := strings.ToUpper(strings.TrimSpace(base))
	targetSet := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		code := strings.ToUpper(strings.TrimSpace(symbol))
		if code == "" || code == normalizedBase {
			continue
		}
		targetSet[code] = struct{}{}
	}
	if len(targetSet) == 0 {
		return map[string]decimal.Decimal{}
	}

	targets := make([]string, 0, len(targetSet))
	for code := range targetSet {
		targets = append(targets, code)
	}
	sort.Strings(targets)

	// The sorted target list makes the key independent of caller ordering.
	cacheKey := normalizedBase + "|" + strings.Join(targets, ",") + "|" + apiKey
	now := s.now()

	s.mu.Lock()
	if entry, ok := s.cache[cacheKey]; ok && now.Sub(entry.fetchedAt) <= s.ttl {
		rates := cloneRates(entry.rates)
		s.mu.Unlock()
		return rates
	}
	s.mu.Unlock()

	fetched, err := s.fetcher.FetchRates(ctx, normalizedBase, targets, apiKey)
	if err != nil {
		s.LogDebug(ctx, "Rate fetch failed, returning empty rates",
			slog.String("base", normalizedBase),
			slog.String("error", err.Error()))
		return map[string]decimal.Decimal{}
	}

	rates := make(map[string]decimal.Decimal, len(fetched))
	for code, rate := range fetched {
		if !rate.IsPositive() {
			continue
		}
		rates[strings.ToUpper(code)] = rate
	}
	if len(rates) == 0 {
		return map[string]decimal.Decimal{}
	}

	fetchedAt := now
	if completed := s.now(); completed.After(fetchedAt) {
		fetchedAt = completed
	}

	s.mu.Lock()
	// Overwrites any entry written concurrently for the same key.
	s.cache[cacheKey] = cachedRates{fetchedAt: fetchedAt, rates: cloneRates(rates)}
	s.mu.Unlock()

	return rates
}

func cloneRates(rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	cloned := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		cloned[code] = rate
	}
	return cloned
}
