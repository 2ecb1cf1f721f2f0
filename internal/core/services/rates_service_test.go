package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pfledger/finance_ledger_app/internal/core/ports"
	portssvc "github.com/pfledger/finance_ledger_app/internal/core/ports/services"
	"github.com/pfledger/finance_ledger_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateFetcher ---
type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) FetchRates(ctx context.Context, base string, symbols []string, apiKey string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, base, symbols, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

var _ ports.RateFetcher = (*MockRateFetcher)(nil)

type RatesServiceTestSuite struct {
	suite.Suite
	fetcher *MockRateFetcher
	now     time.Time
	service portssvc.RatesSvcFacade
}

func (s *RatesServiceTestSuite) SetupTest() {
	s.fetcher = new(MockRateFetcher)
	s.now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.service = services.NewRatesService(s.fetcher, 30*time.Minute,
		services.WithRatesClock(func() time.Time { return s.now }))
}

func (s *RatesServiceTestSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *RatesServiceTestSuite) TestFetchesAndCaches() {
	fetched := map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.8)}
	s.fetcher.On("FetchRates", mock.Anything, "USD", []string{"EUR"}, "key").Return(fetched, nil).Once()

	rates := s.service.GetRates(context.Background(), "usd", []string{"eur"}, "key")
	s.Require().Len(rates, 1)
	s.True(decimal.NewFromFloat(0.8).Equal(rates["EUR"]))

	// Within TTL: served from cache, no second fetch.
	s.advance(29 * time.Minute)
	rates = s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key")
	s.Len(rates, 1)

	s.fetcher.AssertNumberOfCalls(s.T(), "FetchRates", 1)
}

func (s *RatesServiceTestSuite) TestExpiredEntryRefetches() {
	fetched := map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.8)}
	s.fetcher.On("FetchRates", mock.Anything, "USD", []string{"EUR"}, "key").Return(fetched, nil).Twice()

	s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key")

	s.advance(30*time.Minute + time.Second)
	s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key")

	s.fetcher.AssertNumberOfCalls(s.T(), "FetchRates", 2)
}

func (s *RatesServiceTestSuite) TestFailureIsNotCached() {
	s.fetcher.On("FetchRates", mock.Anything, "USD", []string{"EUR"}, "key").
		Return(nil, fmt.Errorf("provider down")).Once()

	rates := s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key")
	s.Empty(rates)

	// The very next call retries immediately rather than serving a cached failure.
	fetched := map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.8)}
	s.fetcher.On("FetchRates", mock.Anything, "USD", []string{"EUR"}, "key").Return(fetched, nil).Once()

	rates = s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key")
	s.Len(rates, 1)
	s.fetcher.AssertNumberOfCalls(s.T(), "FetchRates", 2)
}

func (s *RatesServiceTestSuite) TestBlankCredentialShortCircuits() {
	rates := s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "   ")
	s.Empty(rates)
	s.fetcher.AssertNotCalled(s.T(), "FetchRates")
}

func (s *RatesServiceTestSuite) TestEmptyTargetsShortCircuit() {
	// The base itself and blanks are not valid targets.
	rates := s.service.GetRates(context.Background(), "USD", []string{"usd", " ", ""}, "key")
	s.Empty(rates)
	s.fetcher.AssertNotCalled(s.T(), "FetchRates")
}

func (s *RatesServiceTestSuite) TestCacheKeyIgnoresTargetOrder() {
	fetched := map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.8),
		"GBP": decimal.NewFromFloat(0.7),
	}
	s.fetcher.On("FetchRates", mock.Anything, "USD", []string{"EUR", "GBP"}, "key").Return(fetched, nil).Once()

	s.service.GetRates(context.Background(), "USD", []string{"GBP", "EUR"}, "key")
	s.service.GetRates(context.Background(), "USD", []string{"EUR", "GBP", "eur"}, "key")

	s.fetcher.AssertNumberOfCalls(s.T(), "FetchRates", 1)
}

func (s *RatesServiceTestSuite) TestDifferentCredentialsAreSeparateEntries() {
	fetched := map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.8)}
	s.fetcher.On("FetchRates", mock.Anything, "USD", []string{"EUR"}, "key-a").Return(fetched, nil).Once()
	s.fetcher.On("FetchRates", mock.Anything, "USD", []string{"EUR"}, "key-b").Return(fetched, nil).Once()

	s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key-a")
	s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key-b")

	s.fetcher.AssertExpectations(s.T())
}

func (s *RatesServiceTestSuite) TestNonPositiveRatesAreDropped() {
	fetched := map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.8),
		"BAD": decimal.Zero,
		"NEG": decimal.NewFromFloat(-1),
	}
	s.fetcher.On("FetchRates", mock.Anything, "USD", mock.Anything, "key").Return(fetched, nil).Once()

	rates := s.service.GetRates(context.Background(), "USD", []string{"EUR", "BAD", "NEG"}, "key")
	s.Len(rates, 1)
	s.Contains(rates, "EUR")
}

func (s *RatesServiceTestSuite) TestReturnedMapIsACopy() {
	fetched := map[string]decimal.Decimal{"EUR": decimal.NewFromFloat(0.8)}
	s.fetcher.On("FetchRates", mock.Anything, "USD", []string{"EUR"}, "key").Return(fetched, nil).Once()

	first := s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key")
	first["EUR"] = decimal.NewFromInt(999)

	second := s.service.GetRates(context.Background(), "USD", []string{"EUR"}, "key")
	s.True(decimal.NewFromFloat(0.8).Equal(second["EUR"]), "caller mutation must not poison the cache")
}

func TestRatesServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatesServiceTestSuite))
}
