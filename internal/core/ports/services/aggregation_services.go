package services

import (
	"context"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AggregationSvcFacade produces the derived views. The Observe* variants are
// subscriptions: the returned channel yields a fresh, internally consistent
// emission whenever any joined source changes, suppressing consecutive
// duplicates, and is closed when ctx is cancelled. The Snapshot* variants
// compute a single view from the current store state.
//
// Derived views never fail for conversion or reference-integrity reasons;
// they degrade per the overview's RatesAvailable flag and by excluding
// dangling references.
type AggregationSvcFacade interface {
	ObserveAccounts(ctx context.Context) <-chan []domain.AccountView
	ObserveAccountsOverview(ctx context.Context) <-chan domain.AccountsOverview
	ObserveSummary(ctx context.Context) <-chan domain.SummarySnapshot
	ObserveTransactionHistory(ctx context.Context, accountID int64, search string) <-chan domain.TransactionHistory

	SnapshotAccounts(ctx context.Context) ([]domain.AccountView, error)
	SnapshotAccountsOverview(ctx context.Context) (domain.AccountsOverview, error)
	SnapshotSummary(ctx context.Context) (domain.SummarySnapshot, error)
	SnapshotTransactionHistory(ctx context.Context, accountID int64, search string) (domain.TransactionHistory, error)
}

// RatesSvcFacade is the TTL-bound cache in front of the rate fetcher.
// GetRates never fails: unavailability of any flavour yields an empty map.
type RatesSvcFacade interface {
	GetRates(ctx context.Context, base string, symbols []string, apiKey string) map[string]decimal.Decimal
}
