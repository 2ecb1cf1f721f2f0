package repositories

import "github.com/pfledger/finance_ledger_app/internal/core/changes"

// RepositoryProvider bundles every store handle plus the change broker its
// adapters publish on. It is constructed once at startup and passed down
// explicitly; there is no ambient global state.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
	CurrencyRepo    CurrencyRepository
	CategoryRepo    CategoryRepository
	ProfileRepo     ProfileRepository
	Changes         *changes.Broker
}
