package repositories

import (
	"context"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its identity.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// ListAccounts retrieves every account ordered by position then name.
	// Gaps in positions (between a delete and the next reorder) are tolerated.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// MaxPositionForType returns the highest position in the given type group,
	// or -1 when the group is empty.
	MaxPositionForType(ctx context.Context, accountType domain.AccountType) (int, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account and returns its assigned identity.
	SaveAccount(ctx context.Context, account domain.Account) (int64, error)

	// UpdateAccount replaces an existing account record keyed by identity.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// ReorderPositions writes position = index for each identity in order.
	// The caller supplies the full desired order for one type group; identities
	// omitted from the list keep their previous positions.
	ReorderPositions(ctx context.Context, orderedIDs []int64) error

	// DeleteAccountWithTransactions deletes every transaction referencing the
	// account and then the account itself, atomically. If the cascade fails the
	// account delete must not be applied.
	DeleteAccountWithTransactions(ctx context.Context, accountID int64) error
}

// AccountRepository combines all account-related store operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
