package repositories

import (
	"context"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its identity.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListTransactions retrieves every transaction, ordered by timestamp
	// descending. Used by the pipeline to join per-account transaction sets.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// ListTransactionsForAccount retrieves the account's transactions ordered
	// by timestamp descending.
	ListTransactionsForAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction and returns its identity.
	SaveTransaction(ctx context.Context, tx domain.Transaction) (int64, error)

	// UpdateTransaction replaces an existing transaction record.
	UpdateTransaction(ctx context.Context, tx domain.Transaction) error

	// DeleteTransaction removes a single transaction by identity.
	DeleteTransaction(ctx context.Context, transactionID int64) error
}

// TransactionRepository combines all transaction-related store operations.
type TransactionRepository interface {
	TransactionReader
	TransactionWriter
}
