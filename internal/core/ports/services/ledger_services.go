package services

import (
	"context"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	"github.com/pfledger/finance_ledger_app/internal/dto"
)

// LedgerSvcFacade exposes every mutation on the ledger plus the simple
// reference reads the handlers need. Each mutation either completes (possibly
// triggering downstream recomputation via the change broker) or fails with a
// wrapped apperrors sentinel.
type LedgerSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error)
	ReorderAccounts(ctx context.Context, req dto.ReorderAccountsRequest) error
	DeleteAccount(ctx context.Context, accountID int64) error

	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID int64) error

	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) error

	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	GetProfile(ctx context.Context) (*domain.UserProfile, error)
	UpsertProfile(ctx context.Context, req dto.UpsertProfileRequest) (*domain.UserProfile, error)
}
