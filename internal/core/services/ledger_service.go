package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pfledger/finance_ledger_app/internal/apperrors"
	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/pfledger/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pfledger/finance_ledger_app/internal/core/ports/services"
	"github.com/pfledger/finance_ledger_app/internal/dto"
)

// ledgerService implements every mutation on the ledger, including the
// ordering manager for per-type account positions.
type ledgerService struct {
	BaseService
	accounts     portsrepo.AccountRepository
	transactions portsrepo.TransactionRepository
	currencies   portsrepo.CurrencyRepository
	categories   portsrepo.CategoryRepository
	profiles     portsrepo.ProfileRepository
}

// NewLedgerService creates the mutation service over the given stores.
func NewLedgerService(repos portsrepo.RepositoryProvider) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accounts:     repos.AccountRepo,
		transactions: repos.TransactionRepo,
		currencies:   repos.CurrencyRepo,
		categories:   repos.CategoryRepo,
		profiles:     repos.ProfileRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateAccount appends the new account to the end of its type group:
// position = 1 + max(existing positions for that type, or -1 if none).
func (s *ledgerService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.requireCurrency(ctx, req.CurrencyID); err != nil {
		return nil, err
	}

	accountType := domain.AccountTypeFromRaw(req.Type)
	maxPosition, err := s.accounts.MaxPositionForType(ctx, accountType)
	if err != nil {
		s.LogError(ctx, err, "Failed to determine position for new account",
			slog.String("account_type", string(accountType)))
		return nil, err
	}

	account := domain.Account{
		Name:           req.Name,
		Type:           accountType,
		CurrencyID:     req.CurrencyID,
		InitialBalance: req.InitialBalance,
		Position:       maxPosition + 1,
		Icon:           req.Icon,
		Color:          req.Color,
	}

	accountID, err := s.accounts.SaveAccount(ctx, account)
	if err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("name", req.Name))
		return nil, err
	}
	account.AccountID = accountID

	s.LogInfo(ctx, "Account created", slog.Int64("account_id", accountID),
		slog.String("account_type", string(accountType)))
	return &account, nil
}

// UpdateAccount is a full-record replace keyed by identity. The position is
// preserved; only a reorder moves accounts within their group.
func (s *ledgerService) UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	existing, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for update", slog.Int64("account_id", accountID))
		}
		return nil, err
	}
	if err := s.requireCurrency(ctx, req.CurrencyID); err != nil {
		return nil, err
	}

	updated := domain.Account{
		AccountID:      existing.AccountID,
		Name:           req.Name,
		Type:           domain.AccountTypeFromRaw(req.Type),
		CurrencyID:     req.CurrencyID,
		InitialBalance: req.InitialBalance,
		Position:       existing.Position,
		Icon:           req.Icon,
		Color:          req.Color,
	}

	if err := s.accounts.UpdateAccount(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.Int64("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.Int64("account_id", accountID))
	return &updated, nil
}

// ReorderAccounts writes position = index for each identity in the supplied
// order. The caller is trusted to supply a complete, duplicate-free ordering
// for the type group; omitted accounts keep their old positions until the
// next full reorder.
func (s *ledgerService) ReorderAccounts(ctx context.Context, req dto.ReorderAccountsRequest) error {
	if err := s.accounts.ReorderPositions(ctx, req.OrderedIDs); err != nil {
		s.LogError(ctx, err, "Failed to reorder accounts",
			slog.String("account_type", req.Type),
			slog.Int("count", len(req.OrderedIDs)))
		return err
	}
	s.LogInfo(ctx, "Accounts reordered",
		slog.String("account_type", req.Type),
		slog.Int("count", len(req.OrderedIDs)))
	return nil
}

// DeleteAccount cascades: transactions first, then the account. The store
// applies both atomically, so a failed cascade never leaves the account
// half-deleted. Positions in the surviving group are not compacted; the next
// reorder re-indexes.
func (s *ledgerService) DeleteAccount(ctx context.Context, accountID int64) error {
	if _, err := s.accounts.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.accounts.DeleteAccountWithTransactions(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.Int64("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted with its transactions", slog.Int64("account_id", accountID))
	return nil
}

// CreateTransaction records a movement against one account. Amount must be
// non-negative; a zero timestamp means now.
func (s *ledgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: transaction amount cannot be negative", apperrors.ErrValidation)
	}
	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	tx := domain.Transaction{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Timestamp:   timestamp,
	}

	transactionID, err := s.transactions.SaveTransaction(ctx, tx)
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.Int64("account_id", req.AccountID))
		return nil, err
	}
	tx.TransactionID = transactionID

	s.LogInfo(ctx, "Transaction recorded",
		slog.Int64("transaction_id", transactionID),
		slog.Int64("account_id", req.AccountID))
	return &tx, nil
}

// UpdateTransaction is a full-record replace keyed by identity.
func (s *ledgerService) UpdateTransaction(ctx context.Context, transactionID int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: transaction amount cannot be negative", apperrors.ErrValidation)
	}
	if _, err := s.transactions.FindTransactionByID(ctx, transactionID); err != nil {
		return nil, err
	}
	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	tx := domain.Transaction{
		TransactionID: transactionID,
		AccountID:     req.AccountID,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          req.Type,
		Timestamp:     req.Timestamp,
	}

	if err := s.transactions.UpdateTransaction(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.Int64("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.Int64("transaction_id", transactionID))
	return &tx, nil
}

// DeleteTransaction removes a single transaction.
func (s *ledgerService) DeleteTransaction(ctx context.Context, transactionID int64) error {
	if err := s.transactions.DeleteTransaction(ctx, transactionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.Int64("transaction_id", transactionID))
		}
		return err
	}
	s.LogInfo(ctx, "Transaction deleted", slog.Int64("transaction_id", transactionID))
	return nil
}

// CreateCategory persists a new category.
func (s *ledgerService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	category := domain.Category{Name: strings.TrimSpace(req.Name)}
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name cannot be blank", apperrors.ErrValidation)
	}

	categoryID, err := s.categories.SaveCategory(ctx, category)
	if err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("name", category.Name))
		return nil, err
	}
	category.CategoryID = categoryID
	return &category, nil
}

// ListCategories returns all categories.
func (s *ledgerService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// DeleteCategory removes a category by identity. Transactions referencing it
// become dangling and are filtered from derived views, not faulted.
func (s *ledgerService) DeleteCategory(ctx context.Context, categoryID int64) error {
	return s.categories.DeleteCategory(ctx, categoryID)
}

// CreateCurrency registers a currency. The code is normalized to upper case.
func (s *ledgerService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	currency := domain.Currency{
		Name:   req.Name,
		Symbol: req.Symbol,
		Code:   strings.ToUpper(strings.TrimSpace(req.Code)),
	}

	currencyID, err := s.currencies.SaveCurrency(ctx, currency)
	if err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("code", currency.Code))
		return nil, err
	}
	currency.CurrencyID = currencyID
	return &currency, nil
}

// ListCurrencies returns all registered currencies.
func (s *ledgerService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencies.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// GetProfile returns the singleton profile or apperrors.ErrNotFound.
func (s *ledgerService) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	return s.profiles.GetProfile(ctx)
}

// UpsertProfile creates the profile on first save and replaces it afterwards.
func (s *ledgerService) UpsertProfile(ctx context.Context, req dto.UpsertProfileRequest) (*domain.UserProfile, error) {
	if err := s.requireCurrency(ctx, req.BaseCurrencyID); err != nil {
		return nil, err
	}

	profile := domain.UserProfile{
		Name:           req.Name,
		BaseCurrencyID: req.BaseCurrencyID,
		RateAPIKey:     strings.TrimSpace(req.RateAPIKey),
	}

	existing, err := s.profiles.GetProfile(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		profileID, saveErr := s.profiles.SaveProfile(ctx, profile)
		if saveErr != nil {
			s.LogError(ctx, saveErr, "Failed to save profile")
			return nil, saveErr
		}
		profile.ProfileID = profileID
	case err != nil:
		return nil, err
	default:
		profile.ProfileID = existing.ProfileID
		if updateErr := s.profiles.UpdateProfile(ctx, profile); updateErr != nil {
			s.LogError(ctx, updateErr, "Failed to update profile")
			return nil, updateErr
		}
	}

	s.LogInfo(ctx, "Profile saved", slog.Int64("profile_id", profile.ProfileID))
	return &profile, nil
}

func (s *ledgerService) requireCurrency(ctx context.Context, currencyID int64) error {
	if _, err := s.currencies.FindCurrencyByID(ctx, currencyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: currency %d not found", apperrors.ErrValidation, currencyID)
		}
		return fmt.Errorf("failed to validate currency %d: %w", currencyID, err)
	}
	return nil
}

func (s *ledgerService) requireAccount(ctx context.Context, accountID int64) error {
	if _, err := s.accounts.FindAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %d not found", apperrors.ErrValidation, accountID)
		}
		return fmt.Errorf("failed to validate account %d: %w", accountID, err)
	}
	return nil
}

func (s *ledgerService) requireCategory(ctx context.Context, categoryID int64) error {
	if _, err := s.categories.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %d not found", apperrors.ErrValidation, categoryID)
		}
		return fmt.Errorf("failed to validate category %d: %w", categoryID, err)
	}
	return nil
}
