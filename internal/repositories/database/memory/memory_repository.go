// Package memory provides an in-memory store adapter implementing every
// repository port. It backs the test suites and serves as the fallback store
// when no database URL is configured, so the server can run standalone.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pfledger/finance_ledger_app/internal/apperrors"
	"github.com/pfledger/finance_ledger_app/internal/core/changes"
	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/pfledger/finance_ledger_app/internal/core/ports/repositories"
)

// store holds every entity collection behind one mutex. Writes publish on the
// broker after the lock is released, matching the pgsql adapter's ordering.
type store struct {
	mu      sync.Mutex
	changes *changes.Broker

	nextID       int64
	accounts     map[int64]domain.Account
	transactions map[int64]domain.Transaction
	currencies   map[int64]domain.Currency
	categories   map[int64]domain.Category
	profile      *domain.UserProfile
}

// NewRepositoryProvider creates a fresh empty in-memory store exposing all
// repository ports.
func NewRepositoryProvider(broker *changes.Broker) portsrepo.RepositoryProvider {
	s := &store{
		changes:      broker,
		nextID:       1,
		accounts:     make(map[int64]domain.Account),
		transactions: make(map[int64]domain.Transaction),
		currencies:   make(map[int64]domain.Currency),
		categories:   make(map[int64]domain.Category),
	}
	return portsrepo.RepositoryProvider{
		AccountRepo:     (*accountStore)(s),
		TransactionRepo: (*transactionStore)(s),
		CurrencyRepo:    (*currencyStore)(s),
		CategoryRepo:    (*categoryStore)(s),
		ProfileRepo:     (*profileStore)(s),
		Changes:         broker,
	}
}

func (s *store) allocateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *store) publish(kinds ...changes.Kind) {
	if s.changes == nil {
		return
	}
	for _, kind := range kinds {
		s.changes.Publish(kind)
	}
}

type accountStore store

var _ portsrepo.AccountRepository = (*accountStore)(nil)

func (s *accountStore) SaveAccount(_ context.Context, account domain.Account) (int64, error) {
	s.mu.Lock()
	if _, ok := s.currencies[account.CurrencyID]; !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: currency %d does not exist", apperrors.ErrValidation, account.CurrencyID)
	}
	account.AccountID = (*store)(s).allocateID()
	s.accounts[account.AccountID] = account
	s.mu.Unlock()

	(*store)(s).publish(changes.KindAccount)
	return account.AccountID, nil
}

func (s *accountStore) FindAccountByID(_ context.Context, accountID int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *accountStore) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	s.mu.Unlock()

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Position != accounts[j].Position {
			return accounts[i].Position < accounts[j].Position
		}
		return accounts[i].Name < accounts[j].Name
	})
	return accounts, nil
}

func (s *accountStore) MaxPositionForType(_ context.Context, accountType domain.AccountType) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxPosition := -1
	for _, account := range s.accounts {
		if account.Type == accountType && account.Position > maxPosition {
			maxPosition = account.Position
		}
	}
	return maxPosition, nil
}

func (s *accountStore) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	if _, ok := s.accounts[account.AccountID]; !ok {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	s.accounts[account.AccountID] = account
	s.mu.Unlock()

	(*store)(s).publish(changes.KindAccount)
	return nil
}

func (s *accountStore) ReorderPositions(_ context.Context, orderedIDs []int64) error {
	s.mu.Lock()
	for index, accountID := range orderedIDs {
		account, ok := s.accounts[accountID]
		if !ok {
			continue
		}
		account.Position = index
		s.accounts[accountID] = account
	}
	s.mu.Unlock()

	(*store)(s).publish(changes.KindAccount)
	return nil
}

func (s *accountStore) DeleteAccountWithTransactions(_ context.Context, accountID int64) error {
	s.mu.Lock()
	if _, ok := s.accounts[accountID]; !ok {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	for id, tx := range s.transactions {
		if tx.AccountID == accountID {
			delete(s.transactions, id)
		}
	}
	delete(s.accounts, accountID)
	s.mu.Unlock()

	(*store)(s).publish(changes.KindTransaction, changes.KindAccount)
	return nil
}

type transactionStore store

var _ portsrepo.TransactionRepository = (*transactionStore)(nil)

func (s *transactionStore) SaveTransaction(_ context.Context, tx domain.Transaction) (int64, error) {
	s.mu.Lock()
	if _, ok := s.accounts[tx.AccountID]; !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: account %d does not exist", apperrors.ErrValidation, tx.AccountID)
	}
	tx.TransactionID = (*store)(s).allocateID()
	s.transactions[tx.TransactionID] = tx
	s.mu.Unlock()

	(*store)(s).publish(changes.KindTransaction)
	return tx.TransactionID, nil
}

func (s *transactionStore) FindTransactionByID(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &tx, nil
}

func (s *transactionStore) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	return s.collect(func(domain.Transaction) bool { return true })
}

func (s *transactionStore) ListTransactionsForAccount(_ context.Context, accountID int64) ([]domain.Transaction, error) {
	return s.collect(func(tx domain.Transaction) bool { return tx.AccountID == accountID })
}

func (s *transactionStore) collect(keep func(domain.Transaction) bool) ([]domain.Transaction, error) {
	s.mu.Lock()
	var transactions []domain.Transaction
	for _, tx := range s.transactions {
		if keep(tx) {
			transactions = append(transactions, tx)
		}
	}
	s.mu.Unlock()

	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Timestamp.Equal(transactions[j].Timestamp) {
			return transactions[i].Timestamp.After(transactions[j].Timestamp)
		}
		return transactions[i].TransactionID > transactions[j].TransactionID
	})
	return transactions, nil
}

func (s *transactionStore) UpdateTransaction(_ context.Context, tx domain.Transaction) error {
	s.mu.Lock()
	if _, ok := s.transactions[tx.TransactionID]; !ok {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	s.transactions[tx.TransactionID] = tx
	s.mu.Unlock()

	(*store)(s).publish(changes.KindTransaction)
	return nil
}

func (s *transactionStore) DeleteTransaction(_ context.Context, transactionID int64) error {
	s.mu.Lock()
	if _, ok := s.transactions[transactionID]; !ok {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	delete(s.transactions, transactionID)
	s.mu.Unlock()

	(*store)(s).publish(changes.KindTransaction)
	return nil
}

type currencyStore store

var _ portsrepo.CurrencyRepository = (*currencyStore)(nil)

func (s *currencyStore) SaveCurrency(_ context.Context, currency domain.Currency) (int64, error) {
	s.mu.Lock()
	for _, existing := range s.currencies {
		if strings.EqualFold(existing.Code, currency.Code) {
			s.mu.Unlock()
			return 0, fmt.Errorf("%w: currency code %s already exists", apperrors.ErrDuplicate, currency.Code)
		}
	}
	currency.CurrencyID = (*store)(s).allocateID()
	s.currencies[currency.CurrencyID] = currency
	s.mu.Unlock()

	(*store)(s).publish(changes.KindCurrency)
	return currency.CurrencyID, nil
}

func (s *currencyStore) FindCurrencyByID(_ context.Context, currencyID int64) (*domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	currency, ok := s.currencies[currencyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &currency, nil
}

func (s *currencyStore) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	s.mu.Lock()
	currencies := make([]domain.Currency, 0, len(s.currencies))
	for _, currency := range s.currencies {
		currencies = append(currencies, currency)
	}
	s.mu.Unlock()

	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Code < currencies[j].Code })
	return currencies, nil
}

type categoryStore store

var _ portsrepo.CategoryRepository = (*categoryStore)(nil)

func (s *categoryStore) SaveCategory(_ context.Context, category domain.Category) (int64, error) {
	s.mu.Lock()
	category.CategoryID = (*store)(s).allocateID()
	s.categories[category.CategoryID] = category
	s.mu.Unlock()

	(*store)(s).publish(changes.KindCategory)
	return category.CategoryID, nil
}

func (s *categoryStore) FindCategoryByID(_ context.Context, categoryID int64) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[categoryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &category, nil
}

func (s *categoryStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	categories := make([]domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, category)
	}
	s.mu.Unlock()

	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *categoryStore) DeleteCategory(_ context.Context, categoryID int64) error {
	s.mu.Lock()
	if _, ok := s.categories[categoryID]; !ok {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	delete(s.categories, categoryID)
	s.mu.Unlock()

	(*store)(s).publish(changes.KindCategory)
	return nil
}

type profileStore store

var _ portsrepo.ProfileRepository = (*profileStore)(nil)

func (s *profileStore) GetProfile(_ context.Context) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, apperrors.ErrNotFound
	}
	profile := *s.profile
	return &profile, nil
}

func (s *profileStore) SaveProfile(_ context.Context, profile domain.UserProfile) (int64, error) {
	s.mu.Lock()
	if s.profile != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: profile already exists", apperrors.ErrDuplicate)
	}
	profile.ProfileID = (*store)(s).allocateID()
	s.profile = &profile
	s.mu.Unlock()

	(*store)(s).publish(changes.KindProfile)
	return profile.ProfileID, nil
}

func (s *profileStore) UpdateProfile(_ context.Context, profile domain.UserProfile) error {
	s.mu.Lock()
	if s.profile == nil || s.profile.ProfileID != profile.ProfileID {
		s.mu.Unlock()
		return apperrors.ErrNotFound
	}
	s.profile = &profile
	s.mu.Unlock()

	(*store)(s).publish(changes.KindProfile)
	return nil
}
