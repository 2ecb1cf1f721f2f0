package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pfledger/finance_ledger_app/internal/core/changes"
	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/pfledger/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pfledger/finance_ledger_app/internal/core/ports/services"
	"github.com/pfledger/finance_ledger_app/internal/core/services"
	"github.com/pfledger/finance_ledger_app/internal/dto"
	"github.com/pfledger/finance_ledger_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

// stubRates is a canned RatesSvcFacade for driving conversion scenarios.
type stubRates struct {
	mu      sync.Mutex
	rates   map[string]decimal.Decimal
	calls   int
	lastKey string
}

func (s *stubRates) GetRates(_ context.Context, _ string, _ []string, apiKey string) map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastKey = apiKey
	if s.rates == nil {
		return map[string]decimal.Decimal{}
	}
	return s.rates
}

func (s *stubRates) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubRates) lastAPIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastKey
}

var _ portssvc.RatesSvcFacade = (*stubRates)(nil)

type AggregationServiceTestSuite struct {
	suite.Suite
	repos  portsrepo.RepositoryProvider
	rates  *stubRates
	ledger portssvc.LedgerSvcFacade
	svc    portssvc.AggregationSvcFacade

	usd domain.Currency
	eur domain.Currency
}

func (s *AggregationServiceTestSuite) SetupTest() {
	s.repos = memory.NewRepositoryProvider(changes.NewBroker())
	s.rates = &stubRates{}
	s.ledger = services.NewLedgerService(s.repos)
	s.svc = services.NewAggregationService(s.repos, s.rates,
		services.WithDefaultRateAPIKey("default-key"))

	ctx := context.Background()
	usdID, err := s.repos.CurrencyRepo.SaveCurrency(ctx, domain.Currency{Name: "US Dollar", Symbol: "$", Code: "USD"})
	s.Require().NoError(err)
	eurID, err := s.repos.CurrencyRepo.SaveCurrency(ctx, domain.Currency{Name: "Euro", Symbol: "€", Code: "EUR"})
	s.Require().NoError(err)

	usd, err := s.repos.CurrencyRepo.FindCurrencyByID(ctx, usdID)
	s.Require().NoError(err)
	eur, err := s.repos.CurrencyRepo.FindCurrencyByID(ctx, eurID)
	s.Require().NoError(err)
	s.usd, s.eur = *usd, *eur
}

func (s *AggregationServiceTestSuite) createAccount(name string, accountType domain.AccountType, currencyID int64, initial string) domain.Account {
	account, err := s.ledger.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Name:           name,
		Type:           string(accountType),
		CurrencyID:     currencyID,
		InitialBalance: dec(initial),
	})
	s.Require().NoError(err)
	return *account
}

func (s *AggregationServiceTestSuite) createCategory(name string) domain.Category {
	category, err := s.ledger.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: name})
	s.Require().NoError(err)
	return *category
}

func (s *AggregationServiceTestSuite) createTransaction(accountID, categoryID int64, txType domain.TransactionType, amount, description string) domain.Transaction {
	tx, err := s.ledger.CreateTransaction(context.Background(), dto.CreateTransactionRequest{
		AccountID:   accountID,
		CategoryID:  categoryID,
		Description: description,
		Amount:      dec(amount),
		Type:        txType,
	})
	s.Require().NoError(err)
	return *tx
}

func (s *AggregationServiceTestSuite) setProfile(baseCurrencyID int64, apiKey string) {
	_, err := s.ledger.UpsertProfile(context.Background(), dto.UpsertProfileRequest{
		Name:           "Tester",
		BaseCurrencyID: baseCurrencyID,
		RateAPIKey:     apiKey,
	})
	s.Require().NoError(err)
}

func (s *AggregationServiceTestSuite) TestSnapshotAccountsComputesBalances() {
	checking := s.createAccount("Checking", domain.Current, s.usd.CurrencyID, "100")
	category := s.createCategory("Food")
	s.createTransaction(checking.AccountID, category.CategoryID, domain.Expense, "30", "Groceries")
	s.createTransaction(checking.AccountID, category.CategoryID, domain.Income, "50", "Refund")

	views, err := s.svc.SnapshotAccounts(context.Background())
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.True(dec("120").Equal(views[0].CurrentBalance))
	s.Equal("USD", views[0].Currency.Code)
}

func (s *AggregationServiceTestSuite) TestSnapshotAccountsOrdersByPositionThenName() {
	s.createAccount("Bravo", domain.Current, s.usd.CurrencyID, "0")
	s.createAccount("Alpha", domain.Current, s.usd.CurrencyID, "0")
	s.createAccount("Savings", domain.Savings, s.usd.CurrencyID, "0")

	views, err := s.svc.SnapshotAccounts(context.Background())
	s.Require().NoError(err)
	s.Require().Len(views, 3)

	// Bravo and Savings both sit at position 0 in their groups and tie on
	// position globally; the name breaks the tie. Alpha follows at position 1.
	s.Equal("Bravo", views[0].Name)
	s.Equal("Savings", views[1].Name)
	s.Equal("Alpha", views[2].Name)
}

func (s *AggregationServiceTestSuite) TestOverviewWithoutProfile() {
	s.createAccount("Checking", domain.Current, s.usd.CurrencyID, "100")

	overview, err := s.svc.SnapshotAccountsOverview(context.Background())
	s.Require().NoError(err)
	s.Nil(overview.BaseCurrency)
	s.False(overview.RatesAvailable)
	s.True(dec("100").Equal(overview.BaseAmounts[overview.Accounts[0].AccountID]))
	s.Zero(s.rates.callCount())
}

func (s *AggregationServiceTestSuite) TestOverviewAllAccountsInBaseCurrency() {
	checking := s.createAccount("Checking", domain.Current, s.usd.CurrencyID, "100")
	s.setProfile(s.usd.CurrencyID, "profile-key")

	overview, err := s.svc.SnapshotAccountsOverview(context.Background())
	s.Require().NoError(err)
	s.Require().NotNil(overview.BaseCurrency)
	s.Equal("USD", overview.BaseCurrency.Code)
	s.True(overview.RatesAvailable, "nothing to convert counts as available")
	s.True(dec("100").Equal(overview.BaseAmounts[checking.AccountID]))
	s.Zero(s.rates.callCount(), "no fetch when every account is already in base")
}

func (s *AggregationServiceTestSuite) TestOverviewConvertsForeignBalances() {
	checking := s.createAccount("Checking", domain.Current, s.usd.CurrencyID, "120")
	euros := s.createAccount("Euro Savings", domain.Savings, s.eur.CurrencyID, "80")
	s.setProfile(s.usd.CurrencyID, "profile-key")
	s.rates.rates = map[string]decimal.Decimal{"EUR": dec("0.8")}

	overview, err := s.svc.SnapshotAccountsOverview(context.Background())
	s.Require().NoError(err)
	s.True(overview.RatesAvailable)
	s.True(dec("120").Equal(overview.BaseAmounts[checking.AccountID]))
	s.True(dec("100").Equal(overview.BaseAmounts[euros.AccountID]), "80 EUR / 0.8 = 100 USD")
	s.Equal(1, s.rates.callCount(), "one rate lookup per recomputation")
	s.Equal("profile-key", s.rates.lastAPIKey())
}

func (s *AggregationServiceTestSuite) TestOverviewFallsBackToDefaultCredential() {
	s.createAccount("Euro Savings", domain.Savings, s.eur.CurrencyID, "80")
	s.setProfile(s.usd.CurrencyID, "")

	_, err := s.svc.SnapshotAccountsOverview(context.Background())
	s.Require().NoError(err)
	s.Equal("default-key", s.rates.lastAPIKey())
}

func (s *AggregationServiceTestSuite) TestOverviewMissingRateDegrades() {
	euros := s.createAccount("Euro Savings", domain.Savings, s.eur.CurrencyID, "80")
	s.setProfile(s.usd.CurrencyID, "profile-key")
	// Stub returns no EUR rate.

	overview, err := s.svc.SnapshotAccountsOverview(context.Background())
	s.Require().NoError(err)
	s.False(overview.RatesAvailable)
	s.True(dec("80").Equal(overview.BaseAmounts[euros.AccountID]), "raw balance when unconvertible")
}

func (s *AggregationServiceTestSuite) TestSnapshotSummary() {
	checking := s.createAccount("Checking", domain.Current, s.usd.CurrencyID, "100")
	s.createAccount("Savings", domain.Savings, s.usd.CurrencyID, "500")
	s.createAccount("Card", domain.Debt, s.usd.CurrencyID, "250")
	category := s.createCategory("Misc")
	s.createTransaction(checking.AccountID, category.CategoryID, domain.Income, "50", "Salary")
	s.setProfile(s.usd.CurrencyID, "profile-key")

	summary, err := s.svc.SnapshotSummary(context.Background())
	s.Require().NoError(err)
	s.True(dec("150").Equal(summary.CurrentBalance))
	s.True(dec("500").Equal(summary.SavingsBalance))
	s.True(dec("250").Equal(summary.DebtBalance))
	s.True(dec("650").Equal(summary.TotalAssets))
	s.True(dec("400").Equal(summary.NetWorth))
	s.True(summary.RatesAvailable)
}

func (s *AggregationServiceTestSuite) TestHistoryForMissingAccount() {
	history, err := s.svc.SnapshotTransactionHistory(context.Background(), 9999, "")
	s.Require().NoError(err)
	s.True(history.AccountMissing)
	s.Equal(int64(9999), history.AccountID)
	s.Empty(history.Entries)
}

func (s *AggregationServiceTestSuite) TestHistorySearchPreservesRunningBalances() {
	checking := s.createAccount("Checking", domain.Current, s.usd.CurrencyID, "0")
	category := s.createCategory("Food")
	s.createTransaction(checking.AccountID, category.CategoryID, domain.Expense, "20", "Groceries")
	s.createTransaction(checking.AccountID, category.CategoryID, domain.Income, "100", "Salary")
	s.createTransaction(checking.AccountID, category.CategoryID, domain.Expense, "10", "More groceries")

	history, err := s.svc.SnapshotTransactionHistory(context.Background(), checking.AccountID, "grocer")
	s.Require().NoError(err)
	s.False(history.AccountMissing)
	s.Equal("Checking", history.AccountName)
	s.Equal("$", history.CurrencySymbol)
	s.True(dec("70").Equal(history.CurrentBalance))
	s.Require().Len(history.Entries, 2)
	s.True(dec("70").Equal(history.Entries[0].RunningBalance))
	s.True(dec("-20").Equal(history.Entries[1].RunningBalance))
}

func (s *AggregationServiceTestSuite) TestObserveSummaryReactsToChanges() {
	checking := s.createAccount("Checking", domain.Current, s.usd.CurrencyID, "100")
	category := s.createCategory("Misc")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := s.svc.ObserveSummary(ctx)

	initial := s.receiveSummary(updates)
	s.True(dec("100").Equal(initial.CurrentBalance))

	s.createTransaction(checking.AccountID, category.CategoryID, domain.Income, "25", "Top-up")

	next := s.receiveSummary(updates)
	s.True(dec("125").Equal(next.CurrentBalance))
}

func (s *AggregationServiceTestSuite) TestObserveClosesOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	updates := s.svc.ObserveAccounts(ctx)

	// Drain the initial emission, then cancel.
	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for initial emission")
	}
	cancel()

	select {
	case _, ok := <-updates:
		s.False(ok, "channel should close after cancellation")
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for channel close")
	}
}

func (s *AggregationServiceTestSuite) receiveSummary(updates <-chan domain.SummarySnapshot) domain.SummarySnapshot {
	select {
	case summary, ok := <-updates:
		s.Require().True(ok, "subscription closed unexpectedly")
		return summary
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for summary emission")
		return domain.SummarySnapshot{}
	}
}

func TestAggregationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AggregationServiceTestSuite))
}
