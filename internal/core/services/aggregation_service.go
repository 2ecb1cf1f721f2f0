package services

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/pfledger/finance_ledger_app/internal/apperrors"
	"github.com/pfledger/finance_ledger_app/internal/core/changes"
	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/pfledger/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pfledger/finance_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// aggregationService combines the entity-store change streams into derived
// views. Every emission is recomputed in full from the latest snapshot of all
// joined sources, so a view never mixes entity sets from different underlying
// states. The data is personal-finance scale; full recomputation is simpler
// and correctness-preserving compared to incremental derivation.
type aggregationService struct {
	BaseService
	accounts      portsrepo.AccountRepository
	transactions  portsrepo.TransactionRepository
	currencies    portsrepo.CurrencyRepository
	profiles      portsrepo.ProfileRepository
	changes       *changes.Broker
	rates         portssvc.RatesSvcFacade
	defaultAPIKey string
}

// AggregationOption is a functional option for configuring the aggregation service.
type AggregationOption func(*aggregationService)

// WithDefaultRateAPIKey sets the credential used when the profile has none.
func WithDefaultRateAPIKey(apiKey string) AggregationOption {
	return func(s *aggregationService) {
		s.defaultAPIKey = apiKey
	}
}

// NewAggregationService creates the derived-view pipeline.
func NewAggregationService(repos portsrepo.RepositoryProvider, rates portssvc.RatesSvcFacade, options ...AggregationOption) portssvc.AggregationSvcFacade {
	svc := &aggregationService{
		accounts:     repos.AccountRepo,
		transactions: repos.TransactionRepo,
		currencies:   repos.CurrencyRepo,
		profiles:     repos.ProfileRepo,
		changes:      repos.Changes,
		rates:        rates,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AggregationSvcFacade = (*aggregationService)(nil)

// SnapshotAccounts joins accounts with currencies and per-account transaction
// sets. Accounts whose currency no longer resolves are dropped from the
// output rather than failing the view. The result is ordered by position then
// name, matching the store's ordering contract.
func (s *aggregationService) SnapshotAccounts(ctx context.Context) ([]domain.AccountView, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	currencies, err := s.currencies.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactions.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	currencyByID := make(map[int64]domain.Currency, len(currencies))
	for _, c := range currencies {
		currencyByID[c.CurrencyID] = c
	}
	txByAccount := make(map[int64][]domain.Transaction)
	for _, tx := range transactions {
		txByAccount[tx.AccountID] = append(txByAccount[tx.AccountID], tx)
	}

	views := make([]domain.AccountView, 0, len(accounts))
	for _, acct := range accounts {
		currency, ok := currencyByID[acct.CurrencyID]
		if !ok {
			// Dangling currency reference; exclude rather than fault.
			continue
		}
		views = append(views, domain.AccountView{
			Account:        acct,
			Currency:       currency,
			CurrentBalance: domain.CurrentBalance(acct, txByAccount[acct.AccountID]),
		})
	}
	return views, nil
}

// SnapshotAccountsOverview extends the accounts view with base-currency
// conversion. Rates are requested once per recomputation for the distinct set
// of foreign codes, never once per account. Missing rates degrade to the raw
// balance and clear RatesAvailable; they never fault the view.
func (s *aggregationService) SnapshotAccountsOverview(ctx context.Context) (domain.AccountsOverview, error) {
	views, err := s.SnapshotAccounts(ctx)
	if err != nil {
		return domain.AccountsOverview{}, err
	}

	base, apiKey, err := s.resolveBaseCurrency(ctx)
	if err != nil {
		return domain.AccountsOverview{}, err
	}

	overview := domain.AccountsOverview{Accounts: views}
	if base == nil {
		overview.BaseAmounts = rawAmounts(views)
		return overview, nil
	}
	overview.BaseCurrency = base

	foreign := make(map[string]struct{})
	for _, v := range views {
		if v.Currency.CurrencyID != base.CurrencyID {
			foreign[strings.ToUpper(v.Currency.Code)] = struct{}{}
		}
	}
	if len(foreign) == 0 {
		overview.BaseAmounts = rawAmounts(views)
		overview.RatesAvailable = true
		return overview, nil
	}

	codes := make([]string, 0, len(foreign))
	for code := range foreign {
		codes = append(codes, code)
	}

	rates := s.rates.GetRates(ctx, base.Code, codes, apiKey)
	overview.BaseAmounts = domain.ConvertBalancesToBase(views, *base, rates)

	overview.RatesAvailable = true
	for code := range foreign {
		if rate, ok := rates[code]; !ok || !rate.IsPositive() {
			overview.RatesAvailable = false
			break
		}
	}
	return overview, nil
}

// SnapshotSummary reduces the overview into per-type totals.
func (s *aggregationService) SnapshotSummary(ctx context.Context) (domain.SummarySnapshot, error) {
	overview, err := s.SnapshotAccountsOverview(ctx)
	if err != nil {
		return domain.SummarySnapshot{}, err
	}
	return domain.SummarizeOverview(overview), nil
}

// SnapshotTransactionHistory joins the account's balance context with its
// transaction set, computes the running series and filters the presentation
// list by description. A missing account yields AccountMissing, not an error.
func (s *aggregationService) SnapshotTransactionHistory(ctx context.Context, accountID int64, search string) (domain.TransactionHistory, error) {
	views, err := s.SnapshotAccounts(ctx)
	if err != nil {
		return domain.TransactionHistory{}, err
	}

	var view *domain.AccountView
	for i := range views {
		if views[i].AccountID == accountID {
			view = &views[i]
			break
		}
	}
	if view == nil {
		return domain.TransactionHistory{
			AccountID:      accountID,
			AccountMissing: true,
			SearchText:     search,
			Entries:        []domain.LedgerEntry{},
		}, nil
	}

	transactions, err := s.transactions.ListTransactionsForAccount(ctx, accountID)
	if err != nil {
		return domain.TransactionHistory{}, err
	}

	entries := domain.ComputeRunningSeries(view.Account, transactions)
	return domain.TransactionHistory{
		AccountID:      accountID,
		AccountName:    view.Name,
		AccountType:    view.Type,
		CurrencySymbol: view.Currency.Symbol,
		CurrentBalance: view.CurrentBalance,
		SearchText:     search,
		Entries:        domain.FilterEntries(entries, search),
	}, nil
}

// ObserveAccounts yields the accounts view on every account, currency or
// transaction change.
func (s *aggregationService) ObserveAccounts(ctx context.Context) <-chan []domain.AccountView {
	return observe(ctx, s,
		[]changes.Kind{changes.KindAccount, changes.KindCurrency, changes.KindTransaction},
		s.SnapshotAccounts)
}

// ObserveAccountsOverview additionally reacts to profile changes, since the
// base currency and credential live there.
func (s *aggregationService) ObserveAccountsOverview(ctx context.Context) <-chan domain.AccountsOverview {
	return observe(ctx, s,
		[]changes.Kind{changes.KindAccount, changes.KindCurrency, changes.KindTransaction, changes.KindProfile},
		s.SnapshotAccountsOverview)
}

// ObserveSummary yields the summary snapshot on any underlying change.
func (s *aggregationService) ObserveSummary(ctx context.Context) <-chan domain.SummarySnapshot {
	return observe(ctx, s,
		[]changes.Kind{changes.KindAccount, changes.KindCurrency, changes.KindTransaction, changes.KindProfile},
		s.SnapshotSummary)
}

// ObserveTransactionHistory yields the history view for one account.
func (s *aggregationService) ObserveTransactionHistory(ctx context.Context, accountID int64, search string) <-chan domain.TransactionHistory {
	return observe(ctx, s,
		[]changes.Kind{changes.KindAccount, changes.KindCurrency, changes.KindTransaction},
		func(ctx context.Context) (domain.TransactionHistory, error) {
			return s.SnapshotTransactionHistory(ctx, accountID, search)
		})
}

// resolveBaseCurrency loads the profile and its base currency. A missing
// profile or a dangling base-currency reference yields nil, which disables
// conversion for the emission.
func (s *aggregationService) resolveBaseCurrency(ctx context.Context) (*domain.Currency, string, error) {
	profile, err := s.profiles.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", nil
		}
		return nil, "", err
	}

	base, err := s.currencies.FindCurrencyByID(ctx, profile.BaseCurrencyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", nil
		}
		return nil, "", err
	}

	apiKey := profile.RateAPIKey
	if strings.TrimSpace(apiKey) == "" {
		apiKey = s.defaultAPIKey
	}
	return base, apiKey, nil
}

func rawAmounts(views []domain.AccountView) map[int64]decimal.Decimal {
	amounts := make(map[int64]decimal.Decimal, len(views))
	for _, v := range views {
		amounts[v.AccountID] = v.CurrentBalance
	}
	return amounts
}

// observe drives one derived-view subscription: an initial emission, then a
// full recomputation on every change tick. Identical consecutive emissions
// are suppressed, and a pending emission is replaced when the consumer is
// slow, so a subscriber always receives the latest consistent view. The
// channel closes when ctx is cancelled; in-flight recomputations simply have
// their results dropped.
func observe[T any](ctx context.Context, s *aggregationService, kinds []changes.Kind, compute func(context.Context) (T, error)) <-chan T {
	out := make(chan T, 1)
	ticks := s.changes.Subscribe(ctx, kinds...)

	go func() {
		defer close(out)
		var last T
		haveLast := false

		emit := func() {
			view, err := compute(ctx)
			if err != nil {
				s.LogError(ctx, err, "Failed to recompute derived view")
				return
			}
			if haveLast && reflect.DeepEqual(last, view) {
				return
			}
			last = view
			haveLast = true
			for {
				select {
				case out <- view:
					return
				case <-ctx.Done():
					return
				default:
				}
				// Replace the stale pending emission with the fresh one.
				select {
				case <-out:
				default:
				}
			}
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return out
}
