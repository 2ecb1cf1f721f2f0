package domain_test

import (
	"testing"
	"time"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func tx(id int64, txType domain.TransactionType, amount string, at time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		AccountID:     1,
		CategoryID:    1,
		Description:   "tx",
		Amount:        dec(amount),
		Type:          txType,
		Timestamp:     at,
	}
}

func TestCurrentBalanceIsOrderIndependent(t *testing.T) {
	account := domain.Account{AccountID: 1, Type: domain.Current, InitialBalance: dec("100")}
	now := time.Now()
	transactions := []domain.Transaction{
		tx(1, domain.Income, "50", now),
		tx(2, domain.Expense, "30", now.Add(time.Hour)),
		tx(3, domain.Income, "5", now.Add(2*time.Hour)),
	}

	forward := domain.CurrentBalance(account, transactions)

	reversed := []domain.Transaction{transactions[2], transactions[0], transactions[1]}
	backward := domain.CurrentBalance(account, reversed)

	assert.True(t, dec("125").Equal(forward))
	assert.True(t, forward.Equal(backward))
}

func TestCurrentBalanceDebtAccount(t *testing.T) {
	account := domain.Account{AccountID: 1, Type: domain.Debt, InitialBalance: dec("200")}
	now := time.Now()
	transactions := []domain.Transaction{
		tx(1, domain.Income, "50", now),  // payment shrinks the debt
		tx(2, domain.Expense, "20", now), // new charge grows it
	}

	assert.True(t, dec("170").Equal(domain.CurrentBalance(account, transactions)))
}

func TestComputeRunningSeries(t *testing.T) {
	account := domain.Account{AccountID: 1, Type: domain.Current, InitialBalance: dec("100")}
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	transactions := []domain.Transaction{
		tx(3, domain.Income, "10", base.Add(2*time.Hour)),
		tx(1, domain.Income, "50", base),
		tx(2, domain.Expense, "30", base.Add(time.Hour)),
	}

	entries := domain.ComputeRunningSeries(account, transactions)
	require.Len(t, entries, 3)

	// Display order is newest first.
	assert.Equal(t, int64(3), entries[0].Transaction.TransactionID)
	assert.Equal(t, int64(2), entries[1].Transaction.TransactionID)
	assert.Equal(t, int64(1), entries[2].Transaction.TransactionID)

	// Running balances follow the ascending fold: 150, 120, 130.
	assert.True(t, dec("150").Equal(entries[2].RunningBalance))
	assert.True(t, dec("120").Equal(entries[1].RunningBalance))
	assert.True(t, dec("130").Equal(entries[0].RunningBalance))

	// Newest entry's running balance equals the derived current balance.
	assert.True(t, entries[0].RunningBalance.Equal(domain.CurrentBalance(account, transactions)))
}

func TestComputeRunningSeriesBreaksTimestampTiesByID(t *testing.T) {
	account := domain.Account{AccountID: 1, Type: domain.Current, InitialBalance: dec("0")}
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	transactions := []domain.Transaction{
		tx(2, domain.Expense, "10", at),
		tx(1, domain.Income, "10", at),
	}

	entries := domain.ComputeRunningSeries(account, transactions)
	require.Len(t, entries, 2)

	// ID 1 folds first, so the newest entry (ID 2) carries the final balance.
	assert.Equal(t, int64(2), entries[0].Transaction.TransactionID)
	assert.True(t, dec("0").Equal(entries[0].RunningBalance))
	assert.True(t, dec("10").Equal(entries[1].RunningBalance))
}

func TestFilterEntriesKeepsRunningBalances(t *testing.T) {
	account := domain.Account{AccountID: 1, Type: domain.Current, InitialBalance: dec("0")}
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	transactions := []domain.Transaction{
		{TransactionID: 1, Description: "Groceries", Amount: dec("20"), Type: domain.Expense, Timestamp: base},
		{TransactionID: 2, Description: "Salary", Amount: dec("100"), Type: domain.Income, Timestamp: base.Add(time.Hour)},
		{TransactionID: 3, Description: "More groceries", Amount: dec("10"), Type: domain.Expense, Timestamp: base.Add(2 * time.Hour)},
	}

	entries := domain.ComputeRunningSeries(account, transactions)
	filtered := domain.FilterEntries(entries, "GROCER")

	require.Len(t, filtered, 2)
	assert.Equal(t, int64(3), filtered[0].Transaction.TransactionID)
	assert.Equal(t, int64(1), filtered[1].Transaction.TransactionID)
	// Balances were computed before filtering and stay untouched.
	assert.True(t, dec("70").Equal(filtered[0].RunningBalance))
	assert.True(t, dec("-20").Equal(filtered[1].RunningBalance))
}

func TestFilterEntriesBlankSearchReturnsAll(t *testing.T) {
	entries := []domain.LedgerEntry{{}, {}}
	assert.Len(t, domain.FilterEntries(entries, "   "), 2)
}

func TestConvertBalancesToBase(t *testing.T) {
	usd := domain.Currency{CurrencyID: 1, Code: "USD", Symbol: "$"}
	eur := domain.Currency{CurrencyID: 2, Code: "EUR", Symbol: "€"}
	jpy := domain.Currency{CurrencyID: 3, Code: "JPY", Symbol: "¥"}

	accounts := []domain.AccountView{
		{Account: domain.Account{AccountID: 10, CurrencyID: 1}, Currency: usd, CurrentBalance: dec("120")},
		{Account: domain.Account{AccountID: 20, CurrencyID: 2}, Currency: eur, CurrentBalance: dec("80")},
		{Account: domain.Account{AccountID: 30, CurrencyID: 3}, Currency: jpy, CurrentBalance: dec("1000")},
	}
	// Rates are foreign-units-per-base-unit; no JPY rate available.
	rates := map[string]decimal.Decimal{"EUR": dec("0.8")}

	amounts := domain.ConvertBalancesToBase(accounts, usd, rates)

	assert.True(t, dec("120").Equal(amounts[10]), "base-currency balance passes through")
	assert.True(t, dec("100").Equal(amounts[20]), "80 EUR / 0.8 = 100 USD")
	assert.True(t, dec("1000").Equal(amounts[30]), "missing rate falls back to raw balance")
}

func TestSummarizeOverview(t *testing.T) {
	usd := domain.Currency{CurrencyID: 1, Code: "USD"}
	overview := domain.AccountsOverview{
		Accounts: []domain.AccountView{
			{Account: domain.Account{AccountID: 1, Type: domain.Current}, Currency: usd, CurrentBalance: dec("100")},
			{Account: domain.Account{AccountID: 2, Type: domain.Savings}, Currency: usd, CurrentBalance: dec("500")},
			{Account: domain.Account{AccountID: 3, Type: domain.Debt}, Currency: usd, CurrentBalance: dec("250")},
		},
		BaseCurrency: &usd,
		BaseAmounts: map[int64]decimal.Decimal{
			1: dec("100"),
			2: dec("500"),
			3: dec("250"),
		},
		RatesAvailable: true,
	}

	summary := domain.SummarizeOverview(overview)

	assert.True(t, dec("100").Equal(summary.CurrentBalance))
	assert.True(t, dec("500").Equal(summary.SavingsBalance))
	assert.True(t, dec("250").Equal(summary.DebtBalance))
	assert.True(t, dec("600").Equal(summary.TotalAssets))
	assert.True(t, dec("250").Equal(summary.TotalDebt))
	assert.True(t, dec("350").Equal(summary.NetWorth))
	assert.True(t, summary.RatesAvailable)
}

func TestSummarizeOverviewFallsBackToRawBalances(t *testing.T) {
	overview := domain.AccountsOverview{
		Accounts: []domain.AccountView{
			{Account: domain.Account{AccountID: 1, Type: domain.Current}, CurrentBalance: dec("40")},
		},
		BaseAmounts: map[int64]decimal.Decimal{},
	}

	summary := domain.SummarizeOverview(overview)
	assert.True(t, dec("40").Equal(summary.CurrentBalance))
	assert.False(t, summary.RatesAvailable)
}
