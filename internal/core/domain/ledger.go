package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountView is an account joined with its resolved currency and the balance
// derived from its transaction set.
type AccountView struct {
	Account
	Currency       Currency        `json:"currency"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// LedgerEntry is one transaction annotated with its signed balance change and
// the account balance immediately after it.
type LedgerEntry struct {
	Transaction    Transaction     `json:"transaction"`
	Change         decimal.Decimal `json:"change"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// TransactionHistory is the derived view behind the account detail screen.
// AccountMissing is set instead of failing when the account no longer exists
// or its currency cannot be resolved.
type TransactionHistory struct {
	AccountID      int64           `json:"accountID"`
	AccountMissing bool            `json:"accountMissing"`
	AccountName    string          `json:"accountName,omitempty"`
	AccountType    AccountType     `json:"accountType,omitempty"`
	CurrencySymbol string          `json:"currencySymbol,omitempty"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	SearchText     string          `json:"searchText,omitempty"`
	Entries        []LedgerEntry   `json:"entries"`
}

// CurrentBalance folds the balance impact of every transaction onto the
// account's initial balance. The fold is commutative, so the order of the
// transaction slice does not matter.
func CurrentBalance(account Account, transactions []Transaction) decimal.Decimal {
	balance := account.InitialBalance
	for _, tx := range transactions {
		balance = balance.Add(account.Type.BalanceImpact(tx.IsIncome(), tx.Amount))
	}
	return balance
}

// ComputeRunningSeries folds balance impacts over the account's transactions
// in ascending timestamp order, starting from the initial balance, and returns
// the annotated entries in descending timestamp order for display. Timestamp
// ties are broken by transaction identity so the fold is deterministic.
func ComputeRunningSeries(account Account, transactions []Transaction) []LedgerEntry {
	ascending := make([]Transaction, len(transactions))
	copy(ascending, transactions)
	sort.SliceStable(ascending, func(i, j int) bool {
		if !ascending[i].Timestamp.Equal(ascending[j].Timestamp) {
			return ascending[i].Timestamp.Before(ascending[j].Timestamp)
		}
		return ascending[i].TransactionID < ascending[j].TransactionID
	})

	running := account.InitialBalance
	entries := make([]LedgerEntry, 0, len(ascending))
	for _, tx := range ascending {
		change := account.Type.BalanceImpact(tx.IsIncome(), tx.Amount)
		running = running.Add(change)
		entries = append(entries, LedgerEntry{
			Transaction:    tx,
			Change:         change,
			RunningBalance: running,
		})
	}

	// Present newest first; the computed running balances are unchanged.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// FilterEntries keeps the entries whose description contains search,
// case-insensitively. It filters the presentation list only: running balances
// were computed before filtering and are never recomputed here.
func FilterEntries(entries []LedgerEntry, search string) []LedgerEntry {
	if strings.TrimSpace(search) == "" {
		return entries
	}
	needle := strings.ToLower(search)
	filtered := make([]LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Transaction.Description), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// ConvertBalancesToBase maps every account to its balance expressed in the
// base currency. A rate is foreign-units-per-base-unit, so a foreign balance
// divided by its rate yields the base amount. Accounts already in the base
// currency, and accounts whose rate is missing or non-positive, keep their own
// balance unchanged.
func ConvertBalancesToBase(accounts []AccountView, base Currency, rates map[string]decimal.Decimal) map[int64]decimal.Decimal {
	amounts := make(map[int64]decimal.Decimal, len(accounts))
	for _, acct := range accounts {
		amount := acct.CurrentBalance
		if acct.Currency.CurrencyID != base.CurrencyID {
			if rate, ok := rates[strings.ToUpper(acct.Currency.Code)]; ok && rate.IsPositive() {
				amount = acct.CurrentBalance.Div(rate)
			}
		}
		amounts[acct.AccountID] = amount
	}
	return amounts
}
