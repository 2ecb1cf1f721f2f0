package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account for balance computation and grouping.
type AccountType string

const (
	Current AccountType = "CURRENT"
	Savings AccountType = "SAVINGS"
	Debt    AccountType = "DEBT"
)

// DisplayName returns the human-readable label for the account type.
func (t AccountType) DisplayName() string {
	switch t {
	case Savings:
		return "Savings & Investments"
	case Debt:
		return "Debt"
	default:
		return "Current"
	}
}

// AccountTypeFromRaw resolves a stored or user-supplied label to an AccountType.
// It matches the type name or the display name, ignoring case and surrounding
// whitespace, and falls back to Current for anything it does not recognise.
func AccountTypeFromRaw(raw string) AccountType {
	trimmed := strings.TrimSpace(raw)
	for _, t := range []AccountType{Current, Savings, Debt} {
		if strings.EqualFold(trimmed, string(t)) || strings.EqualFold(trimmed, t.DisplayName()) {
			return t
		}
	}
	return Current
}

// BalanceImpact returns the signed contribution of a single transaction to an
// account of this type. Income grows CURRENT/SAVINGS balances and shrinks DEBT
// (a payment reduces what is owed); expenses do the opposite. The function is
// total: unknown types behave like CURRENT.
func (t AccountType) BalanceImpact(isIncome bool, amount decimal.Decimal) decimal.Decimal {
	if t == Debt {
		if isIncome {
			return amount.Neg()
		}
		return amount
	}
	if isIncome {
		return amount
	}
	return amount.Neg()
}

// Account represents a financial account within the core domain.
// CurrentBalance is never stored; it is derived from InitialBalance plus the
// balance impact of every transaction referencing the account.
type Account struct {
	AccountID      int64           `json:"accountID"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	CurrencyID     int64           `json:"currencyID"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Position       int             `json:"position"` // dense zero-based rank within the type group
	Icon           string          `json:"icon,omitempty"`
	Color          string          `json:"color,omitempty"`
}
