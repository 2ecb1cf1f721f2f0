package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction adds money or spends it.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Transaction represents a single movement against one account.
// Amount is always non-negative; the sign of its effect on the account balance
// comes from the account type and the transaction type.
type Transaction struct {
	TransactionID int64           `json:"transactionID"`
	AccountID     int64           `json:"accountID"`
	CategoryID    int64           `json:"categoryID"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
}

// IsIncome reports whether the transaction adds money to the account.
func (t Transaction) IsIncome() bool {
	return t.Type == Income
}
