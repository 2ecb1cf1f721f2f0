package dto

import (
	"time"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// Amount must be non-negative; the sign of its balance effect comes from the
// account type and the transaction type. A zero Timestamp means "now".
type CreateTransactionRequest struct {
	AccountID   int64                  `json:"accountID" binding:"required"`
	CategoryID  int64                  `json:"categoryID" binding:"required"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Timestamp   time.Time              `json:"timestamp"`
}

// UpdateTransactionRequest is a full-record replace keyed by the path identity.
type UpdateTransactionRequest struct {
	AccountID   int64                  `json:"accountID" binding:"required"`
	CategoryID  int64                  `json:"categoryID" binding:"required"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Timestamp   time.Time              `json:"timestamp" binding:"required"`
}

// TransactionResponse mirrors a stored transaction record.
type TransactionResponse struct {
	TransactionID int64                  `json:"transactionID"`
	AccountID     int64                  `json:"accountID"`
	CategoryID    int64                  `json:"categoryID"`
	Description   string                 `json:"description"`
	Amount        decimal.Decimal        `json:"amount"`
	Type          domain.TransactionType `json:"type"`
	Timestamp     time.Time              `json:"timestamp"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		CategoryID:    t.CategoryID,
		Description:   t.Description,
		Amount:        t.Amount,
		Type:          t.Type,
		Timestamp:     t.Timestamp,
	}
}
