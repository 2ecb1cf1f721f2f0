package dto

import (
	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// Type accepts the enum name or the display label; unknown values fall back
// to CURRENT. Position is assigned by the service, never by the caller.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	CurrencyID     int64           `json:"currencyID" binding:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Icon           string          `json:"icon"`
	Color          string          `json:"color"`
}

// UpdateAccountRequest is a full-record replace keyed by the path identity.
// The account's position is preserved across updates.
type UpdateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	CurrencyID     int64           `json:"currencyID" binding:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Icon           string          `json:"icon"`
	Color          string          `json:"color"`
}

// ReorderAccountsRequest supplies the full desired identity order for one
// type group. The contract is permissive: completeness and uniqueness are the
// caller's responsibility, and omitted accounts keep their old positions.
type ReorderAccountsRequest struct {
	Type       string  `json:"type" binding:"required"`
	OrderedIDs []int64 `json:"orderedIDs" binding:"required"`
}

// AccountViewResponse is an account with its resolved currency and derived balance.
type AccountViewResponse struct {
	AccountID      int64              `json:"accountID"`
	Name           string             `json:"name"`
	Type           domain.AccountType `json:"type"`
	Currency       CurrencyResponse   `json:"currency"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	CurrentBalance decimal.Decimal    `json:"currentBalance"`
	Position       int                `json:"position"`
	Icon           string             `json:"icon,omitempty"`
	Color          string             `json:"color,omitempty"`
}

// ToAccountViewResponse converts a domain.AccountView to its response DTO.
func ToAccountViewResponse(v domain.AccountView) AccountViewResponse {
	return AccountViewResponse{
		AccountID:      v.AccountID,
		Name:           v.Name,
		Type:           v.Type,
		Currency:       ToCurrencyResponse(v.Currency),
		InitialBalance: v.InitialBalance,
		CurrentBalance: v.CurrentBalance,
		Position:       v.Position,
		Icon:           v.Icon,
		Color:          v.Color,
	}
}

// ToListAccountViewResponse converts a slice of views to response DTOs.
func ToListAccountViewResponse(views []domain.AccountView) []AccountViewResponse {
	res := make([]AccountViewResponse, len(views))
	for i, v := range views {
		res[i] = ToAccountViewResponse(v)
	}
	return res
}

// AccountResponse mirrors a stored account record (no derived fields).
type AccountResponse struct {
	AccountID      int64              `json:"accountID"`
	Name           string             `json:"name"`
	Type           domain.AccountType `json:"type"`
	CurrencyID     int64              `json:"currencyID"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	Position       int                `json:"position"`
	Icon           string             `json:"icon,omitempty"`
	Color          string             `json:"color,omitempty"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		Name:           a.Name,
		Type:           a.Type,
		CurrencyID:     a.CurrencyID,
		InitialBalance: a.InitialBalance,
		Position:       a.Position,
		Icon:           a.Icon,
		Color:          a.Color,
	}
}
