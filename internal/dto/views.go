package dto

import (
	"time"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OverviewResponse is the accounts view extended with base-currency amounts.
type OverviewResponse struct {
	Accounts       []AccountViewResponse     `json:"accounts"`
	BaseCurrency   *CurrencyResponse         `json:"baseCurrency,omitempty"`
	BaseAmounts    map[int64]decimal.Decimal `json:"baseAmounts"`
	RatesAvailable bool                      `json:"ratesAvailable"`
}

// ToOverviewResponse converts a domain.AccountsOverview to its response DTO.
func ToOverviewResponse(o domain.AccountsOverview) OverviewResponse {
	res := OverviewResponse{
		Accounts:       ToListAccountViewResponse(o.Accounts),
		BaseAmounts:    o.BaseAmounts,
		RatesAvailable: o.RatesAvailable,
	}
	if o.BaseCurrency != nil {
		base := ToCurrencyResponse(*o.BaseCurrency)
		res.BaseCurrency = &base
	}
	return res
}

// SummaryResponse carries the per-type totals and derived aggregates.
type SummaryResponse struct {
	CurrentBalance decimal.Decimal   `json:"currentBalance"`
	SavingsBalance decimal.Decimal   `json:"savingsBalance"`
	DebtBalance    decimal.Decimal   `json:"debtBalance"`
	TotalAssets    decimal.Decimal   `json:"totalAssets"`
	TotalDebt      decimal.Decimal   `json:"totalDebt"`
	NetWorth       decimal.Decimal   `json:"netWorth"`
	BaseCurrency   *CurrencyResponse `json:"baseCurrency,omitempty"`
	RatesAvailable bool              `json:"ratesAvailable"`
}

// ToSummaryResponse converts a domain.SummarySnapshot to its response DTO.
func ToSummaryResponse(s domain.SummarySnapshot) SummaryResponse {
	res := SummaryResponse{
		CurrentBalance: s.CurrentBalance,
		SavingsBalance: s.SavingsBalance,
		DebtBalance:    s.DebtBalance,
		TotalAssets:    s.TotalAssets,
		TotalDebt:      s.TotalDebt,
		NetWorth:       s.NetWorth,
		RatesAvailable: s.RatesAvailable,
	}
	if s.BaseCurrency != nil {
		base := ToCurrencyResponse(*s.BaseCurrency)
		res.BaseCurrency = &base
	}
	return res
}

// LedgerEntryResponse is one history row: a transaction with its signed
// change and the balance immediately after it.
type LedgerEntryResponse struct {
	TransactionID  int64           `json:"transactionID"`
	Timestamp      time.Time       `json:"timestamp"`
	Description    string          `json:"description"`
	Change         decimal.Decimal `json:"change"`
	IsIncome       bool            `json:"isIncome"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// HistoryResponse is the transaction-history view for one account.
type HistoryResponse struct {
	AccountID      int64                 `json:"accountID"`
	AccountMissing bool                  `json:"accountMissing"`
	AccountName    string                `json:"accountName,omitempty"`
	CurrencySymbol string                `json:"currencySymbol,omitempty"`
	CurrentBalance decimal.Decimal       `json:"currentBalance"`
	SearchText     string                `json:"searchText,omitempty"`
	Entries        []LedgerEntryResponse `json:"entries"`
}

// ToHistoryResponse converts a domain.TransactionHistory to its response DTO.
func ToHistoryResponse(h domain.TransactionHistory) HistoryResponse {
	entries := make([]LedgerEntryResponse, len(h.Entries))
	for i, e := range h.Entries {
		entries[i] = LedgerEntryResponse{
			TransactionID:  e.Transaction.TransactionID,
			Timestamp:      e.Transaction.Timestamp,
			Description:    e.Transaction.Description,
			Change:         e.Change,
			IsIncome:       e.Transaction.IsIncome(),
			RunningBalance: e.RunningBalance,
		}
	}
	return HistoryResponse{
		AccountID:      h.AccountID,
		AccountMissing: h.AccountMissing,
		AccountName:    h.AccountName,
		CurrencySymbol: h.CurrencySymbol,
		CurrentBalance: h.CurrentBalance,
		SearchText:     h.SearchText,
		Entries:        entries,
	}
}
