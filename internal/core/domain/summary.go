package domain

import "github.com/shopspring/decimal"

// AccountsOverview extends the accounts view with base-currency conversion.
// BaseAmounts maps account identity to the balance expressed in the base
// currency, falling back to the account's own balance when no rate was
// available. RatesAvailable reports whether every needed conversion succeeded;
// it is false when no base currency is configured or a rate was missing, and
// the consumer decides how to render the unconverted figures.
type AccountsOverview struct {
	Accounts       []AccountView             `json:"accounts"`
	BaseCurrency   *Currency                 `json:"baseCurrency,omitempty"`
	BaseAmounts    map[int64]decimal.Decimal `json:"baseAmounts"`
	RatesAvailable bool                      `json:"ratesAvailable"`
}

// SummarySnapshot reduces an overview into per-type totals. Totals use the
// converted amounts when available and raw balances otherwise.
type SummarySnapshot struct {
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	SavingsBalance decimal.Decimal `json:"savingsBalance"`
	DebtBalance    decimal.Decimal `json:"debtBalance"`
	TotalAssets    decimal.Decimal `json:"totalAssets"`
	TotalDebt      decimal.Decimal `json:"totalDebt"`
	NetWorth       decimal.Decimal `json:"netWorth"`
	BaseCurrency   *Currency       `json:"baseCurrency,omitempty"`
	RatesAvailable bool            `json:"ratesAvailable"`
}

// SummarizeOverview computes the per-type totals and derived aggregates from
// an overview. totalAssets = current + savings; netWorth = assets − debt.
func SummarizeOverview(overview AccountsOverview) SummarySnapshot {
	totalFor := func(t AccountType) decimal.Decimal {
		total := decimal.Zero
		for _, acct := range overview.Accounts {
			if acct.Type != t {
				continue
			}
			amount, ok := overview.BaseAmounts[acct.AccountID]
			if !ok {
				amount = acct.CurrentBalance
			}
			total = total.Add(amount)
		}
		return total
	}

	current := totalFor(Current)
	savings := totalFor(Savings)
	debt := totalFor(Debt)
	assets := current.Add(savings)

	return SummarySnapshot{
		CurrentBalance: current,
		SavingsBalance: savings,
		DebtBalance:    debt,
		TotalAssets:    assets,
		TotalDebt:      debt,
		NetWorth:       assets.Sub(debt),
		BaseCurrency:   overview.BaseCurrency,
		RatesAvailable: overview.RatesAvailable,
	}
}
