package domain

// Currency represents a supported currency in the domain.
// The identity is the stable key; Code is an ISO-like code such as "USD" and is
// unique in practice. A currency is immutable once referenced by an account.
type Currency struct {
	CurrencyID int64  `json:"currencyID"`
	Name       string `json:"name"`   // e.g., "US Dollar"
	Symbol     string `json:"symbol"` // e.g., "$"
	Code       string `json:"code"`   // e.g., "USD"
}

// Category labels a transaction. There is no hierarchy.
type Category struct {
	CategoryID int64  `json:"categoryID"`
	Name       string `json:"name"`
}
