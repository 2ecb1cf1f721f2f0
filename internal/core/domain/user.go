package domain

// UserProfile is the singleton owner profile. At most one exists; it is
// created lazily on the first settings save and updated in place afterwards.
// BaseCurrencyID selects the reference currency for conversion and summary
// totals. RateAPIKey is the optional credential for the external rate API.
type UserProfile struct {
	ProfileID      int64  `json:"profileID"`
	Name           string `json:"name"`
	BaseCurrencyID int64  `json:"baseCurrencyID"`
	RateAPIKey     string `json:"-"`
}
