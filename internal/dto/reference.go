package dto

import "github.com/pfledger/finance_ledger_app/internal/core/domain"

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse mirrors a stored category.
type CategoryResponse struct {
	CategoryID int64  `json:"categoryID"`
	Name       string `json:"name"`
}

// ToCategoryResponse converts a domain.Category to its response DTO.
func ToCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{CategoryID: c.CategoryID, Name: c.Name}
}

// ToListCategoryResponse converts a slice of categories to response DTOs.
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		res[i] = ToCategoryResponse(c)
	}
	return res
}

// CreateCurrencyRequest defines the data needed to register a currency.
type CreateCurrencyRequest struct {
	Name   string `json:"name" binding:"required"`
	Symbol string `json:"symbol" binding:"required"`
	Code   string `json:"code" binding:"required,len=3,alpha"`
}

// CurrencyResponse mirrors a stored currency.
type CurrencyResponse struct {
	CurrencyID int64  `json:"currencyID"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Code       string `json:"code"`
}

// ToCurrencyResponse converts a domain.Currency to its response DTO.
func ToCurrencyResponse(c domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID: c.CurrencyID,
		Name:       c.Name,
		Symbol:     c.Symbol,
		Code:       c.Code,
	}
}

// ToListCurrencyResponse converts a slice of currencies to response DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		res[i] = ToCurrencyResponse(c)
	}
	return res
}

// UpsertProfileRequest creates the profile on first save and updates it in
// place afterwards. RateAPIKey may be blank; conversion is then skipped.
type UpsertProfileRequest struct {
	Name           string `json:"name" binding:"required"`
	BaseCurrencyID int64  `json:"baseCurrencyID" binding:"required"`
	RateAPIKey     string `json:"rateAPIKey"`
}

// ProfileResponse mirrors the stored profile. The credential itself is never
// echoed back, only whether one is configured.
type ProfileResponse struct {
	ProfileID      int64  `json:"profileID"`
	Name           string `json:"name"`
	BaseCurrencyID int64  `json:"baseCurrencyID"`
	HasRateAPIKey  bool   `json:"hasRateAPIKey"`
}

// ToProfileResponse converts a domain.UserProfile to its response DTO.
func ToProfileResponse(p *domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		ProfileID:      p.ProfileID,
		Name:           p.Name,
		BaseCurrencyID: p.BaseCurrencyID,
		HasRateAPIKey:  p.RateAPIKey != "",
	}
}
