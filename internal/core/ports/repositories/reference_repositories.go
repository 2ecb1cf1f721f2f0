package repositories

import (
	"context"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
)

// CurrencyRepository defines store operations for currency data.
type CurrencyRepository interface {
	// FindCurrencyByID retrieves a specific currency by its identity.
	FindCurrencyByID(ctx context.Context, currencyID int64) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// SaveCurrency persists a new currency and returns its identity.
	SaveCurrency(ctx context.Context, currency domain.Currency) (int64, error)
}

// CategoryRepository defines store operations for category data.
type CategoryRepository interface {
	// FindCategoryByID retrieves a specific category by its identity.
	FindCategoryByID(ctx context.Context, categoryID int64) (*domain.Category, error)

	// ListCategories retrieves all categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// SaveCategory persists a new category and returns its identity.
	SaveCategory(ctx context.Context, category domain.Category) (int64, error)

	// DeleteCategory removes a category by identity.
	DeleteCategory(ctx context.Context, categoryID int64) error
}

// ProfileRepository defines store operations for the singleton user profile.
type ProfileRepository interface {
	// GetProfile retrieves the profile, or apperrors.ErrNotFound when none
	// has been saved yet.
	GetProfile(ctx context.Context) (*domain.UserProfile, error)

	// SaveProfile persists the profile for the first time and returns its identity.
	SaveProfile(ctx context.Context, profile domain.UserProfile) (int64, error)

	// UpdateProfile replaces the existing profile record.
	UpdateProfile(ctx context.Context, profile domain.UserProfile) error
}
