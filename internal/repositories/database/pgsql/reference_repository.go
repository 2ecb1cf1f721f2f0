package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pfledger/finance_ledger_app/internal/apperrors"
	"github.com/pfledger/finance_ledger_app/internal/core/changes"
	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/pfledger/finance_ledger_app/internal/core/ports/repositories"
)

// PgxCurrencyRepository persists currencies in PostgreSQL.
type PgxCurrencyRepository struct {
	baseRepository
}

func newPgxCurrencyRepository(pool *pgxpool.Pool, broker *changes.Broker) portsrepo.CurrencyRepository {
	return &PgxCurrencyRepository{baseRepository{pool: pool, changes: broker}}
}

var _ portsrepo.CurrencyRepository = (*PgxCurrencyRepository)(nil)

// SaveCurrency inserts a new currency and returns its identity.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) (int64, error) {
	query := `
		INSERT INTO currencies (name, symbol, code)
		VALUES ($1, $2, $3)
		RETURNING currency_id;
	`
	var currencyID int64
	err := r.pool.QueryRow(ctx, query, currency.Name, currency.Symbol, currency.Code).Scan(&currencyID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return 0, fmt.Errorf("%w: currency code %s already exists", apperrors.ErrDuplicate, currency.Code)
		}
		return 0, fmt.Errorf("failed to save currency: %w", err)
	}

	r.publish(changes.KindCurrency)
	return currencyID, nil
}

// FindCurrencyByID retrieves a currency by its identity.
func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID int64) (*domain.Currency, error) {
	query := `SELECT currency_id, name, symbol, code FROM currencies WHERE currency_id = $1;`
	var currency domain.Currency
	err := r.pool.QueryRow(ctx, query, currencyID).Scan(&currency.CurrencyID, &currency.Name, &currency.Symbol, &currency.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency %d: %w", currencyID, err)
	}
	return &currency, nil
}

// ListCurrencies retrieves all currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.pool.Query(ctx, `SELECT currency_id, name, symbol, code FROM currencies ORDER BY code;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		var currency domain.Currency
		if err := rows.Scan(&currency.CurrencyID, &currency.Name, &currency.Symbol, &currency.Code); err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, currency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate currency rows: %w", err)
	}
	return currencies, nil
}

// PgxCategoryRepository persists categories in PostgreSQL.
type PgxCategoryRepository struct {
	baseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool, broker *changes.Broker) portsrepo.CategoryRepository {
	return &PgxCategoryRepository{baseRepository{pool: pool, changes: broker}}
}

var _ portsrepo.CategoryRepository = (*PgxCategoryRepository)(nil)

// SaveCategory inserts a new category and returns its identity.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) (int64, error) {
	var categoryID int64
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING category_id;`, category.Name).Scan(&categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to save category: %w", err)
	}

	r.publish(changes.KindCategory)
	return categoryID, nil
}

// FindCategoryByID retrieves a category by its identity.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID int64) (*domain.Category, error) {
	var category domain.Category
	err := r.pool.QueryRow(ctx, `SELECT category_id, name FROM categories WHERE category_id = $1;`, categoryID).
		Scan(&category.CategoryID, &category.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %d: %w", categoryID, err)
	}
	return &category, nil
}

// ListCategories retrieves all categories ordered by name.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT category_id, name FROM categories ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.CategoryID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	r.publish(changes.KindCategory)
	return nil
}

// PgxProfileRepository persists the singleton user profile in PostgreSQL.
// The table carries a unique singleton guard so at most one row can exist.
type PgxProfileRepository struct {
	baseRepository
}

func newPgxProfileRepository(pool *pgxpool.Pool, broker *changes.Broker) portsrepo.ProfileRepository {
	return &PgxProfileRepository{baseRepository{pool: pool, changes: broker}}
}

var _ portsrepo.ProfileRepository = (*PgxProfileRepository)(nil)

// GetProfile retrieves the profile, or apperrors.ErrNotFound when none exists.
func (r *PgxProfileRepository) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	query := `SELECT profile_id, name, base_currency_id, rate_api_key FROM user_profile LIMIT 1;`
	var profile domain.UserProfile
	err := r.pool.QueryRow(ctx, query).Scan(&profile.ProfileID, &profile.Name, &profile.BaseCurrencyID, &profile.RateAPIKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile inserts the profile for the first time and returns its identity.
func (r *PgxProfileRepository) SaveProfile(ctx context.Context, profile domain.UserProfile) (int64, error) {
	query := `
		INSERT INTO user_profile (name, base_currency_id, rate_api_key)
		VALUES ($1, $2, $3)
		RETURNING profile_id;
	`
	var profileID int64
	err := r.pool.QueryRow(ctx, query, profile.Name, profile.BaseCurrencyID, profile.RateAPIKey).Scan(&profileID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // singleton guard
			return 0, fmt.Errorf("%w: profile already exists", apperrors.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to save profile: %w", err)
	}

	r.publish(changes.KindProfile)
	return profileID, nil
}

// UpdateProfile replaces the existing profile record.
func (r *PgxProfileRepository) UpdateProfile(ctx context.Context, profile domain.UserProfile) error {
	query := `UPDATE user_profile SET name = $2, base_currency_id = $3, rate_api_key = $4 WHERE profile_id = $1;`
	tag, err := r.pool.Exec(ctx, query, profile.ProfileID, profile.Name, profile.BaseCurrencyID, profile.RateAPIKey)
	if err != nil {
		return fmt.Errorf("failed to update profile %d: %w", profile.ProfileID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	r.publish(changes.KindProfile)
	return nil
}
