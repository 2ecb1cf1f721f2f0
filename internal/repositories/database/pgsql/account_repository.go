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

// PgxAccountRepository persists accounts in PostgreSQL.
type PgxAccountRepository struct {
	baseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool, broker *changes.Broker) portsrepo.AccountRepository {
	return &PgxAccountRepository{baseRepository{pool: pool, changes: broker}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, name, account_type, currency_id, initial_balance, "position", icon, color`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acct domain.Account
	var accountType string
	err := row.Scan(
		&acct.AccountID,
		&acct.Name,
		&accountType,
		&acct.CurrencyID,
		&acct.InitialBalance,
		&acct.Position,
		&acct.Icon,
		&acct.Color,
	)
	if err != nil {
		return domain.Account{}, err
	}
	acct.Type = domain.AccountTypeFromRaw(accountType)
	return acct, nil
}

// SaveAccount inserts a new account and returns its generated identity.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (int64, error) {
	query := `
		INSERT INTO accounts (name, account_type, currency_id, initial_balance, "position", icon, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING account_id;
	`
	var accountID int64
	err := r.pool.QueryRow(ctx, query,
		account.Name,
		string(account.Type),
		account.CurrencyID,
		account.InitialBalance,
		account.Position,
		account.Icon,
		account.Color,
	).Scan(&accountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return 0, fmt.Errorf("%w: currency %d does not exist", apperrors.ErrValidation, account.CurrencyID)
		}
		return 0, fmt.Errorf("failed to save account: %w", err)
	}

	r.publish(changes.KindAccount)
	return accountID, nil
}

// FindAccountByID retrieves an account by its identity.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acct, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %d: %w", accountID, err)
	}
	return &acct, nil
}

// ListAccounts retrieves every account ordered by position then name. Gaps in
// positions between a delete and the next reorder are tolerated by ordering
// on the raw value.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY "position", name;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}
	return accounts, nil
}

// MaxPositionForType returns the highest position in the type group, or -1
// when the group is empty.
func (r *PgxAccountRepository) MaxPositionForType(ctx context.Context, accountType domain.AccountType) (int, error) {
	query := `SELECT COALESCE(MAX("position"), -1) FROM accounts WHERE account_type = $1;`
	var maxPosition int
	if err := r.pool.QueryRow(ctx, query, string(accountType)).Scan(&maxPosition); err != nil {
		return 0, fmt.Errorf("failed to find max position for type %s: %w", accountType, err)
	}
	return maxPosition, nil
}

// UpdateAccount replaces an existing account record.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, account_type = $3, currency_id = $4, initial_balance = $5, "position" = $6, icon = $7, color = $8
		WHERE account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		string(account.Type),
		account.CurrencyID,
		account.InitialBalance,
		account.Position,
		account.Icon,
		account.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	r.publish(changes.KindAccount)
	return nil
}

// ReorderPositions writes position = index for each identity in order, in a
// single transaction. Identities omitted from the list keep their previous
// positions.
func (r *PgxAccountRepository) ReorderPositions(ctx context.Context, orderedIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for index, accountID := range orderedIDs {
		if _, err := tx.Exec(ctx, `UPDATE accounts SET "position" = $2 WHERE account_id = $1;`, accountID, index); err != nil {
			return fmt.Errorf("failed to set position %d for account %d: %w", index, accountID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	r.publish(changes.KindAccount)
	return nil
}

// DeleteAccountWithTransactions deletes the account's transactions and then
// the account itself in one transaction, so a failed cascade never leaves the
// account half-deleted.
func (r *PgxAccountRepository) DeleteAccountWithTransactions(ctx context.Context, accountID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE account_id = $1;`, accountID); err != nil {
		return fmt.Errorf("failed to delete transactions for account %d: %w", accountID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %d: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account delete: %w", err)
	}

	r.publish(changes.KindTransaction, changes.KindAccount)
	return nil
}
