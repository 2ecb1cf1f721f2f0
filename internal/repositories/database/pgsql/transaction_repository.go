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

// PgxTransactionRepository persists transactions in PostgreSQL.
type PgxTransactionRepository struct {
	baseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool, broker *changes.Broker) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{baseRepository{pool: pool, changes: broker}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, account_id, category_id, description, amount, tx_type, occurred_at`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var tx domain.Transaction
	var txType string
	err := row.Scan(
		&tx.TransactionID,
		&tx.AccountID,
		&tx.CategoryID,
		&tx.Description,
		&tx.Amount,
		&txType,
		&tx.Timestamp,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	tx.Type = domain.TransactionType(txType)
	return tx, nil
}

// SaveTransaction inserts a new transaction and returns its identity.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx domain.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (account_id, category_id, description, amount, tx_type, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING transaction_id;
	`
	var transactionID int64
	err := r.pool.QueryRow(ctx, query,
		tx.AccountID,
		tx.CategoryID,
		tx.Description,
		tx.Amount,
		string(tx.Type),
		tx.Timestamp,
	).Scan(&transactionID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return 0, fmt.Errorf("%w: account %d does not exist", apperrors.ErrValidation, tx.AccountID)
		}
		return 0, fmt.Errorf("failed to save transaction: %w", err)
	}

	r.publish(changes.KindTransaction)
	return transactionID, nil
}

// FindTransactionByID retrieves a transaction by its identity.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %d: %w", transactionID, err)
	}
	return &tx, nil
}

// ListTransactions retrieves every transaction ordered by timestamp descending.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY occurred_at DESC, transaction_id DESC;`
	return r.queryTransactions(ctx, query)
}

// ListTransactionsForAccount retrieves the account's transactions ordered by
// timestamp descending.
func (r *PgxTransactionRepository) ListTransactionsForAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 ORDER BY occurred_at DESC, transaction_id DESC;`
	return r.queryTransactions(ctx, query, accountID)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return transactions, nil
}

// UpdateTransaction replaces an existing transaction record.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, tx domain.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $2, category_id = $3, description = $4, amount = $5, tx_type = $6, occurred_at = $7
		WHERE transaction_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		tx.TransactionID,
		tx.AccountID,
		tx.CategoryID,
		tx.Description,
		tx.Amount,
		string(tx.Type),
		tx.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %d: %w", tx.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	r.publish(changes.KindTransaction)
	return nil
}

// DeleteTransaction removes a single transaction.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	r.publish(changes.KindTransaction)
	return nil
}
