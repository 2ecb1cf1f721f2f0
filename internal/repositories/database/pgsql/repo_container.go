package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pfledger/finance_ledger_app/internal/core/changes"
	portsrepo "github.com/pfledger/finance_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every PostgreSQL repository onto the shared
// pool and change broker.
func NewRepositoryProvider(pool *pgxpool.Pool, broker *changes.Broker) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(pool, broker),
		TransactionRepo: newPgxTransactionRepository(pool, broker),
		CurrencyRepo:    newPgxCurrencyRepository(pool, broker),
		CategoryRepo:    newPgxCategoryRepository(pool, broker),
		ProfileRepo:     newPgxProfileRepository(pool, broker),
		Changes:         broker,
	}
}
