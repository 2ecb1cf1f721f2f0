package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pfledger/finance_ledger_app/internal/core/changes"
)

// baseRepository provides the shared pool handle and change publication used
// by all pgsql repositories. Publishing a kind after a successful write is
// what drives the derived-view recomputation cycle.
type baseRepository struct {
	pool    *pgxpool.Pool
	changes *changes.Broker
}

func (r *baseRepository) publish(kinds ...changes.Kind) {
	if r.changes == nil {
		return
	}
	for _, kind := range kinds {
		r.changes.Publish(kind)
	}
}
