package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/licensing/internal/licensing/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return mapErr(t.tx.Commit()) }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the outer Store owns the connection pool.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone // nested transactions are not supported
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Licenses() store.Licenses { return &licensesRepo{db: t.tx} }
func (t *txStore) Tenants() store.Tenants   { return &tenantsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil }
