package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict means a conditional update matched no row because the
	// record left the expected state between read and write.
	ErrConflict = errors.New("store: conflicting update")

	// ErrUnavailable wraps connectivity and driver failures.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Sub-repositories are reached through methods so a Tx
// scoped store can hand out the same repos bound to the transaction.
type Store interface {
	Licenses() Licenses
	Tenants() Tenants

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Licenses interface {
	// CreateLicense inserts a new code. A duplicate key is ErrAlreadyExists.
	CreateLicense(ctx context.Context, l domain.License) error

	GetLicenseByID(ctx context.Context, id string) (domain.License, error)

	// GetLicenseByKey expects an already normalised key.
	GetLicenseByKey(ctx context.Context, key string) (domain.License, error)

	// ListLicenses returns every code, newest first.
	ListLicenses(ctx context.Context) ([]domain.License, error)

	// ClaimLicense moves an active code to used and binds it to tenantID in
	// a single conditional update. ErrConflict when the code was no longer
	// active.
	ClaimLicense(ctx context.Context, id, tenantID string, at time.Time) (domain.License, error)

	// ExpireLicense moves an active code to expired. ErrConflict when the
	// code was no longer active.
	ExpireLicense(ctx context.Context, id string, at time.Time) (domain.License, error)

	// ExpireStaleLicenses expires every active code created before cutoff and
	// returns how many were moved.
	ExpireStaleLicenses(ctx context.Context, cutoff, at time.Time) (int64, error)

	CountByStatus(ctx context.Context) (domain.LicenseCounts, error)
}

type Tenants interface {
	// CreateTenant inserts a tenant. A duplicate username or license is
	// ErrAlreadyExists.
	CreateTenant(ctx context.Context, t domain.Tenant) error

	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)

	// GetTenantByUsername expects an already lower-cased username.
	GetTenantByUsername(ctx context.Context, username string) (domain.Tenant, error)
}
