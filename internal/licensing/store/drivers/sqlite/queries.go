package sqlite

import (
	"context"
	"database/sql"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so repos work in and out
// of a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const licenseColumns = `id, key, duration_days, status, used_by_tenant_id, created_at, used_at, expired_at`

const (
	createLicense = `
INSERT INTO licenses (id, key, duration_days, status, created_at)
VALUES (?, ?, ?, ?, ?)`

	getLicenseByID = `SELECT ` + licenseColumns + ` FROM licenses WHERE id = ?`

	getLicenseByKey = `SELECT ` + licenseColumns + ` FROM licenses WHERE key = ?`

	listLicenses = `SELECT ` + licenseColumns + ` FROM licenses ORDER BY created_at DESC, id DESC`

	claimLicense = `
UPDATE licenses
SET status = 'used', used_by_tenant_id = ?, used_at = ?
WHERE id = ? AND status = 'active'`

	expireLicense = `
UPDATE licenses
SET status = 'expired', expired_at = ?
WHERE id = ? AND status = 'active'`

	expireStaleLicenses = `
UPDATE licenses
SET status = 'expired', expired_at = ?
WHERE status = 'active' AND created_at < ?`

	countLicensesByStatus = `SELECT status, COUNT(*) FROM licenses GROUP BY status`
)

const tenantColumns = `id, license_id, name, username, password_hash, phone, created_at, expires_at`

const (
	createTenant = `
INSERT INTO tenants (` + tenantColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	getTenantByID = `SELECT ` + tenantColumns + ` FROM tenants WHERE id = ?`

	getTenantByUsername = `SELECT ` + tenantColumns + ` FROM tenants WHERE username = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}
