package postgres

import (
	"context"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
)

const tenantColumns = `id, license_id, name, username, password_hash, phone, created_at, expires_at`

type tenantsRepo struct {
	db dbtx
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenants (`+tenantColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.LicenseID, t.Name, t.Username, t.PasswordHash, t.Phone, t.CreatedAt.UTC(), t.ExpiresAt.UTC())
	return mapErr(err)
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	return scanTenant(r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

func (r *tenantsRepo) GetTenantByUsername(ctx context.Context, username string) (domain.Tenant, error) {
	return scanTenant(r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE username = $1`, username))
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	if err := row.Scan(&t.ID, &t.LicenseID, &t.Name, &t.Username, &t.PasswordHash, &t.Phone, &t.CreatedAt, &t.ExpiresAt); err != nil {
		return domain.Tenant{}, mapErr(err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.ExpiresAt = t.ExpiresAt.UTC()
	return t, nil
}
