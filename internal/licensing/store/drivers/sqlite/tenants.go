package sqlite

import (
	"context"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
)

type tenantsRepo struct {
	db dbtx
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	_, err := r.db.ExecContext(ctx, createTenant,
		t.ID, t.LicenseID, t.Name, t.Username, t.PasswordHash, t.Phone,
		utc(t.CreatedAt), utc(t.ExpiresAt))
	return mapErr(err)
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	return scanTenant(r.db.QueryRowContext(ctx, getTenantByID, id))
}

func (r *tenantsRepo) GetTenantByUsername(ctx context.Context, username string) (domain.Tenant, error) {
	return scanTenant(r.db.QueryRowContext(ctx, getTenantByUsername, username))
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(&t.ID, &t.LicenseID, &t.Name, &t.Username, &t.PasswordHash, &t.Phone, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return domain.Tenant{}, mapErr(err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.ExpiresAt = t.ExpiresAt.UTC()
	return t, nil
}
