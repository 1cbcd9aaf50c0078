package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
)

const licenseColumns = `id, key, duration_days, status, used_by_tenant_id, created_at, used_at, expired_at`

type licensesRepo struct {
	db dbtx
}

func (r *licensesRepo) CreateLicense(ctx context.Context, l domain.License) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO licenses (id, key, duration_days, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.Key, l.DurationDays, string(l.Status), l.CreatedAt.UTC())
	return mapErr(err)
}

func (r *licensesRepo) GetLicenseByID(ctx context.Context, id string) (domain.License, error) {
	return scanLicense(r.db.QueryRowContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE id = $1`, id))
}

func (r *licensesRepo) GetLicenseByKey(ctx context.Context, key string) (domain.License, error) {
	return scanLicense(r.db.QueryRowContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE key = $1`, key))
}

func (r *licensesRepo) ListLicenses(ctx context.Context) ([]domain.License, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]domain.License, 0)
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, mapErr(rows.Err())
}

// ClaimLicense is a single guarded UPDATE; postgres row locking lets exactly
// one concurrent caller see the row still active.
func (r *licensesRepo) ClaimLicense(ctx context.Context, id, tenantID string, at time.Time) (domain.License, error) {
	l, err := scanLicense(r.db.QueryRowContext(ctx, `
UPDATE licenses
SET status = 'used', used_by_tenant_id = $1, used_at = $2
WHERE id = $3 AND status = 'active'
RETURNING `+licenseColumns, tenantID, at.UTC(), id))
	if errors.Is(err, store.ErrNotFound) {
		return domain.License{}, store.ErrConflict
	}
	return l, err
}

func (r *licensesRepo) ExpireLicense(ctx context.Context, id string, at time.Time) (domain.License, error) {
	l, err := scanLicense(r.db.QueryRowContext(ctx, `
UPDATE licenses
SET status = 'expired', expired_at = $1
WHERE id = $2 AND status = 'active'
RETURNING `+licenseColumns, at.UTC(), id))
	if errors.Is(err, store.ErrNotFound) {
		return domain.License{}, store.ErrConflict
	}
	return l, err
}

func (r *licensesRepo) ExpireStaleLicenses(ctx context.Context, cutoff, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE licenses
SET status = 'expired', expired_at = $1
WHERE status = 'active' AND created_at < $2`, at.UTC(), cutoff.UTC())
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	return n, mapErr(err)
}

func (r *licensesRepo) CountByStatus(ctx context.Context) (domain.LicenseCounts, error) {
	var c domain.LicenseCounts
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*) FILTER (WHERE status = 'active'),
    COUNT(*) FILTER (WHERE status = 'used'),
    COUNT(*) FILTER (WHERE status = 'expired')
FROM licenses`).Scan(&c.Active, &c.Used, &c.Expired)
	if err != nil {
		return domain.LicenseCounts{}, mapErr(err)
	}
	return c, nil
}

func scanLicense(row rowScanner) (domain.License, error) {
	var (
		l         domain.License
		status    string
		usedBy    sql.NullString
		usedAt    sql.NullTime
		expiredAt sql.NullTime
	)
	if err := row.Scan(&l.ID, &l.Key, &l.DurationDays, &status, &usedBy, &l.CreatedAt, &usedAt, &expiredAt); err != nil {
		return domain.License{}, mapErr(err)
	}
	l.Status = domain.LicenseStatus(status)
	if !l.Status.Valid() {
		return domain.License{}, fmt.Errorf("%w: unknown license status %q", store.ErrUnavailable, status)
	}
	l.UsedByTenantID = usedBy.String
	l.CreatedAt = l.CreatedAt.UTC()
	if usedAt.Valid {
		t := usedAt.Time.UTC()
		l.UsedAt = &t
	}
	if expiredAt.Valid {
		t := expiredAt.Time.UTC()
		l.ExpiredAt = &t
	}
	return l, nil
}
