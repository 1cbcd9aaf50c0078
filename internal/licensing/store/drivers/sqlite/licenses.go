package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
)

type licensesRepo struct {
	db dbtx
}

func (r *licensesRepo) CreateLicense(ctx context.Context, l domain.License) error {
	_, err := r.db.ExecContext(ctx, createLicense,
		l.ID, l.Key, l.DurationDays, string(l.Status), utc(l.CreatedAt))
	return mapErr(err)
}

func (r *licensesRepo) GetLicenseByID(ctx context.Context, id string) (domain.License, error) {
	return scanLicense(r.db.QueryRowContext(ctx, getLicenseByID, id))
}

func (r *licensesRepo) GetLicenseByKey(ctx context.Context, key string) (domain.License, error) {
	return scanLicense(r.db.QueryRowContext(ctx, getLicenseByKey, key))
}

func (r *licensesRepo) ListLicenses(ctx context.Context) ([]domain.License, error) {
	rows, err := r.db.QueryContext(ctx, listLicenses)
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

// ClaimLicense relies on the status guard in the UPDATE: of any number of
// concurrent claims only the first to take the write lock changes a row.
func (r *licensesRepo) ClaimLicense(ctx context.Context, id, tenantID string, at time.Time) (domain.License, error) {
	res, err := r.db.ExecContext(ctx, claimLicense, tenantID, utc(at), id)
	if err != nil {
		return domain.License{}, mapErr(err)
	}
	if err := requireOneRow(res); err != nil {
		return domain.License{}, err
	}
	return r.GetLicenseByID(ctx, id)
}

func (r *licensesRepo) ExpireLicense(ctx context.Context, id string, at time.Time) (domain.License, error) {
	res, err := r.db.ExecContext(ctx, expireLicense, utc(at), id)
	if err != nil {
		return domain.License{}, mapErr(err)
	}
	if err := requireOneRow(res); err != nil {
		return domain.License{}, err
	}
	return r.GetLicenseByID(ctx, id)
}

func (r *licensesRepo) ExpireStaleLicenses(ctx context.Context, cutoff, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, expireStaleLicenses, utc(at), utc(cutoff))
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	return n, mapErr(err)
}

func (r *licensesRepo) CountByStatus(ctx context.Context) (domain.LicenseCounts, error) {
	rows, err := r.db.QueryContext(ctx, countLicensesByStatus)
	if err != nil {
		return domain.LicenseCounts{}, mapErr(err)
	}
	defer rows.Close()

	var counts domain.LicenseCounts
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return domain.LicenseCounts{}, mapErr(err)
		}
		switch domain.LicenseStatus(status) {
		case domain.LicenseActive:
			counts.Active = n
		case domain.LicenseUsed:
			counts.Used = n
		case domain.LicenseExpired:
			counts.Expired = n
		}
	}
	return counts, mapErr(rows.Err())
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func scanLicense(row rowScanner) (domain.License, error) {
	var (
		l         domain.License
		status    string
		usedBy    sql.NullString
		usedAt    sql.NullTime
		expiredAt sql.NullTime
	)
	err := row.Scan(&l.ID, &l.Key, &l.DurationDays, &status, &usedBy, &l.CreatedAt, &usedAt, &expiredAt)
	if err != nil {
		return domain.License{}, mapErr(err)
	}
	l.Status = domain.LicenseStatus(status)
	if !l.Status.Valid() {
		return domain.License{}, fmt.Errorf("%w: unknown license status %q", store.ErrUnavailable, status)
	}
	l.UsedByTenantID = nullString(usedBy)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UsedAt = nullTimePtr(usedAt)
	l.ExpiredAt = nullTimePtr(expiredAt)
	return l, nil
}
