package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/internal/licensing/store/drivers/postgres"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var licenseCols = []string{"id", "key", "duration_days", "status", "used_by_tenant_id", "created_at", "used_at", "expired_at"}

func newMockStore(t *testing.T) (*postgres.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s := postgres.NewStoreFromDB(db)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = s.Close()
	})
	return s, mock
}

func TestCreateLicenseDuplicateKey(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO licenses").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "licenses_key_key"})

	err := s.Licenses().CreateLicense(context.Background(), domain.License{
		ID: "01J", Key: "ABCD-EFGH-IJKL", DurationDays: 14, Status: domain.LicenseActive, CreatedAt: time.Now(),
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestClaimLicense(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("guard matched", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`UPDATE licenses\s+SET status = 'used'`).
			WithArgs("tenant-1", now, "lic-1").
			WillReturnRows(sqlmock.NewRows(licenseCols).
				AddRow("lic-1", "ABCD-EFGH-IJKL", 14, "used", "tenant-1", now, now, nil))

		l, err := s.Licenses().ClaimLicense(context.Background(), "lic-1", "tenant-1", now)
		require.NoError(t, err)
		require.Equal(t, domain.LicenseUsed, l.Status)
		require.Equal(t, "tenant-1", l.UsedByTenantID)
		require.NotNil(t, l.UsedAt)
		require.Nil(t, l.ExpiredAt)
	})

	t.Run("guard missed", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`UPDATE licenses\s+SET status = 'used'`).
			WillReturnRows(sqlmock.NewRows(licenseCols))

		_, err := s.Licenses().ClaimLicense(context.Background(), "lic-1", "tenant-2", now)
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("connection lost", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`UPDATE licenses`).WillReturnError(errors.New("read tcp: connection reset by peer"))

		_, err := s.Licenses().ClaimLicense(context.Background(), "lic-1", "tenant-2", now)
		require.ErrorIs(t, err, store.ErrUnavailable)
		require.NotErrorIs(t, err, store.ErrConflict)
	})
}

func TestGetLicenseByKeyNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .* FROM licenses WHERE key = \$1`).
		WithArgs("NOPE-0000-0000").
		WillReturnRows(sqlmock.NewRows(licenseCols))

	_, err := s.Licenses().GetLicenseByKey(context.Background(), "NOPE-0000-0000")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetLicenseRejectsUnknownStatus(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .* FROM licenses WHERE key = \$1`).
		WithArgs("ABCD-EFGH-IJKL").
		WillReturnRows(sqlmock.NewRows(licenseCols).
			AddRow("lic-1", "ABCD-EFGH-IJKL", 14, "revoked", nil, time.Now(), nil, nil))

	_, err := s.Licenses().GetLicenseByKey(context.Background(), "ABCD-EFGH-IJKL")
	require.ErrorIs(t, err, store.ErrUnavailable)
	require.Contains(t, err.Error(), "revoked")
}

func TestCountByStatus(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\) FILTER`).
		WillReturnRows(sqlmock.NewRows([]string{"active", "used", "expired"}).AddRow(4, 2, 1))

	counts, err := s.Licenses().CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.LicenseCounts{Active: 4, Used: 2, Expired: 1}, counts)
}

func TestCreateTenantDuplicateUsername(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO tenants").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tenants_username_key"})

	err := s.Tenants().CreateTenant(context.Background(), domain.Tenant{ID: "t", LicenseID: "l", Username: "acme"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.Contains(t, err.Error(), "tenants_username_key")
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO licenses").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		require.NoError(t, tx.Licenses().CreateLicense(context.Background(), domain.License{
			ID: "01J", Key: "TXTX-TXTX-TXTX", DurationDays: 1, Status: domain.LicenseActive, CreatedAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)
}
