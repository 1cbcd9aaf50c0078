package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/internal/licensing/store/drivers/sqlite"
	"github.com/aussiebroadwan/licensing/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "licensing.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newLicense(key string, createdAt time.Time) domain.License {
	return domain.License{
		ID:           idx.NewAt(createdAt).String(),
		Key:          key,
		DurationDays: 14,
		Status:       domain.LicenseActive,
		CreatedAt:    createdAt,
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestLicenses(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	lic := newLicense("ABCD-EFGH-IJKL", now)
	require.NoError(t, s.Licenses().CreateLicense(ctx, lic))

	t.Run("duplicate key", func(t *testing.T) {
		dup := newLicense("ABCD-EFGH-IJKL", now)
		require.ErrorIs(t, s.Licenses().CreateLicense(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := s.Licenses().GetLicenseByKey(ctx, "ABCD-EFGH-IJKL")
		require.NoError(t, err)
		require.Equal(t, lic.ID, got.ID)
		require.Equal(t, domain.LicenseActive, got.Status)
		require.Equal(t, 14, got.DurationDays)
		require.Empty(t, got.UsedByTenantID)
		require.Nil(t, got.UsedAt)
		require.True(t, now.Equal(got.CreatedAt))

		_, err = s.Licenses().GetLicenseByKey(ctx, "NOPE-0000-0000")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("claim once", func(t *testing.T) {
		claimed, err := s.Licenses().ClaimLicense(ctx, lic.ID, "tenant-1", now)
		require.NoError(t, err)
		require.Equal(t, domain.LicenseUsed, claimed.Status)
		require.Equal(t, "tenant-1", claimed.UsedByTenantID)
		require.NotNil(t, claimed.UsedAt)

		_, err = s.Licenses().ClaimLicense(ctx, lic.ID, "tenant-2", now)
		require.ErrorIs(t, err, store.ErrConflict)

		_, err = s.Licenses().ExpireLicense(ctx, lic.ID, now)
		require.ErrorIs(t, err, store.ErrConflict)

		got, err := s.Licenses().GetLicenseByID(ctx, lic.ID)
		require.NoError(t, err)
		require.Equal(t, "tenant-1", got.UsedByTenantID)
	})
}

func TestListLicensesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	keys := []string{"AAAA-AAAA-AAAA", "BBBB-BBBB-BBBB", "CCCC-CCCC-CCCC"}
	for i, k := range keys {
		require.NoError(t, s.Licenses().CreateLicense(ctx, newLicense(k, base.Add(time.Duration(i)*time.Hour))))
	}

	list, err := s.Licenses().ListLicenses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "CCCC-CCCC-CCCC", list[0].Key)
	require.Equal(t, "AAAA-AAAA-AAAA", list[2].Key)

	again, err := s.Licenses().ListLicenses(ctx)
	require.NoError(t, err)
	require.Equal(t, list, again)
}

func TestListLicensesEmpty(t *testing.T) {
	list, err := newTestStore(t).Licenses().ListLicenses(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestExpireStaleLicenses(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	old := newLicense("OLDA-OLDA-OLDA", now.AddDate(0, 0, -40))
	oldUsed := newLicense("OLDB-OLDB-OLDB", now.AddDate(0, 0, -40))
	fresh := newLicense("NEWA-NEWA-NEWA", now.AddDate(0, 0, -1))
	for _, l := range []domain.License{old, oldUsed, fresh} {
		require.NoError(t, s.Licenses().CreateLicense(ctx, l))
	}
	_, err := s.Licenses().ClaimLicense(ctx, oldUsed.ID, "tenant", now)
	require.NoError(t, err)

	n, err := s.Licenses().ExpireStaleLicenses(ctx, now.AddDate(0, 0, -30), now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := s.Licenses().GetLicenseByID(ctx, old.ID)
	require.NoError(t, err)
	require.Equal(t, domain.LicenseExpired, got.Status)
	require.NotNil(t, got.ExpiredAt)

	counts, err := s.Licenses().CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.LicenseCounts{Active: 1, Used: 1, Expired: 1}, counts)
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	lic := newLicense("RACE-RACE-RACE", time.Now().UTC())
	require.NoError(t, s.Licenses().CreateLicense(ctx, lic))

	const k = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		errs    []error
	)
	start := make(chan struct{})
	for range k {
		wg.Add(1)
		go func(tenant string) {
			defer wg.Done()
			<-start
			_, err := s.Licenses().ClaimLicense(ctx, lic.ID, tenant, time.Now())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			winners = append(winners, tenant)
		}(idx.New().String())
	}
	close(start)
	wg.Wait()

	require.Len(t, winners, 1)
	require.Len(t, errs, k-1)
	for _, err := range errs {
		require.ErrorIs(t, err, store.ErrConflict)
	}

	got, err := s.Licenses().GetLicenseByID(ctx, lic.ID)
	require.NoError(t, err)
	require.Equal(t, winners[0], got.UsedByTenantID)
}

func TestTenants(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	lic := newLicense("TENA-TENA-TENA", now)
	require.NoError(t, s.Licenses().CreateLicense(ctx, lic))

	tenant := domain.Tenant{
		ID:           idx.New().String(),
		LicenseID:    lic.ID,
		Name:         "Acme",
		Username:     "acme@x.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Phone:        "091",
		CreatedAt:    now,
		ExpiresAt:    lic.ValidUntil(now),
	}
	require.NoError(t, s.Tenants().CreateTenant(ctx, tenant))

	got, err := s.Tenants().GetTenantByUsername(ctx, "acme@x.com")
	require.NoError(t, err)
	require.Equal(t, tenant.ID, got.ID)
	require.True(t, tenant.ExpiresAt.Equal(got.ExpiresAt))

	_, err = s.Tenants().GetTenantByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	t.Run("username unique", func(t *testing.T) {
		other := newLicense("TENB-TENB-TENB", now)
		require.NoError(t, s.Licenses().CreateLicense(ctx, other))

		dup := tenant
		dup.ID = idx.New().String()
		dup.LicenseID = other.ID
		require.ErrorIs(t, s.Tenants().CreateTenant(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("license bound once", func(t *testing.T) {
		dup := tenant
		dup.ID = idx.New().String()
		dup.Username = "other@x.com"
		require.ErrorIs(t, s.Tenants().CreateTenant(ctx, dup), store.ErrAlreadyExists)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Licenses().CreateLicense(ctx, newLicense("TXTX-TXTX-TXTX", time.Now())))
		return store.ErrConflict
	})
	require.ErrorIs(t, err, store.ErrConflict)

	_, err = s.Licenses().GetLicenseByKey(ctx, "TXTX-TXTX-TXTX")
	require.ErrorIs(t, err, store.ErrNotFound)
}
