package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/internal/licensing/store/drivers/postgres"
	"github.com/aussiebroadwan/licensing/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newContainerStore(t *testing.T) *postgres.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in -short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("licensing_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := postgres.NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestPostgresConcurrentClaimsHaveOneWinner(t *testing.T) {
	s := newContainerStore(t)
	ctx := context.Background()

	lic := domain.License{
		ID:           idx.New().String(),
		Key:          "RACE-RACE-RACE",
		DurationDays: 30,
		Status:       domain.LicenseActive,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.Licenses().CreateLicense(ctx, lic))
	require.ErrorIs(t, s.Licenses().CreateLicense(ctx, lic), store.ErrAlreadyExists)

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

	got, err := s.Licenses().GetLicenseByKey(ctx, lic.Key)
	require.NoError(t, err)
	require.Equal(t, domain.LicenseUsed, got.Status)
	require.Equal(t, winners[0], got.UsedByTenantID)

	counts, err := s.Licenses().CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.LicenseCounts{Used: 1}, counts)
}
