package service

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/events"
	"github.com/aussiebroadwan/licensing/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/internal/licensing/store/drivers/sqlite"
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

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

type fixture struct {
	store      store.Store
	events     *events.MemoryPublisher
	metrics    *metrics.Metrics
	registry   *LicenseRegistry
	activation *TenantActivationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, newTestStore(t))
}

func newFixtureWithStore(t *testing.T, s store.Store) *fixture {
	t.Helper()

	pub := &events.MemoryPublisher{}
	m := metrics.New()
	reg := &LicenseRegistry{Store: s, Events: pub, Metrics: m}
	return &fixture{
		store:    s,
		events:   pub,
		metrics:  m,
		registry: reg,
		activation: &TenantActivationService{
			Store:    s,
			Registry: reg,
			Hasher:   plainHasher{},
			Events:   pub,
			Metrics:  m,
		},
	}
}

func acme() domain.Registrant {
	return domain.Registrant{Name: "Acme", Username: "acme@x.com", Password: "p1", Phone: "091"}
}

// storeWrapper lets a test swap out individual repositories.
type storeWrapper struct {
	store.Store
	licenses store.Licenses
	tenants  store.Tenants
}

func (w *storeWrapper) Licenses() store.Licenses {
	if w.licenses != nil {
		return w.licenses
	}
	return w.Store.Licenses()
}

func (w *storeWrapper) Tenants() store.Tenants {
	if w.tenants != nil {
		return w.tenants
	}
	return w.Store.Tenants()
}

// conflictingLicenses reports every claim as lost to a concurrent writer.
type conflictingLicenses struct {
	store.Licenses
}

func (conflictingLicenses) ClaimLicense(context.Context, string, string, time.Time) (domain.License, error) {
	return domain.License{}, store.ErrConflict
}

// brokenTenants fails every insert.
type brokenTenants struct {
	store.Tenants
	err error
}

func (b brokenTenants) CreateTenant(context.Context, domain.Tenant) error { return b.err }

// expiringLicenses expires the code just before the guarded claim runs, as
// a concurrent operator would.
type expiringLicenses struct {
	store.Licenses
}

func (e expiringLicenses) ClaimLicense(ctx context.Context, id, tenantID string, at time.Time) (domain.License, error) {
	if _, err := e.Licenses.ExpireLicense(ctx, id, at); err != nil {
		return domain.License{}, err
	}
	return e.Licenses.ClaimLicense(ctx, id, tenantID, at)
}

// txCountingStore counts transactions opened through WithTx.
type txCountingStore struct {
	store.Store
	txs atomic.Int32
}

func (c *txCountingStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	c.txs.Add(1)
	return c.Store.WithTx(ctx, fn)
}
