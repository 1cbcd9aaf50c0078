package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/events"
	"github.com/aussiebroadwan/licensing/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/pkg/cryptox"
	"github.com/aussiebroadwan/licensing/pkg/idx"
	"github.com/aussiebroadwan/licensing/pkg/slogx"
)

const (
	// MaxDurationDays caps how long a single code can license a tenant.
	MaxDurationDays = 3650

	// DefaultMaxKeyAttempts bounds key regeneration on collision.
	DefaultMaxKeyAttempts = 5
)

// KeyGenerator produces candidate license keys.
type KeyGenerator interface {
	NewKey() (string, error)
}

// KeyGeneratorFunc adapts a function to KeyGenerator.
type KeyGeneratorFunc func() (string, error)

func (f KeyGeneratorFunc) NewKey() (string, error) { return f() }

// LicenseRegistry owns the license code lifecycle. Claim is the only path
// from active to used; there is no path back.
type LicenseRegistry struct {
	Store          store.Store
	Keys           KeyGenerator // defaults to cryptox.GenerateLicenseKey
	MaxKeyAttempts int          // defaults to DefaultMaxKeyAttempts
	Events         events.Publisher
	Metrics        *metrics.Metrics
	Now            func() time.Time
}

func (r *LicenseRegistry) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *LicenseRegistry) newKey() (string, error) {
	if r.Keys != nil {
		return r.Keys.NewKey()
	}
	return cryptox.GenerateLicenseKey()
}

func (r *LicenseRegistry) publish(ctx context.Context, e events.Event) {
	if r.Events == nil {
		return
	}
	if err := r.Events.Publish(ctx, e); err != nil {
		slogx.FromContext(ctx).Warn("failed to publish event",
			slog.String("event", e.Type),
			slog.String("license_id", e.LicenseID),
			slog.Any("error", err),
		)
	}
}

// Generate issues a new active license code valid for durationDays once
// redeemed. A key that already exists is regenerated up to MaxKeyAttempts
// times.
func (r *LicenseRegistry) Generate(ctx context.Context, durationDays int) (domain.License, error) {
	log := slogx.FromContext(ctx)

	if durationDays <= 0 || durationDays > MaxDurationDays {
		log.Warn("rejected license duration", slog.Int("duration_days", durationDays))
		return domain.License{}, &Error{
			Kind:    KindInvalidInput,
			Message: "duration_days must be between 1 and 3650",
			Fields:  []string{"duration_days"},
		}
	}

	attempts := r.MaxKeyAttempts
	if attempts <= 0 {
		attempts = DefaultMaxKeyAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		key, err := r.newKey()
		if err != nil {
			log.Error("failed to generate license key", slog.Any("error", err))
			return domain.License{}, newError(KindKeyGenerationExhausted, "could not generate a license key", err)
		}

		now := r.now()
		lic := domain.License{
			ID:           idx.NewAt(now).String(),
			Key:          key,
			DurationDays: durationDays,
			Status:       domain.LicenseActive,
			CreatedAt:    now,
		}

		err = r.Store.Licenses().CreateLicense(ctx, lic)
		switch {
		case err == nil:
			r.Metrics.Generated()
			log.Info("license generated",
				slog.String("license_id", lic.ID),
				slog.Int("duration_days", durationDays),
				slog.Int("attempt", attempt),
			)
			r.publish(ctx, events.Event{
				Type:       events.TypeLicenseIssued,
				LicenseID:  lic.ID,
				Duration:   lic.DurationDays,
				OccurredAt: now,
			})
			return lic, nil
		case errors.Is(err, store.ErrAlreadyExists):
			r.Metrics.Collision()
			log.Warn("license key collision, regenerating", slog.Int("attempt", attempt))
		default:
			log.Error("failed to store license", slog.Any("error", err))
			return domain.License{}, storageError(err)
		}
	}

	log.Error("license key generation exhausted", slog.Int("attempts", attempts))
	return domain.License{}, newError(KindKeyGenerationExhausted,
		"could not find an unused license key", nil)
}

// ListAll returns every code, newest first, exactly as stored.
func (r *LicenseRegistry) ListAll(ctx context.Context) ([]domain.License, error) {
	list, err := r.Store.Licenses().ListLicenses(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list licenses", slog.Any("error", err))
		return nil, storageError(err)
	}
	return list, nil
}

// Get looks a code up by key.
func (r *LicenseRegistry) Get(ctx context.Context, key string) (domain.License, error) {
	key = cryptox.NormalizeLicenseKey(key)
	if key == "" {
		return domain.License{}, &Error{Kind: KindInvalidInput, Message: "license key is required", Fields: []string{"license_key"}}
	}
	return r.lookup(ctx, key)
}

func (r *LicenseRegistry) lookup(ctx context.Context, key string) (domain.License, error) {
	lic, err := r.Store.Licenses().GetLicenseByKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.License{}, newError(KindLicenseNotFound, "license code does not exist", err)
		}
		slogx.FromContext(ctx).Error("failed to fetch license", slog.Any("error", err))
		return domain.License{}, storageError(err)
	}
	return lic, nil
}

// Claim binds an active code to tenantID and marks it used. The transition
// is a single conditional update in the store; of any number of concurrent
// claims for one key at most one succeeds and the rest get Conflict or
// LicenseAlreadyUsed.
func (r *LicenseRegistry) Claim(ctx context.Context, key, tenantID string) (domain.License, error) {
	log := slogx.FromContext(ctx)

	key = cryptox.NormalizeLicenseKey(key)
	if key == "" || tenantID == "" {
		r.Metrics.Claim(metrics.OutcomeInvalid)
		return domain.License{}, &Error{Kind: KindInvalidInput, Message: "license key and tenant are required", Fields: []string{"license_key"}}
	}

	lic, err := r.lookup(ctx, key)
	if err != nil {
		r.Metrics.Claim(claimOutcome(err))
		return domain.License{}, err
	}

	if err := checkRedeemable(lic); err != nil {
		log.Warn("claim rejected",
			slog.String("license_id", lic.ID),
			slog.String("status", string(lic.Status)),
		)
		r.Metrics.Claim(claimOutcome(err))
		return domain.License{}, err
	}

	claimed, err := r.Store.Licenses().ClaimLicense(ctx, lic.ID, tenantID, r.now())
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			err = r.classifyLostClaim(ctx, lic.ID, err)
			log.Warn("claim lost to concurrent update",
				slog.String("license_id", lic.ID),
				slog.String("tenant_id", tenantID),
				slog.String("kind", string(KindOf(err))),
			)
			r.Metrics.Claim(claimOutcome(err))
			return domain.License{}, err
		}
		log.Error("failed to claim license", slog.String("license_id", lic.ID), slog.Any("error", err))
		r.Metrics.Claim(metrics.OutcomeError)
		return domain.License{}, storageError(err)
	}

	r.Metrics.Claim(metrics.OutcomeSuccess)
	log.Info("license claimed",
		slog.String("license_id", claimed.ID),
		slog.String("tenant_id", tenantID),
	)
	return claimed, nil
}

// Expire withdraws an unredeemed code. The read and the guarded update run
// in one transaction.
func (r *LicenseRegistry) Expire(ctx context.Context, key string) (domain.License, error) {
	log := slogx.FromContext(ctx)

	key = cryptox.NormalizeLicenseKey(key)
	if key == "" {
		return domain.License{}, &Error{Kind: KindInvalidInput, Message: "license key is required", Fields: []string{"license_key"}}
	}

	now := r.now()
	var expired domain.License
	err := r.Store.WithTx(ctx, func(tx store.Tx) error {
		lic, err := tx.Licenses().GetLicenseByKey(ctx, key)
		if err != nil {
			return err
		}
		if err := checkRedeemable(lic); err != nil {
			return err
		}
		expired, err = tx.Licenses().ExpireLicense(ctx, lic.ID, now)
		return err
	})
	if err != nil {
		var svcErr *Error
		switch {
		case errors.As(err, &svcErr):
			return domain.License{}, err
		case errors.Is(err, store.ErrNotFound):
			return domain.License{}, newError(KindLicenseNotFound, "license code does not exist", err)
		case errors.Is(err, store.ErrConflict):
			return domain.License{}, newError(KindConflict, "license code changed state concurrently", err)
		}
		log.Error("failed to expire license", slog.Any("error", err))
		return domain.License{}, storageError(err)
	}

	r.Metrics.Expired(1)
	log.Info("license expired", slog.String("license_id", expired.ID))
	r.publish(ctx, events.Event{Type: events.TypeLicenseExpired, LicenseID: expired.ID, OccurredAt: now})
	return expired, nil
}

// ExpireOlderThan expires every active code older than shelfLife and returns
// how many were moved.
func (r *LicenseRegistry) ExpireOlderThan(ctx context.Context, shelfLife time.Duration) (int64, error) {
	now := r.now()
	n, err := r.Store.Licenses().ExpireStaleLicenses(ctx, now.Add(-shelfLife), now)
	if err != nil {
		return 0, storageError(err)
	}
	r.Metrics.Expired(int(n))
	return n, nil
}

// Stats counts codes per status.
func (r *LicenseRegistry) Stats(ctx context.Context) (domain.LicenseCounts, error) {
	counts, err := r.Store.Licenses().CountByStatus(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to count licenses", slog.Any("error", err))
		return domain.LicenseCounts{}, storageError(err)
	}
	return counts, nil
}

func checkRedeemable(lic domain.License) error {
	if lic.Redeemable() {
		return nil
	}
	if lic.Status == domain.LicenseUsed {
		return newError(KindLicenseAlreadyUsed, "license code has already been used", nil)
	}
	return newError(KindLicenseExpired, "license code has expired", nil)
}

// classifyLostClaim re-reads a code whose guarded update matched no row. A
// code expired in between is reported as expired; anything else stays a
// Conflict.
func (r *LicenseRegistry) classifyLostClaim(ctx context.Context, id string, cause error) error {
	lic, err := r.Store.Licenses().GetLicenseByID(ctx, id)
	if err == nil && lic.Status == domain.LicenseExpired {
		return newError(KindLicenseExpired, "license code has expired", cause)
	}
	return newError(KindConflict, "license code was claimed by another request", cause)
}

func claimOutcome(err error) string {
	switch KindOf(err) {
	case KindLicenseNotFound:
		return metrics.OutcomeNotFound
	case KindLicenseAlreadyUsed:
		return metrics.OutcomeAlreadyUsed
	case KindLicenseExpired:
		return metrics.OutcomeExpired
	case KindConflict:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
