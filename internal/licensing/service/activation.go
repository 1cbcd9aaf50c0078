package service

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/internal/licensing/events"
	"github.com/aussiebroadwan/licensing/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/pkg/idx"
	"github.com/aussiebroadwan/licensing/pkg/slogx"
	"github.com/go-playground/validator/v10"
)

// Hasher turns a plaintext password into a storable credential.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

type activationInput struct {
	Name       string `json:"name" validate:"required,max=200"`
	Username   string `json:"username" validate:"required,max=320"`
	Password   string `json:"password" validate:"required,max=1024"`
	Phone      string `json:"phone" validate:"omitempty,max=40"`
	LicenseKey string `json:"license_key" validate:"required,max=64"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// TenantActivationService redeems a license code for a new tenant and its
// administrator account.
//
// The claim commits before the tenant row is written. If provisioning fails
// afterwards the code stays used and the failure is reported as
// ProvisioningFailed; nothing releases the code automatically.
type TenantActivationService struct {
	Store    store.Store
	Registry *LicenseRegistry
	Hasher   Hasher
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

func (s *TenantActivationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Activate validates the registrant, claims licenseKey and provisions the
// tenant. Every failure is an *Error.
func (s *TenantActivationService) Activate(ctx context.Context, reg domain.Registrant, licenseKey string) (domain.Tenant, error) {
	tenant, err := s.activate(ctx, reg, licenseKey)
	s.Metrics.Activation(activationOutcome(err))
	return tenant, err
}

func (s *TenantActivationService) activate(ctx context.Context, reg domain.Registrant, licenseKey string) (domain.Tenant, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate.
	in := activationInput{
		Name:       strings.TrimSpace(reg.Name),
		Username:   strings.ToLower(strings.TrimSpace(reg.Username)),
		Password:   strings.TrimSpace(reg.Password),
		Phone:      strings.TrimSpace(reg.Phone),
		LicenseKey: strings.TrimSpace(licenseKey),
	}
	if err := validate.Struct(in); err != nil {
		fields := invalidFields(err)
		log.Warn("activation rejected: invalid input", slog.Any("fields", fields))
		return domain.Tenant{}, &Error{
			Kind:    KindInvalidInput,
			Message: "missing or invalid fields",
			Fields:  fields,
			Err:     err,
		}
	}

	// 2. Username must be free.
	_, err := s.Store.Tenants().GetTenantByUsername(ctx, in.Username)
	switch {
	case err == nil:
		log.Warn("activation rejected: username taken", slog.String("username", in.Username))
		return domain.Tenant{}, newError(KindUsernameTaken, "username is already registered", nil)
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to check username", slog.Any("error", err))
		return domain.Tenant{}, storageError(err)
	}

	// 3. Claim the code for a provisional tenant id.
	now := s.now()
	tenantID := idx.NewAt(now).String()

	lic, err := s.Registry.Claim(ctx, in.LicenseKey, tenantID)
	if err != nil {
		if KindOf(err) == KindConflict {
			return domain.Tenant{}, &Error{
				Kind:    KindLicenseAlreadyUsed,
				Message: "license code has already been used",
				Err:     err,
			}
		}
		return domain.Tenant{}, err
	}

	// 4. Provision. From here on the code is consumed whatever happens.
	tenant, err := s.provision(ctx, lic, tenantID, in, reg.Password, now)
	if err != nil {
		log.Error("tenant provisioning failed after license claim",
			slog.String("license_id", lic.ID),
			slog.String("tenant_id", tenantID),
			slog.Any("error", err),
		)
		return domain.Tenant{}, newError(KindProvisioningFailed,
			"the license was accepted but the tenant could not be created, contact support", err)
	}

	log.Info("tenant activated",
		slog.String("tenant_id", tenant.ID),
		slog.String("license_id", lic.ID),
		slog.Time("expires_at", tenant.ExpiresAt),
	)
	if s.Events != nil {
		if err := s.Events.Publish(ctx, events.Event{
			Type:       events.TypeTenantActivated,
			LicenseID:  lic.ID,
			TenantID:   tenant.ID,
			Username:   tenant.Username,
			Duration:   lic.DurationDays,
			OccurredAt: now,
		}); err != nil {
			log.Warn("failed to publish event", slog.String("event", events.TypeTenantActivated), slog.Any("error", err))
		}
	}

	// 5. Never hand the credential back.
	tenant.PasswordHash = ""
	return tenant, nil
}

func (s *TenantActivationService) provision(
	ctx context.Context,
	lic domain.License,
	tenantID string,
	in activationInput,
	password string,
	now time.Time,
) (domain.Tenant, error) {
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.Tenant{}, err
	}

	tenant := domain.Tenant{
		ID:           tenantID,
		LicenseID:    lic.ID,
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: hash,
		Phone:        in.Phone,
		CreatedAt:    now,
		ExpiresAt:    lic.ValidUntil(now),
	}
	if err := s.Store.Tenants().CreateTenant(ctx, tenant); err != nil {
		return domain.Tenant{}, err
	}
	return tenant, nil
}

func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func activationOutcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	switch KindOf(err) {
	case KindInvalidInput:
		return metrics.OutcomeInvalid
	case KindUsernameTaken:
		return metrics.OutcomeTaken
	case KindProvisioningFailed:
		return metrics.OutcomeProvision
	default:
		return claimOutcome(err)
	}
}
