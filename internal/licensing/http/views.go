package http

import (
	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/aussiebroadwan/licensing/pkg/licensesdk"
)

func licenseView(l domain.License) licensesdk.LicenseView {
	return licensesdk.LicenseView{
		ID:             l.ID,
		Key:            l.Key,
		DurationDays:   l.DurationDays,
		Status:         string(l.Status),
		UsedByTenantID: l.UsedByTenantID,
		CreatedAt:      l.CreatedAt,
		UsedAt:         l.UsedAt,
		ExpiredAt:      l.ExpiredAt,
	}
}

// Never carries the password hash.
func tenantView(t domain.Tenant) licensesdk.TenantView {
	return licensesdk.TenantView{
		ID:        t.ID,
		LicenseID: t.LicenseID,
		Name:      t.Name,
		Username:  t.Username,
		Phone:     t.Phone,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}
