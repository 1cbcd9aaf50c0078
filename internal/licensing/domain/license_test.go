package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/domain"
	"github.com/stretchr/testify/require"
)

func TestLicenseStatus(t *testing.T) {
	require.True(t, domain.LicenseActive.Valid())
	require.True(t, domain.LicenseUsed.Valid())
	require.True(t, domain.LicenseExpired.Valid())
	require.False(t, domain.LicenseStatus("revoked").Valid())

	require.True(t, domain.License{Status: domain.LicenseActive}.Redeemable())
	require.False(t, domain.License{Status: domain.LicenseUsed}.Redeemable())
	require.False(t, domain.License{Status: domain.LicenseExpired}.Redeemable())
}

func TestLicenseValidUntil(t *testing.T) {
	from := time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC)
	lic := domain.License{DurationDays: 14}
	require.Equal(t, time.Date(2025, 2, 13, 12, 0, 0, 0, time.UTC), lic.ValidUntil(from))
}

func TestLicenseCountsTotal(t *testing.T) {
	require.Equal(t, int64(6), domain.LicenseCounts{Active: 3, Used: 2, Expired: 1}.Total())
}
