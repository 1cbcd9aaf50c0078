package domain

import "time"

// LicenseStatus is the lifecycle state of a license code. The only
// transitions are active → used and active → expired.
type LicenseStatus string

const (
	LicenseActive  LicenseStatus = "active"
	LicenseUsed    LicenseStatus = "used"
	LicenseExpired LicenseStatus = "expired"
)

func (s LicenseStatus) Valid() bool {
	switch s {
	case LicenseActive, LicenseUsed, LicenseExpired:
		return true
	}
	return false
}

// License is a single-use activation code.
type License struct {
	ID             string
	Key            string // XXXX-XXXX-XXXX, unique
	DurationDays   int    // validity granted to the tenant on redemption
	Status         LicenseStatus
	UsedByTenantID string // empty until claimed
	CreatedAt      time.Time
	UsedAt         *time.Time
	ExpiredAt      *time.Time
}

// Redeemable reports whether the code can still be claimed.
func (l License) Redeemable() bool { return l.Status == LicenseActive }

// ValidUntil is when a tenant provisioned at from stops being licensed.
func (l License) ValidUntil(from time.Time) time.Time {
	return from.AddDate(0, 0, l.DurationDays)
}

// LicenseCounts is the number of codes in each status.
type LicenseCounts struct {
	Active  int64
	Used    int64
	Expired int64
}

func (c LicenseCounts) Total() int64 { return c.Active + c.Used + c.Expired }
