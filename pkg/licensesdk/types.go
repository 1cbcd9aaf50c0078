package licensesdk

import "time"

// License status values.
const (
	StatusActive  = "active"
	StatusUsed    = "used"
	StatusExpired = "expired"
)

// ErrorResponse is the failure variant of every result. Success is always
// false; Code is one of the Code* constants.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Code    string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// LicenseView is the caller-facing shape of a license code.
type LicenseView struct {
	ID             string     `json:"id"`
	Key            string     `json:"key"`
	DurationDays   int        `json:"duration_days"`
	Status         string     `json:"status"`
	UsedByTenantID string     `json:"used_by_tenant_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
	ExpiredAt      *time.Time `json:"expired_at,omitempty"`
}

// GenerateLicenseRequest asks for a new license code.
type GenerateLicenseRequest struct {
	DurationDays int `json:"duration_days"`
}

// GenerateLicenseResponse is the success variant of license generation.
type GenerateLicenseResponse struct {
	Success bool        `json:"success"`
	Key     string      `json:"key"`
	License LicenseView `json:"license"`
}

// LicenseResponse wraps a single license lookup or transition.
type LicenseResponse struct {
	Success bool        `json:"success"`
	License LicenseView `json:"license"`
}

// ListLicensesResponse lists every license, newest first.
type ListLicensesResponse struct {
	Licenses []LicenseView `json:"licenses"`
}

// StatsResponse counts licenses per status.
type StatsResponse struct {
	Active  int64 `json:"active"`
	Used    int64 `json:"used"`
	Expired int64 `json:"expired"`
	Total   int64 `json:"total"`
}

// ActivateTenantRequest redeems a license code for a new tenant.
type ActivateTenantRequest struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	LicenseKey string `json:"license_key"`
}

// TenantView is a provisioned tenant. The credential is never included.
type TenantView struct {
	ID        string    `json:"id"`
	LicenseID string    `json:"license_id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActivateTenantResponse is the success variant of tenant activation.
type ActivateTenantResponse struct {
	Success bool       `json:"success"`
	Tenant  TenantView `json:"tenant"`
}

// OperatorTokenResponse carries an operator bearer token.
type OperatorTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency probed by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Events   string `json:"events,omitempty"`
}
