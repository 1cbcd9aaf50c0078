package domain

import "time"

// Tenant is an organisation provisioned by redeeming a license code. The
// username and credential belong to its administrator account.
type Tenant struct {
	ID           string
	LicenseID    string
	Name         string
	Username     string // lower-cased, unique
	PasswordHash string // argon2id, PHC encoded
	Phone        string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Registrant is what a prospective tenant submits on activation.
type Registrant struct {
	Name     string
	Username string
	Password string
	Phone    string
}
