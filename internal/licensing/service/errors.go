package service

import (
	"errors"
	"strings"
)

// Kind is the stable, caller-visible classification of a failure.
type Kind string

const (
	KindInvalidInput           Kind = "InvalidInput"
	KindUsernameTaken          Kind = "UsernameTaken"
	KindLicenseNotFound        Kind = "LicenseNotFound"
	KindLicenseAlreadyUsed     Kind = "LicenseAlreadyUsed"
	KindLicenseExpired         Kind = "LicenseExpired"
	KindKeyGenerationExhausted Kind = "KeyGenerationExhausted"
	KindProvisioningFailed     Kind = "ProvisioningFailed"
	KindStorageUnavailable     Kind = "StorageUnavailable"

	// KindConflict is a claim lost to a concurrent claim. Activation reports
	// it to callers as KindLicenseAlreadyUsed.
	KindConflict Kind = "Conflict"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrUsernameTaken          = errors.New("username already taken")
	ErrLicenseNotFound        = errors.New("license not found")
	ErrLicenseAlreadyUsed     = errors.New("license already used")
	ErrLicenseExpired         = errors.New("license expired")
	ErrKeyGenerationExhausted = errors.New("license key generation exhausted")
	ErrProvisioningFailed     = errors.New("tenant provisioning failed")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrConflict               = errors.New("license claimed concurrently")
)

var sentinels = map[Kind]error{
	KindInvalidInput:           ErrInvalidInput,
	KindUsernameTaken:          ErrUsernameTaken,
	KindLicenseNotFound:        ErrLicenseNotFound,
	KindLicenseAlreadyUsed:     ErrLicenseAlreadyUsed,
	KindLicenseExpired:         ErrLicenseExpired,
	KindKeyGenerationExhausted: ErrKeyGenerationExhausted,
	KindProvisioningFailed:     ErrProvisioningFailed,
	KindStorageUnavailable:     ErrStorageUnavailable,
	KindConflict:               ErrConflict,
}

// Error is returned by every service operation. Message is safe to show to
// callers; Err holds the underlying cause for logs and errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string // offending input fields, InvalidInput only
	Err     error
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return e.Message + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Message
}

// Unwrap exposes both the kind's sentinel and the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := sentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the kind of the outermost *Error in err's chain, or ""
// when err is not a service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldsOf returns the offending input fields of an InvalidInput error.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

func storageError(cause error) *Error {
	return newError(KindStorageUnavailable, "the license store is unavailable, try again later", cause)
}
