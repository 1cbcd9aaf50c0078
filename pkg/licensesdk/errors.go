package licensesdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Stable error codes.
const (
	CodeInvalidInput           = "InvalidInput"
	CodeUsernameTaken          = "UsernameTaken"
	CodeLicenseNotFound        = "LicenseNotFound"
	CodeLicenseAlreadyUsed     = "LicenseAlreadyUsed"
	CodeLicenseExpired         = "LicenseExpired"
	CodeKeyGenerationExhausted = "KeyGenerationExhausted"
	CodeProvisioningFailed     = "ProvisioningFailed"
	CodeStorageUnavailable     = "StorageUnavailable"

	// Transport level codes, not produced by the licensing core.
	CodeUnauthorized      = "unauthorized"
	CodeInsufficientScope = "insufficient_scope"
	CodeRateLimited       = "rate_limit_exceeded"
	CodeInvalidAPIKey     = "invalid_api_key"
	CodeInternal          = "internal_error"
)

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("licensing: %s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("licensing: %s: %s", e.Code, e.Message)
}

// parseErrorResponse turns an error body into an *APIError. Both the
// {"error","message"} result shape and the {"error","error_description"}
// shape used by the auth and rate limit middleware are understood.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var payload struct {
		Code        string   `json:"error"`
		Message     string   `json:"message"`
		Description string   `json:"error_description"`
		Fields      []string `json:"fields"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       http.StatusText(resp.StatusCode),
			Message:    string(body),
		}
	}

	msg := payload.Message
	if msg == "" {
		msg = payload.Description
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       payload.Code,
		Message:    msg,
		Fields:     payload.Fields,
	}
}
