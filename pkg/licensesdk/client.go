package licensesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the licensing service. The zero token is fine for the
// unauthenticated calls; operator calls need a client from WithToken.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

// NewClient returns a client for baseURL with a 10s request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// IssueOperatorToken exchanges the operator API key for a bearer token.
func (c *Client) IssueOperatorToken(ctx context.Context, apiKey string) (*OperatorTokenResponse, error) {
	form := url.Values{"api_key": {apiKey}}
	resp, err := c.do(ctx, http.MethodPost, "/v1/operator/token",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	var out OperatorTokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateLicense creates a license code valid for durationDays once redeemed.
func (c *Client) GenerateLicense(ctx context.Context, durationDays int) (*GenerateLicenseResponse, error) {
	var out GenerateLicenseResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/licenses",
		GenerateLicenseRequest{DurationDays: durationDays}, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLicenses returns every license code, newest first.
func (c *Client) ListLicenses(ctx context.Context) (*ListLicensesResponse, error) {
	var out ListLicensesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/licenses", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLicense looks a license code up by key.
func (c *Client) GetLicense(ctx context.Context, key string) (*LicenseResponse, error) {
	var out LicenseResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/licenses/"+url.PathEscape(key), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpireLicense withdraws an unredeemed license code.
func (c *Client) ExpireLicense(ctx context.Context, key string) (*LicenseResponse, error) {
	var out LicenseResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/licenses/"+url.PathEscape(key)+"/expire", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// LicenseStats returns license counts per status.
func (c *Client) LicenseStats(ctx context.Context) (*StatsResponse, error) {
	var out StatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/licenses/stats", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivateTenant redeems a license code and provisions a tenant.
func (c *Client) ActivateTenant(ctx context.Context, req ActivateTenantRequest) (*ActivateTenantResponse, error) {
	var out ActivateTenantResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tenants/activate", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks that the service process is up.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks that the service can reach its dependencies.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, expected int) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, expected)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func decodeJSON(resp *http.Response, target any, expected int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expected {
		return parseErrorResponse(resp, body)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
