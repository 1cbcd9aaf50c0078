package licensing_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/licensing/pkg/licensesdk"
	"github.com/stretchr/testify/require"
)

func TestOperatorEndpointsRejectAnonymousCallers(t *testing.T) {
	baseURL, cleanup := setupLicensingContainer(t)
	defer cleanup()

	ctx := context.Background()
	anon := licensesdk.NewClient(baseURL)

	_, err := anon.GenerateLicense(ctx, 14)
	assertAPIError(t, err, http.StatusUnauthorized, licensesdk.CodeUnauthorized)

	_, err = anon.ListLicenses(ctx)
	assertAPIError(t, err, http.StatusUnauthorized, licensesdk.CodeUnauthorized)

	_, err = anon.WithToken("forged.token.value").ListLicenses(ctx)
	assertAPIError(t, err, http.StatusUnauthorized, licensesdk.CodeUnauthorized)

	_, err = anon.IssueOperatorToken(ctx, "wrong-key")
	assertAPIError(t, err, http.StatusUnauthorized, licensesdk.CodeInvalidAPIKey)
}

func TestActivationIsRateLimited(t *testing.T) {
	baseURL, cleanup := setupLicensingContainerWithDefaultRateLimits(t)
	defer cleanup()

	ctx := context.Background()
	client := licensesdk.NewClient(baseURL)

	var limited bool
	for range 10 {
		_, err := client.ActivateTenant(ctx, registrant("acme@x.com", "NOPE-0000-0000"))
		var apiErr *licensesdk.APIError
		require.ErrorAs(t, err, &apiErr)
		if apiErr.StatusCode == http.StatusTooManyRequests {
			require.Equal(t, licensesdk.CodeRateLimited, apiErr.Code)
			limited = true
			break
		}
	}
	require.True(t, limited, "expected activation to be rate limited")
}

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupLicensingContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := licensesdk.NewClient(baseURL)

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
