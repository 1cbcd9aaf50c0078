package licensing_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensing/pkg/licensesdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and assertions shared by the licensing end-to-end tests.
 */

const (
	testImageName = "licensing-test:latest"

	operatorAPIKey = "test-operator-key-12345"
	tokenSecret    = "e2e-secret-0123456789abcdef0123456789"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Licensing Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Licensing Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/licensing/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run()
}

// generousLimits lifts the production rate limits so tests can make many
// rapid requests.
var generousLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupLicensingContainer starts the service and returns its base URL.
func setupLicensingContainer(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, generousLimits)
}

// setupLicensingContainerWithDefaultRateLimits keeps production limits.
func setupLicensingContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"OPERATOR_API_KEY":      operatorAPIKey,
		"OPERATOR_TOKEN_SECRET": tokenSecret,
		"DATABASE_FILE":         "/data/licensing.db",
		"PEPPER_FILE":           "/data/pepper",
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// operatorClient returns a client carrying a freshly issued operator token.
func operatorClient(t *testing.T, baseURL string) *licensesdk.Client {
	t.Helper()

	client := licensesdk.NewClient(baseURL)
	tok, err := client.IssueOperatorToken(context.Background(), operatorAPIKey)
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)
	return client.WithToken(tok.AccessToken)
}

// assertAPIError checks err is an *APIError with the given status and code.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	require.Error(t, err)
	var apiErr *licensesdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *licensesdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code)
}

func registrant(username, key string) licensesdk.ActivateTenantRequest {
	return licensesdk.ActivateTenantRequest{
		Name:       "Acme",
		Username:   username,
		Password:   "p1",
		Phone:      "091",
		LicenseKey: key,
	}
}
