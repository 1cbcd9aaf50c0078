/*
Package licensesdk is the client SDK for the licensing service.

It carries the request and response types shared by the server and its
callers, plus a small HTTP client.

Operators exchange the service API key for a short-lived bearer token and
use it for license administration:

	client := licensesdk.NewClient("https://licensing.example.com")

	tok, err := client.IssueOperatorToken(ctx, apiKey)
	op := client.WithToken(tok.AccessToken)

	lic, err := op.GenerateLicense(ctx, 14)
	fmt.Println(lic.Key) // e.g. "7Q2M-K9ZD-40XA"

Registrants activate a tenant with a code they were handed. This call is
unauthenticated:

	res, err := client.ActivateTenant(ctx, licensesdk.ActivateTenantRequest{
		Name:       "Acme",
		Username:   "acme@example.com",
		Password:   "s3cret",
		LicenseKey: lic.Key,
	})

Failures come back as *APIError carrying the stable error code:

	var apiErr *licensesdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == licensesdk.CodeLicenseAlreadyUsed {
		// the code has already been redeemed
	}
*/
package licensesdk
