package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/licensing/internal/licensing/service"
	"github.com/aussiebroadwan/licensing/pkg/httpx"
	"github.com/aussiebroadwan/licensing/pkg/licensesdk"
	"github.com/aussiebroadwan/licensing/pkg/slogx"
)

// OperatorTokenHandler serves POST /v1/operator/token.
type OperatorTokenHandler struct {
	OperatorService *service.OperatorService
}

// ServeHTTP godoc
//
//	@Summary		Operator Token Endpoint
//	@Description	Exchanges the operator API key for a short-lived bearer token with licenses:read and licenses:write scopes.
//	@Tags			Operator
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			api_key	formData	string							true	"Operator API key"
//	@Success		200		{object}	licensesdk.OperatorTokenResponse	"access_token, token_type, expires_in, scope"
//	@Failure		400		{object}	licensesdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	licensesdk.ErrorResponse			"error, error_description"
//	@Failure		503		{object}	licensesdk.ErrorResponse			"error, error_description"
//	@Header			200		{string}	Cache-Control						"no-store"
//	@Router			/v1/operator/token [post].
func (h *OperatorTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Content-Type must be application/x-www-form-urlencoded")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Invalid form body")
		return
	}

	tok, err := h.OperatorService.IssueToken(ctx, r.PostForm.Get("api_key"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAPIKey):
			writeOAuthError(w, http.StatusUnauthorized, licensesdk.CodeInvalidAPIKey, "Invalid API key")
		case errors.Is(err, service.ErrOperatorAuthDisabled):
			writeOAuthError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "Operator access is not configured")
		default:
			log.Error("failed to issue operator token", "err", err)
			writeOAuthError(w, http.StatusInternalServerError, "server_error", "Failed to issue token")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.OperatorTokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(tok.ExpiresIn.Seconds()),
		Scope:       strings.Join(tok.Scopes, " "),
	})
}

func writeOAuthError(w http.ResponseWriter, status int, code, desc string) {
	httpx.WriteJSON(w, status, map[string]string{
		"error":             code,
		"error_description": desc,
	})
}
