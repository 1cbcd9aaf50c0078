package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/licensing/pkg/jwtx"
	"github.com/aussiebroadwan/licensing/pkg/slogx"
)

// AuthnMiddleware verifies the bearer token and stores the operator
// identity and scopes on the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("bearer token rejected", slog.Any("err", err))
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.With(ctx, slog.String("operator", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyOperator, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyScopes, c.Scopes)
	return context.WithValue(ctx, CtxKeyClaims, c)
}

// RFC 6750 invalid_token challenge.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
