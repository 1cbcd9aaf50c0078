package httpx

import (
	"context"

	"github.com/aussiebroadwan/licensing/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyOperator ctxKey = "operator"
	CtxKeyScopes   ctxKey = "scopes"
	CtxKeyClaims   ctxKey = "claims"
)

// OperatorFromContext returns the authenticated operator subject, if any.
func OperatorFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyOperator).(string)
	return v, ok && v != ""
}

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
