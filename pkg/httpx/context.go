package httpx

import (
	"context"

	"github.com/quietwire/courier/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyIdentity ctxKey = "identity" // full jwtx.IdentityClaims
)

// UserIDFromContext returns the authenticated subject ID, or "" if the
// request did not pass through the authn middleware.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// IdentityFromContext returns the verified token claims for the request.
func IdentityFromContext(ctx context.Context) (jwtx.IdentityClaims, bool) {
	v, ok := ctx.Value(CtxKeyIdentity).(jwtx.IdentityClaims)
	return v, ok
}
