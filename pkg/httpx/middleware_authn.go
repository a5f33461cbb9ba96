package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/quietwire/courier/pkg/jwtx"
	"github.com/quietwire/courier/pkg/slogx"
)

const bearerPrefix = "Bearer "

// AuthnMiddleware gates protected routes behind access-token verification.
//
// The Authorization header must be exactly "Bearer <token>"; a missing header
// and a missing prefix are treated the same. The response never distinguishes
// an expired token from a forged one; that distinction only goes to the log.
// On success the verified claims are attached to the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, bearerPrefix) {
				writeAuthError(w, "missing token")
				return
			}

			claims, err := v.Verify(strings.TrimPrefix(authz, bearerPrefix))
			if err != nil {
				// Generic message to the client, specific cause to the log.
				writeAuthError(w, "invalid token")
				log.Warn("access token rejected",
					"expired", errors.Is(err, jwtx.ErrExpired),
					"err", err,
				)
				return
			}

			ctx = contextWithIdentity(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithIdentity(ctx context.Context, c jwtx.IdentityClaims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyIdentity, c)
	return ctx
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": msg})
}
