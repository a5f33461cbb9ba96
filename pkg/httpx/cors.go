package httpx

import (
	"net/http"
	"slices"
)

const corsAllowedMethods = "GET, POST, DELETE, OPTIONS"

// CORSMiddleware allows browser clients on the configured origins to call the
// API with credentials. Credentialed CORS forbids a wildcard origin, so the
// matched origin is echoed back per request.
func CORSMiddleware(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			origin := r.Header.Get("Origin")
			if origin != "" && slices.Contains(allowedOrigins, origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")

				if r.Method == http.MethodOptions {
					h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
					h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
					h.Set("Access-Control-Max-Age", "600")
				}
			}

			// Preflights never reach the mux. Unlisted origins get a plain
			// 204 with no CORS headers rather than a confusing 405.
			if r.Method == http.MethodOptions {
				h.Set("Allow", corsAllowedMethods)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
