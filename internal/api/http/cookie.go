package http

import (
	"net/http"

	"github.com/quietwire/courier/pkg/jwtx"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// refreshCookiePath scopes the cookie to the API so it never rides along on
// static asset requests.
const refreshCookiePath = "/api"

// RefreshCookies writes and clears the HttpOnly refresh cookie. Secure is
// off in dev so plain-http localhost still works; everywhere else the cookie
// only travels over TLS.
type RefreshCookies struct {
	Secure bool
}

// Attach sets the refresh cookie. HttpOnly keeps it away from script access;
// SameSite=Lax stops it being sent on cross-site POSTs.
func (c RefreshCookies) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(jwtx.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the refresh cookie. The attributes must match Attach or the
// browser treats it as a different cookie and keeps the old one.
func (c RefreshCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the refresh token from the request cookie, or "" when absent.
func (c RefreshCookies) Read(r *http.Request) string {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
