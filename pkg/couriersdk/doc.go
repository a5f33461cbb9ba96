// Package couriersdk is the Go client for the courier API. It mirrors what
// the web client does: credentials go in once, the refresh token lives in an
// HttpOnly cookie managed by the HTTP client's jar, and a SessionManager
// keeps the short-lived access token fresh in the background.
package couriersdk
