package couriersdk

import (
	"context"
	"net/http"
)

// Signup registers a new account. On success the server sets the refresh
// cookie in the client's jar and the response carries the first access token.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/signup", req, "", &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for an access token and a refresh cookie.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges the refresh cookie for a new access token. No body is
// sent; the cookie jar supplies the credential.
func (c *Client) Refresh(ctx context.Context) (*RefreshResponse, error) {
	var out RefreshResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/refresh", nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout asks the server to clear the refresh cookie. The access token keeps
// working until it expires; dropping it is the caller's job (the
// SessionManager does this in Clear).
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout", nil, "", nil, http.StatusNoContent)
}
