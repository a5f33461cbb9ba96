package couriersdk

import (
	"context"
	"net/http"
	"net/url"
)

// CurrentUser fetches the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/api/me", nil, token, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers finds other users by name or email fragment. Results are a
// trimmed projection, capped server-side.
func (c *Client) SearchUsers(ctx context.Context, token, query string) ([]UserSummary, error) {
	var out SearchUsersResponse
	path := "/api/user/search?q=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, token, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// SendMessage sends a direct message to another user.
func (c *Client) SendMessage(ctx context.Context, token string, req SendMessageRequest) (*Message, error) {
	var out Message
	if err := c.doJSON(ctx, http.MethodPost, "/api/messages", req, token, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Threads fetches the inbox: one entry per conversation partner.
func (c *Client) Threads(ctx context.Context, token string) ([]Thread, error) {
	var out []Thread
	if err := c.doJSON(ctx, http.MethodGet, "/api/messages/threads", nil, token, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Conversation fetches the full history with one user, oldest first.
func (c *Client) Conversation(ctx context.Context, token, userID string) ([]Message, error) {
	var out []Message
	path := "/api/messages/with/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, token, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
