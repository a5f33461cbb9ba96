package couriersdk

import (
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Client talks to the courier API. It carries a cookie jar so the HttpOnly
// refresh cookie set by signup/login is sent back automatically on refresh,
// the same way a browser would.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is still
// installed if the provided client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// NewClient builds a Client for the API at baseURL (no trailing slash).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.HTTPClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.HTTPClient.Jar = jar
	}
	return c, nil
}
