package couriersdk

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quietwire/courier/pkg/jwtx"
)

// DefaultRefreshInterval is how long a session waits before refreshing its
// access token: five minutes short of the token's one-hour lifetime, so the
// new token arrives while the old one is still valid.
const DefaultRefreshInterval = 55 * time.Minute

// refreshTimeout bounds the background refresh call.
const refreshTimeout = 30 * time.Second

// ErrNoSession is returned by authenticated calls when no session is active.
var ErrNoSession = errors.New("couriersdk: no active session")

// SessionManager holds the volatile access token for a logged-in user and
// keeps it fresh. Each SetSession arms a single one-shot timer; when it
// fires, the manager exchanges the refresh cookie for a new access token and
// re-arms. A failed refresh tears the session down rather than retrying --
// the refresh cookie is either expired or gone, so the user must log in
// again.
type SessionManager struct {
	client   *Client
	cache    TokenCache
	interval time.Duration

	mu    sync.Mutex
	token string
	timer *time.Timer
	gen   uint64
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithRefreshInterval overrides the refresh timer. Values at or above the
// access token lifetime are clamped to the default so the token can't expire
// between refreshes.
func WithRefreshInterval(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		if d <= 0 || d >= jwtx.AccessTokenTTL {
			d = DefaultRefreshInterval
		}
		m.interval = d
	}
}

// NewSessionManager builds a SessionManager over the given client and cache.
// A nil cache falls back to an in-memory one.
func NewSessionManager(client *Client, cache TokenCache, opts ...SessionOption) *SessionManager {
	if cache == nil {
		cache = &MemoryTokenCache{}
	}
	m := &SessionManager{
		client:   client,
		cache:    cache,
		interval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Signup registers a new account and starts a session with it.
func (m *SessionManager) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	resp, err := m.client.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	m.SetSession(resp.AccessToken)
	return resp, nil
}

// Login authenticates and starts a session.
func (m *SessionManager) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	resp, err := m.client.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	m.SetSession(resp.AccessToken)
	return resp, nil
}

// Restore revives a session after a restart. If the cache holds a token from
// a previous run, the manager refreshes immediately instead of trusting it;
// the cached token may be stale, and the refresh cookie is the real
// credential. Returns ErrNoSession when there is nothing to restore.
func (m *SessionManager) Restore(ctx context.Context) error {
	cached, err := m.cache.Get()
	if err != nil {
		return err
	}
	if cached == "" {
		return ErrNoSession
	}

	resp, err := m.client.Refresh(ctx)
	if err != nil {
		m.Clear()
		return err
	}
	m.SetSession(resp.AccessToken)
	return nil
}

// Logout ends the session on both sides: the server clears the refresh
// cookie, then local state is wiped. Local state is wiped even when the
// server call fails.
func (m *SessionManager) Logout(ctx context.Context) error {
	err := m.client.Logout(ctx)
	m.Clear()
	return err
}

// SetSession installs a new access token and re-arms the refresh timer. An
// empty token is equivalent to Clear. Any refresh already in flight for the
// previous token is orphaned and cannot overwrite this one.
func (m *SessionManager) SetSession(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setSessionLocked(token)
}

// Clear drops the session: timer cancelled, memory and cache wiped.
func (m *SessionManager) Clear() {
	m.SetSession("")
}

// AccessToken returns the current access token, or "" when logged out.
func (m *SessionManager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Active reports whether a session is currently held.
func (m *SessionManager) Active() bool {
	return m.AccessToken() != ""
}

func (m *SessionManager) setSessionLocked(token string) {
	// Bumping the generation invalidates any in-flight refresh.
	m.gen++

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}

	m.token = token
	if token == "" {
		_ = m.cache.Clear()
		return
	}

	_ = m.cache.Set(token)

	gen := m.gen
	m.timer = time.AfterFunc(m.interval, func() {
		m.refreshSession(gen)
	})
}

// refreshSession runs when the timer fires. The generation check makes the
// result a no-op if the session was cleared or replaced while the HTTP call
// was in flight, so a slow response can't resurrect a dead session.
func (m *SessionManager) refreshSession(gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	resp, err := m.client.Refresh(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return
	}

	if err != nil {
		m.setSessionLocked("")
		return
	}
	m.setSessionLocked(resp.AccessToken)
}

// Authenticated API surface. Each call uses the current access token and
// returns ErrNoSession when logged out.

func (m *SessionManager) CurrentUser(ctx context.Context) (*User, error) {
	token := m.AccessToken()
	if token == "" {
		return nil, ErrNoSession
	}
	return m.client.CurrentUser(ctx, token)
}

func (m *SessionManager) SearchUsers(ctx context.Context, query string) ([]UserSummary, error) {
	token := m.AccessToken()
	if token == "" {
		return nil, ErrNoSession
	}
	return m.client.SearchUsers(ctx, token, query)
}

func (m *SessionManager) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	token := m.AccessToken()
	if token == "" {
		return nil, ErrNoSession
	}
	return m.client.SendMessage(ctx, token, req)
}

func (m *SessionManager) Threads(ctx context.Context) ([]Thread, error) {
	token := m.AccessToken()
	if token == "" {
		return nil, ErrNoSession
	}
	return m.client.Threads(ctx, token)
}

func (m *SessionManager) Conversation(ctx context.Context, userID string) ([]Message, error) {
	token := m.AccessToken()
	if token == "" {
		return nil, ErrNoSession
	}
	return m.client.Conversation(ctx, token, userID)
}
