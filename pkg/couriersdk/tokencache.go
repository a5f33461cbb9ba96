package couriersdk

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// TokenCache persists the access token across process restarts, playing the
// role browser localStorage does for the web client. Implementations must be
// safe for concurrent use.
type TokenCache interface {
	// Get returns the cached token, or "" when none is stored.
	Get() (string, error)

	// Set replaces the cached token.
	Set(token string) error

	// Clear removes the cached token.
	Clear() error
}

// MemoryTokenCache is a process-local TokenCache. Suitable for tests and for
// callers that don't want persistence.
type MemoryTokenCache struct {
	mu    sync.Mutex
	token string
}

func (c *MemoryTokenCache) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, nil
}

func (c *MemoryTokenCache) Set(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	return nil
}

func (c *MemoryTokenCache) Clear() error {
	return c.Set("")
}

// FileTokenCache stores the token in a file with owner-only permissions.
type FileTokenCache struct {
	Path string

	mu sync.Mutex
}

func (c *FileTokenCache) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *FileTokenCache) Set(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.WriteFile(c.Path, []byte(token), 0o600)
}

func (c *FileTokenCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
