package auth

import (
	"fmt"
	"sync"

	"github.com/tableside/concierge/internal/credential"
)

// Tokens is the single owner of the bearer token. It caches the persisted
// value and is the only writer to the credential store. It satisfies
// gateway.TokenSource.
type Tokens struct {
	mu     sync.RWMutex
	store  credential.Store
	token  string
	loaded bool
}

// NewTokens wraps store.
func NewTokens(store credential.Store) *Tokens {
	return &Tokens{store: store}
}

// Load reads the persisted token once; later calls are no-ops.
func (t *Tokens) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		return nil
	}
	token, err := t.store.Get()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	t.token = token
	t.loaded = true
	return nil
}

// Token returns the current token, or "" when logged out or not yet loaded.
func (t *Tokens) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

// Set persists token and makes it current.
func (t *Tokens) Set(token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.Set(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	t.token = token
	t.loaded = true
	return nil
}

// Clear forgets the token in memory and on disk.
func (t *Tokens) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.loaded = true
	if err := t.store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
