// Package session holds the ambient login state: the current user, the
// bearer token, and the derived permission set. It is the single owner of
// that state; components read it through the Manager rather than keeping
// their own copies.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/internal/storage"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

// ProfileFetcher fetches the current user for the stored token. Satisfied
// by the api.AuthClient.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*models.AuthResponse, error)
}

// Manager is the session lifecycle: populated on login/signup/verify
// success or startup re-validation, cleared on logout or any 401.
type Manager interface {
	// Load reads the persisted credentials into memory without validating
	// them against the backend.
	Load() error
	// Validate re-checks the loaded token against the profile endpoint.
	// Any failure clears the stored credentials and leaves the session
	// empty; it does not retry.
	Validate(ctx context.Context, fetcher ProfileFetcher) error
	// Set stores a fresh token and user, persisting them for the next run.
	Set(token string, user *models.User) error
	// Clear wipes both the in-memory session and the stored credentials.
	// It is idempotent; the 401 hook may fire it repeatedly.
	Clear() error

	Token() string
	CurrentUser() *models.User
	Authenticated() bool
	// Permissions returns the effective permission codes: the user's
	// explicit override, else the role's set.
	Permissions() []int
	// HasPermission checks a capability, honoring the "all" sentinel.
	HasPermission(code int) bool
	// Subscribe registers fn to run after every session change.
	Subscribe(fn func())
}

type manager struct {
	mu    sync.RWMutex
	store storage.CredentialStore
	perms core.PermissionMap

	token string
	user  *models.User
	subs  []func()
}

// NewManager creates a Manager persisting through store and resolving the
// sentinel through perms.
func NewManager(store storage.CredentialStore, perms core.PermissionMap) Manager {
	return &manager{store: store, perms: perms}
}

func (m *manager) Load() error {
	creds, err := m.store.Load()
	if err != nil {
		return err
	}
	m.mu.Lock()
	if creds != nil {
		m.token = creds.Token
		m.user = creds.User
	} else {
		m.token = ""
		m.user = nil
	}
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *manager) Validate(ctx context.Context, fetcher ProfileFetcher) error {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return fmt.Errorf("validating session: no token")
	}

	resp, err := fetcher.Profile(ctx)
	if err != nil || resp == nil || !resp.Success || resp.User == nil {
		// The 401 hook may already have cleared the session; clearing
		// again is harmless.
		_ = m.Clear()
		if err != nil {
			return fmt.Errorf("validating session: %w", err)
		}
		return fmt.Errorf("validating session: profile rejected")
	}

	m.mu.Lock()
	m.user = resp.User
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *manager) Set(token string, user *models.User) error {
	if token == "" {
		return fmt.Errorf("setting session: empty token")
	}
	if err := m.store.Save(&storage.Credentials{
		Token:   token,
		User:    user,
		SavedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}
	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *manager) Clear() error {
	m.mu.Lock()
	wasEmpty := m.token == "" && m.user == nil
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	err := m.store.Clear()
	if !wasEmpty {
		m.notify()
	}
	return err
}

func (m *manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

func (m *manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

func (m *manager) Permissions() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.EffectivePermissions()
}

func (m *manager) HasPermission(code int) bool {
	return m.perms.HasPermission(m.Permissions(), code)
}

func (m *manager) Subscribe(fn func()) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

func (m *manager) notify() {
	m.mu.RLock()
	subs := make([]func(), len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}
