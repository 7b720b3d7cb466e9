// Package storage persists the client-side state taskctl keeps between
// runs: the auth token and a snapshot of the logged-in user.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AKASH-DEV-23/taskctl/pkg/models"
	"gopkg.in/yaml.v3"
)

// Credentials is the on-disk session snapshot. The user copy is a cache for
// offline display; the profile endpoint re-validates it at startup.
type Credentials struct {
	Token   string       `yaml:"token"`
	User    *models.User `yaml:"user,omitempty"`
	SavedAt time.Time    `yaml:"saved_at"`
}

// CredentialStore reads and writes the credentials file.
type CredentialStore interface {
	Load() (*Credentials, error)
	Save(*Credentials) error
	Clear() error
}

type fileCredentialStore struct {
	basePath string
}

// NewCredentialStore creates a CredentialStore backed by credentials.yaml
// under basePath.
func NewCredentialStore(basePath string) CredentialStore {
	return &fileCredentialStore{basePath: basePath}
}

func (s *fileCredentialStore) path() string {
	return filepath.Join(s.basePath, "credentials.yaml")
}

// Load reads the stored credentials. A missing file is not an error; it
// returns nil credentials.
func (s *fileCredentialStore) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	if creds.Token == "" {
		return nil, nil
	}
	return &creds, nil
}

// Save writes the credentials file with owner-only permissions.
func (s *fileCredentialStore) Save(creds *Credentials) error {
	if creds == nil || creds.Token == "" {
		return fmt.Errorf("saving credentials: empty token")
	}
	if err := os.MkdirAll(s.basePath, 0o700); err != nil {
		return fmt.Errorf("saving credentials: creating directory: %w", err)
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Clear removes the credentials file. Clearing an absent file is a no-op,
// so the 401 path may call it any number of times.
func (s *fileCredentialStore) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}
