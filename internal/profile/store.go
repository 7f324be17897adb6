// Package profile persists the single connection profile: the code-server endpoint
// in a preferences file and its optional password in the OS keyring.
package profile

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pterm/pterm"
)

// Profile is a display-safe view of the stored connection profile.
type Profile struct {
	Endpoint  string `json:"endpoint,omitempty"`
	HasSecret bool   `json:"has_secret"`
}

// Store holds at most one endpoint and one secret.
type Store struct {
	prefs   *Preferences
	secrets SecretStore
}

// NewStore returns a Store over the given preferences and secret backends.
func NewStore(prefs *Preferences, secrets SecretStore) *Store {
	return &Store{prefs: prefs, secrets: secrets}
}

// ParseEndpoint parses raw as an absolute URL with a scheme and a host.
func ParseEndpoint(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty address")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", raw)
	}
	return u, nil
}

// HasEndpoint reports whether an endpoint was previously saved.
func (s *Store) HasEndpoint() bool {
	_, ok := s.Endpoint()
	return ok
}

// Endpoint returns the stored endpoint. A stored value that no longer parses reads as absent.
func (s *Store) Endpoint() (*url.URL, bool) {
	raw, ok := s.prefs.Get(hostKey)
	if !ok {
		return nil, false
	}
	u, err := ParseEndpoint(raw)
	if err != nil {
		pterm.Debug.Printf("Ignoring stored endpoint: %v\n", err)
		return nil, false
	}
	return u, true
}

// SetEndpoint stores raw if it parses as an absolute URL, and otherwise removes any
// stored endpoint. Invalid input is not an error; only storage failures are returned.
func (s *Store) SetEndpoint(raw string) error {
	u, err := ParseEndpoint(raw)
	if err != nil {
		pterm.Debug.Printf("Clearing endpoint, invalid address: %v\n", err)
		if err := s.prefs.Remove(hostKey); err != nil {
			return fmt.Errorf("failed to clear endpoint: %w", err)
		}
		return nil
	}
	if err := s.prefs.Set(hostKey, u.String()); err != nil {
		return fmt.Errorf("failed to save endpoint: %w", err)
	}
	return nil
}

// Secret returns the stored password. Callers must not log or display it.
func (s *Store) Secret() (string, bool) {
	v, err := s.secrets.Get(passwordAccount)
	if err != nil {
		if !errors.Is(err, ErrSecretNotFound) {
			pterm.Debug.Printf("Could not read password from keyring: %v\n", err)
		}
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// SetSecret stores raw, or deletes the stored secret when raw is blank.
func (s *Store) SetSecret(raw string) error {
	if strings.TrimSpace(raw) == "" {
		if err := s.secrets.Delete(passwordAccount); err != nil {
			return fmt.Errorf("failed to delete password: %w", err)
		}
		return nil
	}
	if err := s.secrets.Set(passwordAccount, raw); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}
	return nil
}

// Clear removes both the endpoint and the secret.
func (s *Store) Clear() error {
	if err := s.prefs.Remove(hostKey); err != nil {
		return fmt.Errorf("failed to clear endpoint: %w", err)
	}
	return s.SetSecret("")
}

// Snapshot returns the profile without the secret value.
func (s *Store) Snapshot() Profile {
	var p Profile
	if u, ok := s.Endpoint(); ok {
		p.Endpoint = u.String()
	}
	_, p.HasSecret = s.Secret()
	return p
}
