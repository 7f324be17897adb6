package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codeview/cli/pkg/util"
	"github.com/pterm/pterm"
)

const (
	// PreferencesFile is the name of the preferences file inside the config directory
	PreferencesFile = "preferences.json"

	// hostKey is the single key the endpoint is stored under
	hostKey = "host"
)

// Preferences is a small key/value store persisted as a JSON object on disk.
// It holds non-secret settings only.
type Preferences struct {
	path string
}

// NewPreferences returns preferences backed by dir/preferences.json.
func NewPreferences(dir string) *Preferences {
	return &Preferences{path: filepath.Join(dir, PreferencesFile)}
}

// Path returns the file the preferences are stored in.
func (p *Preferences) Path() string {
	return p.path
}

// Get returns the value stored under key. A missing or unreadable file reads as empty.
func (p *Preferences) Get(key string) (string, bool) {
	values := p.load()
	v, ok := values[key]
	return v, ok
}

// Set stores value under key.
func (p *Preferences) Set(key, value string) error {
	values := p.load()
	values[key] = value
	return p.save(values)
}

// Remove deletes key. Removing a missing key is not an error.
func (p *Preferences) Remove(key string) error {
	values := p.load()
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		return util.RemoveIfExists(p.path)
	}
	return p.save(values)
}

func (p *Preferences) load() map[string]string {
	values := map[string]string{}
	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			pterm.Debug.Printf("Ignoring unreadable preferences %s: %v\n", p.path, err)
		}
		return values
	}
	if err := json.Unmarshal(data, &values); err != nil {
		pterm.Debug.Printf("Ignoring malformed preferences %s: %v\n", p.path, err)
		return map[string]string{}
	}
	return values
}

func (p *Preferences) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := util.WriteFileAtomic(p.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
