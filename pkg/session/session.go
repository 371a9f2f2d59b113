// Package session persists the single logged-in identity between runs, the
// way the browser app kept it in local storage.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/andeanbio/biomon/pkg/api"
)

// DefaultFileName is the session file created under the user home when no
// explicit path is configured.
const DefaultFileName = ".biomon_session.json"

// Store reads and writes the session file. It is injected wherever an
// identity is needed so tests can point it at a temp dir.
type Store struct {
	Path string
}

// NewStore builds a store at the given path, or at the default location under
// the user home when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, DefaultFileName)
	}
	return &Store{Path: path}, nil
}

// Load returns the saved identity, or nil when logged out. A corrupt session
// file is removed and treated as logged out. The saved identity is trusted
// without revalidating against the Record Store; there is no expiry.
func (s *Store) Load() (*api.User, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var user api.User
	if err := json.Unmarshal(data, &user); err != nil {
		_ = os.Remove(s.Path)
		return nil, nil
	}
	return &user, nil
}

// Save writes the identity, replacing any previous session.
func (s *Store) Save(user *api.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0600)
}

// Clear logs out. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
