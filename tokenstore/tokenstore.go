// Package tokenstore persists the authentication token the handshake
// obtains from the host, so a process restart can reuse it instead of
// prompting the user for plugin access again.
package tokenstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// StoredToken is the on-disk shape of the token file.
type StoredToken struct {
	AuthenticationToken string `json:"authenticationToken"`
}

// Store reads and writes a single token file.
type Store struct {
	path string
}

// New returns a Store backed by a file named "token.json" inside dir.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, "token.json")}
}

// Load returns ("", nil) if no token has been stored yet.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var stored StoredToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", err
	}
	return stored.AuthenticationToken, nil
}

// Save persists token atomically, writing a temp file and renaming it over
// the old one so a crash mid-write never leaves a truncated token file. The
// file ends up 0600 (CreateTemp's default), since it grants API access to
// the host application.
func (s *Store) Save(token string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(StoredToken{AuthenticationToken: token}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "token-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, s.path)
}

// NewAuthToken implements auth.TokenObserver, so a Store can be passed
// directly to auth.New (or Builder.TokenObserver) as the token observer:
// every token the handshake obtains is persisted immediately.
func (s *Store) NewAuthToken(token string) {
	// The TokenObserver callback signature has no error return; a save
	// failure here just means the next process restart re-prompts for
	// access, not a failed handshake, so it's dropped rather than panicking.
	_ = s.Save(token)
}
