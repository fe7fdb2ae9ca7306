package tokenstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_LoadMissingFileReturnsEmpty(t *testing.T) {
	s := New(t.TempDir())
	token, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Save("abc123"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	token, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != "abc123" {
		t.Errorf("token = %q, want abc123", token)
	}
}

func TestStore_SaveUsesRestrictivePermissions(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := s.Save("secret"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "token.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %v, want 0600", perm)
	}
}

func TestStore_NewAuthTokenPersists(t *testing.T) {
	s := New(t.TempDir())
	s.NewAuthToken("from-handshake")

	token, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != "from-handshake" {
		t.Errorf("token = %q, want from-handshake", token)
	}
}
