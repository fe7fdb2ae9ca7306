package pluginconfig

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store reads and writes a single YAML config file, atomically on save.
type Store struct {
	path   string
	dataMu sync.RWMutex
	data   Config
}

// NewStore loads existing config from dir/"plugin.yaml", or falls back to
// Default() if the file doesn't exist yet.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		path: filepath.Join(dir, "plugin.yaml"),
		data: Default(),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Get returns the current in-memory config.
func (s *Store) Get() Config {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.data
}

// Update validates cfg, persists it, and swaps it in as the current config.
func (s *Store) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	if err := s.save(cfg); err != nil {
		return err
	}

	s.data = cfg
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		// Fall back to the default for a corrupted file rather than failing
		// startup outright.
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return nil
	}

	s.data = cfg
	return nil
}

func (s *Store) save(cfg Config) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "plugin-*.yaml.tmp")
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
