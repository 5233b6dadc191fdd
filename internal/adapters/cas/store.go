// Package cas implements the resolution store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ResolutionStore = (*Store)(nil)

// Store implements ports.ResolutionStore using flat JSON files.
// Each configuration file gets its own store under .rig/store next to it.
type Store struct {
	mu    sync.RWMutex
	files map[string]map[string]domain.ResolutionRecord
}

// NewStore creates a new ResolutionStore.
func NewStore() *Store {
	return &Store{files: make(map[string]map[string]domain.ResolutionRecord)}
}

// Get retrieves the record for a configuration path.
func (s *Store) Get(configPath string) (*domain.ResolutionRecord, error) {
	key, err := recordKey(configPath)
	if err != nil {
		return nil, err
	}

	records, err := s.records(domain.StorePathFor(key))
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores the record and persists it to disk.
func (s *Store) Put(record domain.ResolutionRecord) error {
	key, err := recordKey(record.ConfigPath)
	if err != nil {
		return err
	}
	record.ConfigPath = key

	path := domain.StorePathFor(key)
	records, err := s.records(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	records[key] = record
	s.mu.Unlock()

	return s.save(path, records)
}

// records returns the cached contents of the store file at path, loading it on first use.
func (s *Store) records(path string) (map[string]domain.ResolutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records, ok := s.files[path]; ok {
		return records, nil
	}

	records := make(map[string]domain.ResolutionRecord)

	//nolint:gosec // Path is derived from the discovered configuration file
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, "failed to read resolution store"), "path", path)
	case len(data) > 0:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal resolution store"), "path", path)
		}
	}

	s.files[path] = records
	return records, nil
}

func (s *Store) save(path string, records map[string]domain.ResolutionRecord) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(records, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal resolution store")
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for resolution store"), "path", path)
	}

	//nolint:gosec // Path is derived from the discovered configuration file
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write resolution store"), "path", path)
	}

	return nil
}

func recordKey(configPath string) (string, error) {
	if configPath == "" {
		return "", zerr.New("resolution record has no configuration path")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve configuration path"), "path", configPath)
	}
	return abs, nil
}
