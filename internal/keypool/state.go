package keypool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists pool membership. Quota values are never stored; every
// key is reconstructed at the full limit.
type Store interface {
	Load() (active, expired []string, err error)
	Save(active, expired []string) error
}

// FileStore keeps pool membership in a small JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type stateFile struct {
	ActiveKeys  []string `json:"active_keys"`
	ExpiredKeys []string `json:"expired_keys"`
}

// Load reads pool membership from the state file.
func (s *FileStore) Load() ([]string, []string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("read state file: %w", err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil, fmt.Errorf("parse state file: %w", err)
	}
	return state.ActiveKeys, state.ExpiredKeys, nil
}

// Save writes pool membership, replacing any prior content. The write
// goes through a temp file and rename so readers never see a torn state.
func (s *FileStore) Save(active, expired []string) error {
	state := stateFile{
		ActiveKeys:  active,
		ExpiredKeys: expired,
	}
	if state.ActiveKeys == nil {
		state.ActiveKeys = []string{}
	}
	if state.ExpiredKeys == nil {
		state.ExpiredKeys = []string{}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
