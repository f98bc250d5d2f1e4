package statestore

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"guildcloner/models"
)

// Store persists the replication run state as a single JSON document. An
// advisory file lock guards against two cloner processes sharing one state
// file; writes go through a temp file and rename so a crash mid-write never
// corrupts the last good state.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore creates a state store backed by the given file path
func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Save writes the run state to disk
func (s *Store) Save(state *models.RunState) error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire state file lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("state file %s is locked by another process", s.path)
	}
	defer s.lock.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run state: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Load reads the run state back from disk. A missing file is an error the
// caller decides how to handle.
func (s *Store) Load() (*models.RunState, error) {
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire state file lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("state file %s is locked by another process", s.path)
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state models.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state file %s: %w", s.path, err)
	}
	return &state, nil
}
