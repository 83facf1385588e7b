// Package storage keeps the login token and profile between runs.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps the record in a JSON file
type FileStore struct {
	filePath string
	mu       sync.RWMutex
}

// NewFileStore creates a store backed by filePath
func NewFileStore(filePath string) *FileStore {
	return &FileStore{filePath: filePath}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.filePath
}

// Load reads the record from disk. A corrupted file is moved aside and
// treated as no saved session.
func (s *FileStore) Load() (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to read session file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		backupPath := s.filePath + ".backup"
		if renameErr := os.Rename(s.filePath, backupPath); renameErr != nil {
			return Record{}, false, fmt.Errorf("failed to move corrupted session file: %w", renameErr)
		}
		return Record{}, false, nil
	}

	// a token without a profile, or the reverse, is not a usable session
	if rec.Token == "" || rec.User.StaffID == "" {
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Save writes the record atomically
func (s *FileStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temp file
	tempPath := s.filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Clear removes the saved record
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
