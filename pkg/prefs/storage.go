// Package prefs implements the versioned, per-breakpoint preference store
// and the key/value storage boundary it persists through.
package prefs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage is the persistence boundary: synchronous key/value storage that
// must be assumed fallible. Call sites degrade to in-memory behavior on
// failure instead of surfacing errors.
type Storage interface {
	// Get returns the stored value and whether it exists.
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage is a map-backed Storage used in tests and as the fallback
// when file storage fails.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: make(map[string]string)}
}

// Get returns the stored value and whether it exists.
func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

// Set stores the value.
func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// Remove deletes the key.
func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// FileStorage persists each key as a JSON file under a directory, written
// atomically via a temp file.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// DefaultStorageDir returns the per-user preference directory.
func DefaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dashly")
}

func (s *FileStorage) path(key string) string {
	// Keys are dotted identifiers; keep them filesystem-safe.
	name := strings.ReplaceAll(key, string(filepath.Separator), "_")
	return filepath.Join(s.dir, name+".json")
}

// Get reads the value for key. Any read error counts as absent.
func (s *FileStorage) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set writes the value atomically.
func (s *FileStorage) Set(key, value string) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Remove deletes the key. A missing file is not an error.
func (s *FileStorage) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// fallbackStorage wraps a primary Storage and switches to memory-only
// operation after the first write failure, so a full disk or read-only
// config directory never breaks the session.
type fallbackStorage struct {
	mu      sync.Mutex
	primary Storage
	mem     *MemoryStorage
	failed  bool
}

// NewFallbackStorage wraps primary with the in-memory degradation.
func NewFallbackStorage(primary Storage) Storage {
	return &fallbackStorage{primary: primary, mem: NewMemoryStorage()}
}

func (s *fallbackStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	failed := s.failed
	s.mu.Unlock()
	if failed {
		return s.mem.Get(key)
	}
	return s.primary.Get(key)
}

func (s *fallbackStorage) Set(key, value string) error {
	s.mu.Lock()
	failed := s.failed
	s.mu.Unlock()
	if !failed {
		err := s.primary.Set(key, value)
		if err == nil {
			return nil
		}
		log.Printf("Warning: preference storage failed, continuing in memory: %v", err)
		s.mu.Lock()
		s.failed = true
		s.mu.Unlock()
	}
	return s.mem.Set(key, value)
}

func (s *fallbackStorage) Remove(key string) error {
	s.mu.Lock()
	failed := s.failed
	s.mu.Unlock()
	s.mem.Remove(key)
	if !failed {
		return s.primary.Remove(key)
	}
	return nil
}
