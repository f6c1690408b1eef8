package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/upnetwork-v/webpay-sub001/internal/model"
)

// PendingStore persists the single outstanding wallet request so the
// response handler can resume after a restart. One slot only: Save
// overwrites any prior entry (last writer wins).
type PendingStore interface {
	Save(data, nonce string) error
	Load() (*model.PendingTransaction, error) // nil when absent or expired
	Clear() error
}

// FileStore is a PendingStore backed by a JSON file.
type FileStore struct {
	path string
	ttl  time.Duration // 0 disables expiry
}

// NewFileStore creates a file-backed store at path. Entries older than
// ttl are discarded on Load; pass 0 to keep them indefinitely.
func NewFileStore(path string, ttl time.Duration) *FileStore {
	return &FileStore{path: path, ttl: ttl}
}

// Save writes the pending entry, replacing any prior one.
func (s *FileStore) Save(data, nonce string) error {
	entry := model.PendingTransaction{
		Data:      data,
		Nonce:     nonce,
		CreatedAt: time.Now().UTC(),
	}

	fileData, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("failed to marshal pending transaction: %w", err)
	}

	if err := os.WriteFile(s.path, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write pending transaction: %w", err)
	}
	return nil
}

// Load returns the stored entry, or nil if there is none or it expired.
// An expired entry is removed on the spot.
func (s *FileStore) Load() (*model.PendingTransaction, error) {
	fileData, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pending transaction: %w", err)
	}

	if len(fileData) == 0 {
		return nil, nil
	}

	var entry model.PendingTransaction
	if err := json.Unmarshal(fileData, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending transaction: %w", err)
	}

	if s.expired(&entry) {
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &entry, nil
}

// Clear removes the stored entry. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear pending transaction: %w", err)
	}
	return nil
}

func (s *FileStore) expired(entry *model.PendingTransaction) bool {
	return s.ttl > 0 && time.Since(entry.CreatedAt) > s.ttl
}

// MemoryStore is an in-memory PendingStore for tests.
type MemoryStore struct {
	mu    sync.Mutex
	entry *model.PendingTransaction
	ttl   time.Duration
}

// NewMemoryStore creates an in-memory store with the given ttl (0 disables expiry).
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl}
}

// Save stores the pending entry, replacing any prior one.
func (s *MemoryStore) Save(data, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = &model.PendingTransaction{
		Data:      data,
		Nonce:     nonce,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// Load returns the stored entry, or nil if there is none or it expired.
func (s *MemoryStore) Load() (*model.PendingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil {
		return nil, nil
	}
	if s.ttl > 0 && time.Since(s.entry.CreatedAt) > s.ttl {
		s.entry = nil
		return nil, nil
	}
	entry := *s.entry
	return &entry, nil
}

// Clear removes the stored entry.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = nil
	return nil
}
