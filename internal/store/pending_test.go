package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending_tx.json")

	first := NewFileStore(path, 0)
	require.NoError(t, first.Save("abc", "123"))

	// A fresh store on the same path simulates a process restart
	second := NewFileStore(path, 0)
	entry, err := second.Load()
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "abc", entry.Data)
	assert.Equal(t, "123", entry.Nonce)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestFileStore_ClearThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending_tx.json")
	s := NewFileStore(path, 0)

	require.NoError(t, s.Save("abc", "123"))
	require.NoError(t, s.Clear())

	entry, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Clearing an already empty store is fine
	require.NoError(t, s.Clear())
}

func TestFileStore_LoadEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), 0)
	entry, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending_tx.json")
	s := NewFileStore(path, 0)

	require.NoError(t, s.Save("first", "n1"))
	require.NoError(t, s.Save("second", "n2"))

	entry, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "second", entry.Data)
	assert.Equal(t, "n2", entry.Nonce)
}

func TestFileStore_ExpiredEntryDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending_tx.json")
	s := NewFileStore(path, 10*time.Millisecond)

	require.NoError(t, s.Save("abc", "123"))
	time.Sleep(25 * time.Millisecond)

	entry, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(0)

	entry, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, s.Save("abc", "123"))
	entry, err = s.Load()
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "abc", entry.Data)

	require.NoError(t, s.Clear())
	entry, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, entry)
}
