package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store is a named-slot byte store. Implementations must treat a missing
// slot as (nil, false, nil) rather than an error.
type Store interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
}

// DirStore keeps one file per slot under a root directory. Slot "goal"
// lives in <root>/goal.json, and so on.
type DirStore struct {
	root string
}

// OpenDir prepares a DirStore rooted at dir, creating it as needed.
func OpenDir(dir string) (*DirStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DirStore{root: dir}, nil
}

// Root returns the directory backing this store.
func (s *DirStore) Root() string {
	return s.root
}

// Get reads the bytes stored for key. A missing slot is not an error.
func (s *DirStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.slotPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot %q: %w", key, err)
	}
	return data, true, nil
}

// Set replaces the bytes stored for key. The write goes through a temp
// file and a rename so a crash mid-write cannot leave a torn slot.
func (s *DirStore) Set(key string, data []byte) error {
	path := s.slotPath(key)
	tmp, err := os.CreateTemp(s.root, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

func (s *DirStore) slotPath(key string) string {
	return filepath.Join(s.root, key+".json")
}
