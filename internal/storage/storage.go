// Package storage is a small key-value store of JSON blobs, the desktop counterpart of a
// browser's local storage. Each key is one file on a hackpadfs filesystem.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	hos "github.com/hack-pad/hackpadfs/os"
)

const fileExt = ".json"

// KV stores JSON-encodable values by key.
type KV interface {
	// Load decodes the value stored under key into v. found is false when the key is absent.
	Load(key string, v any) (found bool, err error)
	Save(key string, v any) error
	Delete(key string) error
	Keys() ([]string, error)
}

// FSStore implements KV on a hackpadfs filesystem. Keys are namespaced by prefix so several
// tools can share one directory.
type FSStore struct {
	mu     sync.Mutex
	fs     hackpadfs.FS
	prefix string
}

// NewFSStore wraps an existing filesystem. The store writes at the filesystem root.
func NewFSStore(fsys hackpadfs.FS, prefix string) *FSStore {
	return &FSStore{fs: fsys, prefix: prefix}
}

// NewDirStore returns a store rooted at dir on the host filesystem, creating dir if needed.
func NewDirStore(dir, prefix string) (*FSStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("storage: creating %s: %w", abs, err)
	}
	root := hos.NewFS()
	sub, err := root.Sub(strings.TrimPrefix(filepath.ToSlash(abs), "/"))
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", abs, err)
	}
	return NewFSStore(sub, prefix), nil
}

// NewMemStore returns an in-memory store.
func NewMemStore(prefix string) (*FSStore, error) {
	fsys, err := mem.NewFS()
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return NewFSStore(fsys, prefix), nil
}

func (s *FSStore) fileName(key string) string {
	return s.prefix + key + fileExt
}

// Load implements KV.
func (s *FSStore) Load(key string, v any) (bool, error) {
	s.mu.Lock()
	data, err := hackpadfs.ReadFile(s.fs, s.fileName(key))
	s.mu.Unlock()
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: reading %q: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("storage: decoding %q: %w", key, err)
	}
	return true, nil
}

// Save implements KV.
func (s *FSStore) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("storage: encoding %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := hackpadfs.WriteFullFile(s.fs, s.fileName(key), data, 0644); err != nil {
		return fmt.Errorf("storage: writing %q: %w", key, err)
	}
	return nil
}

// Delete implements KV. Deleting a missing key is not an error.
func (s *FSStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := hackpadfs.Remove(s.fs, s.fileName(key))
	if err != nil && !errors.Is(err, hackpadfs.ErrNotExist) {
		return fmt.Errorf("storage: deleting %q: %w", key, err)
	}
	return nil
}

// Keys implements KV. Keys are returned sorted.
func (s *FSStore) Keys() ([]string, error) {
	s.mu.Lock()
	entries, err := hackpadfs.ReadDir(s.fs, ".")
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("storage: listing: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, s.prefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(name, s.prefix), fileExt))
	}
	sort.Strings(keys)
	return keys, nil
}
