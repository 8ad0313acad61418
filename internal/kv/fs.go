package kv

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/hack-pad/hackpadfs/os"
)

const (
	recordDir  = "records"
	recordExt  = ".json"
	recordPerm = 0o644
	dirPerm    = 0o755
)

// FSStore keeps one file per key in a hackpadfs filesystem: in memory, on disk, or in
// the browser's IndexedDB.
type FSStore struct {
	mu     sync.Mutex
	fs     hackpadfs.FS
	closed bool
}

// NewFSStore returns a store writing under records/ in fsys.
func NewFSStore(fsys hackpadfs.FS) (*FSStore, error) {
	if err := hackpadfs.MkdirAll(fsys, recordDir, dirPerm); err != nil {
		return nil, fmt.Errorf("kv: create %s: %w", recordDir, err)
	}
	return &FSStore{fs: fsys}, nil
}

// NewMemStore returns a store that lives only as long as the process.
func NewMemStore() (*FSStore, error) {
	fsys, err := mem.NewFS()
	if err != nil {
		return nil, fmt.Errorf("kv: mem fs: %w", err)
	}
	return NewFSStore(fsys)
}

// OpenDir returns a store rooted at an OS directory, creating it if needed.
func OpenDir(dir string) (*FSStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("kv: resolve %s: %w", dir, err)
	}
	osfs := os.NewFS()
	root, err := osfs.FromOSPath(abs)
	if err != nil {
		return nil, fmt.Errorf("kv: resolve %s: %w", abs, err)
	}
	if err := hackpadfs.MkdirAll(osfs, root, dirPerm); err != nil {
		return nil, fmt.Errorf("kv: create %s: %w", abs, err)
	}
	sub, err := osfs.Sub(root)
	if err != nil {
		return nil, fmt.Errorf("kv: open %s: %w", abs, err)
	}
	return NewFSStore(sub)
}

// Get implements Store.
func (s *FSStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	data, err := hackpadfs.ReadFile(s.fs, keyPath(key))
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv: read %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements Store.
func (s *FSStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := hackpadfs.WriteFullFile(s.fs, keyPath(key), []byte(value), recordPerm); err != nil {
		return fmt.Errorf("kv: write %q: %w", key, err)
	}
	return nil
}

// Remove implements Store.
func (s *FSStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	err := hackpadfs.Remove(s.fs, keyPath(key))
	if err != nil && !errors.Is(err, hackpadfs.ErrNotExist) {
		return fmt.Errorf("kv: remove %q: %w", key, err)
	}
	return nil
}

// Keys returns every stored key.
func (s *FSStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	entries, err := hackpadfs.ReadDir(s.fs, recordDir)
	if err != nil {
		return nil, fmt.Errorf("kv: list: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), recordExt)
		if !ok {
			continue
		}
		if key, err := url.PathUnescape(name); err == nil {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Close releases the store. Later calls return ErrClosed.
func (s *FSStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// keyPath maps a key to a valid fs path; escaping keeps "/" and ".." out of file names.
func keyPath(key string) string {
	name := url.PathEscape(key)
	name = strings.ReplaceAll(name, ".", "%2E")
	return path.Join(recordDir, name+recordExt)
}
