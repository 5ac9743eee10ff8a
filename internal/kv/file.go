package kv

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"
)

// FileStore keeps one JSON document per key under dir on a hackpadfs filesystem.
type FileStore struct {
	fs  hackpadfs.FS
	dir string
}

// NewFileStore returns a store rooted at dir (an fs-style, slash-separated path) on fsys.
func NewFileStore(fsys hackpadfs.FS, dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{fs: fsys, dir: path.Clean(dir)}
}

// OpenDir returns a FileStore over the host directory dir, creating it if needed.
func OpenDir(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve store dir: %w", err)
	}
	fsys := osfs.NewFS()
	fsPath, err := fsys.FromOSPath(abs)
	if err != nil {
		return nil, fmt.Errorf("map store dir: %w", err)
	}
	s := NewFileStore(fsys, fsPath)
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) file(key string) string {
	return path.Join(s.dir, key+".json")
}

func (s *FileStore) ensureDir() error {
	if s.dir == "." {
		return nil
	}
	if err := hackpadfs.MkdirAll(s.fs, s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	return nil
}

// Load reads the document for key.
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || s.fs == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	data, err := hackpadfs.ReadFile(s.fs, s.file(key))
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Save replaces the document for key.
func (s *FileStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.fs == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := hackpadfs.WriteFullFile(s.fs, s.file(key), value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
