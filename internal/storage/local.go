package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalStore keeps objects under a root directory. It is the store behind
// the static assets handler.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Root returns the directory objects are written under.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Save(ctx context.Context, dir, name string, r io.Reader) error {
	d, n, err := objectPath(dir, name)
	if err != nil {
		return err
	}
	full := filepath.Join(s.root, filepath.FromSlash(d))
	if err := os.MkdirAll(full, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(full, n))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s/%s: %w", d, n, err)
	}
	return f.Close()
}

func (s *LocalStore) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	p, err := s.Path(dir, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *LocalStore) Delete(ctx context.Context, dir, name string) error {
	d, n, err := objectPath(dir, name)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(d), n))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// List returns the sorted file names in dir. A missing directory is an
// error, matching a failed readdir.
func (s *LocalStore) List(ctx context.Context, dir string) ([]string, error) {
	d, err := cleanDir(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.root, filepath.FromSlash(d)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Path returns the filesystem path of an object.
func (s *LocalStore) Path(dir, name string) (string, error) {
	d, n, err := objectPath(dir, name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(d), n), nil
}
