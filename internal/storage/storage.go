// Package storage keeps uploaded images either on the local filesystem or in
// an S3 compatible bucket. Objects are addressed by a directory and a file
// name, both relative to the store root.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("object not found")
	ErrInvalidPath = errors.New("invalid object path")
)

// ImageStore is implemented by the local and S3 backends. Open and Delete
// return ErrNotFound for a missing object.
type ImageStore interface {
	Save(ctx context.Context, dir, name string, r io.Reader) error
	Open(ctx context.Context, dir, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, dir, name string) error
	List(ctx context.Context, dir string) ([]string, error)
}

// cleanDir validates a slash separated relative directory.
func cleanDir(dir string) (string, error) {
	if dir == "" || strings.HasPrefix(dir, "/") || strings.Contains(dir, "\\") {
		return "", ErrInvalidPath
	}
	for _, elem := range strings.Split(dir, "/") {
		if elem == "" || elem == "." || elem == ".." {
			return "", ErrInvalidPath
		}
	}
	return path.Clean(dir), nil
}

// cleanName validates a single path element.
func cleanName(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return "", ErrInvalidPath
	}
	return name, nil
}

func objectPath(dir, name string) (string, string, error) {
	d, err := cleanDir(dir)
	if err != nil {
		return "", "", err
	}
	n, err := cleanName(name)
	if err != nil {
		return "", "", err
	}
	return d, n, nil
}
