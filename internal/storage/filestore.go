// Package storage persists uploaded image bytes outside the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileName = errors.New("invalid file name")
)

// FileStore saves, opens and removes files addressed by a path relative to its root.
type FileStore interface {
	Save(ctx context.Context, dir, name string, content io.Reader) (path string, size int64, err error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

// LocalFileStore keeps files on the local filesystem below Root.
type LocalFileStore struct {
	Root string
}

// NewLocalFileStore creates the root directory if needed.
func NewLocalFileStore(root string) (*LocalFileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root %s: %w", root, err)
	}
	return &LocalFileStore{Root: root}, nil
}

// CleanFileName strips any directory part of a client supplied name and rejects
// names that do not denote a regular file.
func CleanFileName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "" || base == "." || base == ".." || base == "/" {
		return "", ErrInvalidFileName
	}
	return base, nil
}

// Save writes content to <root>/<dir>/<uuid>/<name>. Every call gets its own
// directory, so files saved under the same name never share a path. The bytes
// land in a temporary file first and are renamed into place only once fully
// written. The returned path is relative to the root.
func (s *LocalFileStore) Save(ctx context.Context, dir, name string, content io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	base, err := CleanFileName(name)
	if err != nil {
		return "", 0, err
	}
	rel := filepath.ToSlash(filepath.Join(dir, uuid.NewString(), base))
	full, err := s.resolve(rel)
	if err != nil {
		return "", 0, err
	}

	uploadDir := filepath.Dir(full)
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create directory for %s: %w", rel, err)
	}

	n, err := writeAtomically(uploadDir, full, content)
	if err != nil {
		os.Remove(uploadDir)
		return "", 0, fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, n, nil
}

func writeAtomically(dir, dst string, content io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	n, err := io.Copy(tmp, content)
	if err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, err
	}
	return n, nil
}

// Open returns a reader over a stored file. The caller must close it.
func (s *LocalFileStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Remove deletes a stored file and its per-upload directory once empty.
// Removing a file that is already gone is not an error.
func (s *LocalFileStore) Remove(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	if dir := filepath.Dir(full); dir != filepath.Clean(s.Root) {
		// only succeeds once the directory is empty
		_ = os.Remove(dir)
	}
	return nil
}

// resolve maps a relative path onto the root and refuses anything escaping it.
func (s *LocalFileStore) resolve(rel string) (string, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(rel))
	root := filepath.Clean(s.Root)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", ErrInvalidFileName
	}
	return full, nil
}
