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
)

// LocalFileStore keeps thumbnails on the local filesystem. Names are the
// forward-slash URIs produced by the resolver, optionally carrying a stream
// wrapper prefix such as "public://". Wrapped and relative names are resolved
// beneath Root.
type LocalFileStore struct {
	Root string
}

// NewLocalFileStore returns a store rooted at root. With an empty root,
// absolute names are used as-is and relative names resolve against the
// working directory.
func NewLocalFileStore(root string) *LocalFileStore {
	return &LocalFileStore{Root: root}
}

// Exists reports whether a file is already stored under name.
func (s *LocalFileStore) Exists(_ context.Context, name string) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("local storage stat %s: %w", name, err)
	}
	return !info.IsDir(), nil
}

// Save writes r to name. The content becomes visible only once fully written.
func (s *LocalFileStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	w, err := newAtomicWriter(path)
	if err != nil {
		return "", fmt.Errorf("local storage %s: %w", name, err)
	}
	if _, err := io.Copy(w, readerWithContext(ctx, r)); err != nil {
		_ = w.Abort()
		return "", fmt.Errorf("local storage write %s: %w", name, err)
	}
	if err := w.Commit(); err != nil {
		return "", fmt.Errorf("local storage commit %s: %w", name, err)
	}
	return name, nil
}

func (s *LocalFileStore) path(name string) (string, error) {
	rel := name
	if i := strings.Index(rel, "://"); i >= 0 {
		rel = rel[i+3:]
	} else if s.Root == "" && filepath.IsAbs(filepath.FromSlash(rel)) {
		// Without a root, absolute names are the location itself.
		return filepath.Clean(filepath.FromSlash(rel)), nil
	}
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return "", fmt.Errorf("local storage: empty name")
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("local storage: %q escapes the storage root", name)
	}
	return filepath.Join(s.Root, cleaned), nil
}

// atomicWriter writes into a temporary file next to the target and renames
// it into place on Commit.
type atomicWriter struct {
	path    string
	tmpPath string
	file    *os.File
}

func newAtomicWriter(path string) (*atomicWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".thumb-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &atomicWriter{path: path, tmpPath: tmp.Name(), file: tmp}, nil
}

func (w *atomicWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *atomicWriter) Commit() error {
	if err := w.file.Sync(); err != nil {
		_ = w.Abort()
		return fmt.Errorf("sync: %w", err)
	}
	if err := w.file.Close(); err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(w.tmpPath, 0o644); err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (w *atomicWriter) Abort() error {
	_ = w.file.Close()
	return os.Remove(w.tmpPath)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
