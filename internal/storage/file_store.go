package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one encoded task per line in a flat text file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}
	return splitLines(string(raw)), nil
}

func (s *FileStore) Save(ctx context.Context, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &StorageError{Op: "save", Path: s.path, Err: err}
		}
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// splitLines drops the terminating newline and any CR left by other platforms.
func splitLines(raw string) []string {
	out := make([]string, 0)
	if raw == "" {
		return out
	}
	raw = strings.TrimSuffix(raw, "\n")
	for _, line := range strings.Split(raw, "\n") {
		out = append(out, strings.TrimSuffix(line, "\r"))
	}
	return out
}
