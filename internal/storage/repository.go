package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendFile, BackendSQLite:
		return true
	default:
		return false
	}
}

// Store persists the ordered task lines of a session. Load on a store that has
// never been saved returns an empty slice and no error.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, lines []string) error
	Close() error
}

// StorageError reports a failed load or save against a concrete location.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func Open(ctx context.Context, backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		repo, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
