package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileStoreMissingFileLoadsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "tasks.txt"))
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}

func TestFileStoreSaveCreatesDirectoryAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "tasks.txt")
	store := NewFileStore(path)
	lines := []string{
		"[T][ ] read book",
		"[D][ ] submit report (by: 2024-01-01)",
		"[E][✓] party (at: home)",
	}
	if err := store.Save(ctx, lines); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := "[T][ ] read book\n[D][ ] submit report (by: 2024-01-01)\n[E][✓] party (at: home)\n"
	if string(raw) != want {
		t.Fatalf("file content = %q, want %q", raw, want)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("round trip = %#v, want %#v", got, lines)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStoreSaveEmptyListTruncates(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "tasks.txt"))
	if err := store.Save(ctx, []string{"[T][ ] a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}

func TestFileStoreLoadStripsCarriageReturns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	if err := os.WriteFile(path, []byte("[T][ ] a\r\n[T][ ] b"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"[T][ ] a", "[T][ ] b"}) {
		t.Fatalf("unexpected lines: %#v", got)
	}
}

func TestFileStoreUnreadablePathIsStorageError(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	_, err := store.Load(context.Background())
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "load" {
		t.Fatalf("expected load StorageError for a directory path, got %v", err)
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fileStore, err := Open(ctx, BackendFile, filepath.Join(dir, "tasks.txt"))
	if err != nil {
		t.Fatalf("open file backend: %v", err)
	}
	if _, ok := fileStore.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", fileStore)
	}

	sqliteStore, err := Open(ctx, BackendSQLite, filepath.Join(dir, "tasks.db"))
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	defer sqliteStore.Close()
	if _, ok := sqliteStore.(*SQLiteRepository); !ok {
		t.Fatalf("expected *SQLiteRepository, got %T", sqliteStore)
	}

	if _, err := Open(ctx, Backend("s3"), "x"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}
