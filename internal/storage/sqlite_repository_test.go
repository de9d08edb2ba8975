package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "taskline-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestSQLiteLoadEmpty(t *testing.T) {
	repo := setupRepo(t)
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSQLiteSaveLoadPreservesOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	lines := []string{
		"[T][ ] read book",
		"[D][✓] submit report (by: 2/12/2019 1800)",
		"[E][ ] project meeting (at: Mon 2-4pm)",
	}
	if err := repo.Save(ctx, lines); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("load = %#v, want %#v", got, lines)
	}
}

func TestSQLiteSaveReplacesPreviousContent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	if err := repo.Save(ctx, []string{"[T][ ] a", "[T][ ] b", "[T][ ] c"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, []string{"[T][ ] c"}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"[T][ ] c"}) {
		t.Fatalf("stale rows survived save: %#v", got)
	}
}

func TestOpenSQLiteCreatesDirectoryAndMigrates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.db")
	repo, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.Save(ctx, []string{"[T][ ] persisted"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"[T][ ] persisted"}) {
		t.Fatalf("unexpected lines after reopen: %#v", got)
	}
}

func TestSQLiteLoadWithoutSchemaReturnsStorageError(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "bare.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	_, err = repo.Load(context.Background())
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "load" {
		t.Fatalf("expected load StorageError, got %v", err)
	}
}

func TestNewSQLiteRepositoryNilDB(t *testing.T) {
	if _, err := NewSQLiteRepository(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestNewSQLiteRepositoryDoesNotQueryDB(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	_ = db.Close()
	if _, err := NewSQLiteRepository(db); err != nil {
		t.Fatalf("constructor should only wrap the handle, got %v", err)
	}
}
