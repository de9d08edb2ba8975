package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StorageError{Op: "open", Path: path, Err: err}
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "migrate", Path: path, Err: err}
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	repo.path = path
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT position, line FROM task_lines ORDER BY position ASC`)
	if err != nil {
		return nil, &StorageError{Op: "load", Path: r.path, Err: err}
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		line, scanErr := scanLine(rows)
		if scanErr != nil {
			return nil, &StorageError{Op: "load", Path: r.path, Err: scanErr}
		}
		out = append(out, line)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "load", Path: r.path, Err: err}
	}
	return out, nil
}

// Save replaces every stored line in a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, lines []string) error {
	if err := r.replaceAll(ctx, lines); err != nil {
		return &StorageError{Op: "save", Path: r.path, Err: err}
	}
	return nil
}

func (r *SQLiteRepository) replaceAll(ctx context.Context, lines []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_lines`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO task_lines (position, line) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, line := range lines {
		if _, err := stmt.ExecContext(ctx, i, line); err != nil {
			return fmt.Errorf("insert line %d: %w", i, err)
		}
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLine(s scanner) (string, error) {
	var position int
	var line string
	if err := s.Scan(&position, &line); err != nil {
		return "", err
	}
	return line, nil
}
