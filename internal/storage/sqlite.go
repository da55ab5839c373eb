package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite — реализация Store поверх единственной таблицы kv в sqlite-файле.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite открывает (или создаёт) файл хранилища по указанному пути.
func OpenSQLite(path string) (*SQLite, error) {
	const op = "storage.OpenSQLite"
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &SQLite{db: db}, nil
}

// Get возвращает значение по ключу.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.Get"
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

// Set сохраняет значение по ключу.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	const op = "storage.Set"
	query := `INSERT INTO kv (key, value) VALUES (?, ?)
			  ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Remove удаляет значение по ключу.
func (s *SQLite) Remove(ctx context.Context, key string) error {
	const op = "storage.Remove"
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает файл хранилища.
func (s *SQLite) Close() error {
	return s.db.Close()
}
