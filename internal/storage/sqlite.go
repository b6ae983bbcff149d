package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"alcyxob/liftplan/internal/config"
	"alcyxob/liftplan/internal/domain"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS plan_documents (
	key TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	digest TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStorage keeps plans as rows of a single SQLite table, keyed by path.
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStorage opens (creating if needed) the database at cfg.Path.
func OpenSQLiteStorage(ctx context.Context, cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, ErrBackendNotConfigured
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}
	conn, err := sql.Open("sqlite", sqliteDSN(cfg.Path))
	if err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create plan_documents: %w", err)
	}
	return &SQLiteStorage{db: conn, now: time.Now}, nil
}

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// sqliteDSN builds a file: URI for path. Each path element is escaped so
// that '?', '#' and '%' in directory or file names reach SQLite intact.
func sqliteDSN(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "file:" + strings.Join(parts, "/") + "?" + sqlitePragmas
}

// Load returns the body stored under key.
func (s *SQLiteStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidPath
	}
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM plan_documents WHERE key = ?`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: sqlite://%s", ErrObjectNotFound, key)
		}
		return nil, err
	}
	return body, nil
}

// Save inserts or replaces the row for key.
func (s *SQLiteStorage) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidPath
	}
	now := s.now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `INSERT INTO plan_documents(key, body, digest, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET body = excluded.body, digest = excluded.digest, updated_at = excluded.updated_at`,
		key, data, domain.Digest(data), now, now)
	if err != nil {
		return fmt.Errorf("save plan document %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
