package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/weesnerdevelopment/authkit/internal/client/migrations"
	"github.com/weesnerdevelopment/authkit/internal/dbx"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the token in a local metadata table, the moral
// equivalent of a mobile app's preferences area.
type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open opens (creating if needed) the local credentials database and
// applies pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open credentials db: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migrate credentials db: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, tokenKey, token)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, tokenKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

func (s *SQLiteStore) Remove(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, tokenKey)
	if err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
