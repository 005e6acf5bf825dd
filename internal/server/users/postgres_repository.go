package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/weesnerdevelopment/authkit/internal/dbx"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	user.ID = uuid.New()

	query :=
		`INSERT INTO users (id, name, email, username, password_hash)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.Username, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query :=
		`SELECT id, name, email, username, password_hash, created_at, updated_at FROM users
		 WHERE username = $1
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Name, &user.Email, &user.Username,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *User) (*User, error) {
	query :=
		`UPDATE users
		 SET name = $2, email = $3, password_hash = $4, updated_at = now()
		 WHERE username = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Name, user.Email, user.PasswordHash).
		Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}
