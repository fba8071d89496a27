package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresRepository stores members in a postgres table. It creates its
// own schema on construction.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository ensures the members schema exists and returns the
// repository.
func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	r := &PostgresRepository{db: db}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepository) ensureSchema() error {
	const q = `
CREATE TABLE IF NOT EXISTS members (
	member_id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	nickname TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := r.db.Exec(q); err != nil {
		return fmt.Errorf("ensure members schema: %w", err)
	}
	return nil
}

// FindByUsername returns the member with the exact username, or ErrNotFound.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*Member, error) {
	const q = `
SELECT member_id, username, password_hash, nickname, role, created_at, updated_at
FROM members
WHERE username = $1`
	var m Member
	err := r.db.QueryRowContext(ctx, q, username).Scan(
		&m.ID, &m.Username, &m.PasswordHash, &m.Nickname, &m.Role, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query member by username: %w", err)
	}
	return &m, nil
}

// ExistsByUsername reports whether a member with the exact username exists.
func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE username = $1)`, username)
}

// ExistsByNickname reports whether a member with the exact nickname exists.
func (r *PostgresRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE nickname = $1)`, nickname)
}

func (r *PostgresRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("query member existence: %w", err)
	}
	return found, nil
}

// Save inserts a new member or updates an existing one by ID. The store
// assigns IDs and timestamps; callers leave them zero on insert.
func (r *PostgresRepository) Save(ctx context.Context, m *Member) error {
	now := time.Now().UTC()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	const q = `
INSERT INTO members (member_id, username, password_hash, nickname, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (member_id) DO UPDATE SET
	username = EXCLUDED.username,
	password_hash = EXCLUDED.password_hash,
	nickname = EXCLUDED.nickname,
	role = EXCLUDED.role,
	updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, q, m.ID, m.Username, m.PasswordHash, m.Nickname, m.Role, m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}
