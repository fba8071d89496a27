// Package member holds the principal model and its persistent store.
package member

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Member roles. New accounts always start as RoleUser.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// ErrNotFound is returned when no member matches the lookup.
var ErrNotFound = errors.New("member not found")

// Member is an account record. CreatedAt/UpdatedAt are set by the store,
// not by callers.
type Member struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Nickname     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository is the user-record store consumed by the auth pipeline.
// Username and nickname matches are case-sensitive exact comparisons.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Member, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	Save(ctx context.Context, m *Member) error
}
