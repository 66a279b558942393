package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository stores filing accounts. Usernames compare case-insensitively.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// FindAll returns every account ordered by username
	FindAll(ctx context.Context) ([]User, error)
}
