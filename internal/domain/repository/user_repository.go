package repository

import (
	"context"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	// UpdatePassword locks the user row, hands the current digest to next and
	// stores whatever digest it returns. An error from next aborts the update.
	UpdatePassword(ctx context.Context, id string, next func(currentDigest string) (string, error)) error
	// Delete removes the user; posts, comments, likes and the watchlist go with it.
	Delete(ctx context.Context, id string) error
}
