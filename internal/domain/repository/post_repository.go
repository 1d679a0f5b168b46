package repository

import (
	"context"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

// PostRepository persists posts. Mutations are scoped to the author: a write
// issued for a post the author does not own matches no rows.
type PostRepository interface {
	List(ctx context.Context) ([]entity.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]entity.Post, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Create(ctx context.Context, p *entity.Post) error
	Update(ctx context.Context, id, authorID string, upd entity.PostUpdate) (bool, error)
	Delete(ctx context.Context, id, authorID string) (bool, error)
}
