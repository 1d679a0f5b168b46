package repository

import (
	"context"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	ListByPost(ctx context.Context, postID string) ([]entity.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
}
