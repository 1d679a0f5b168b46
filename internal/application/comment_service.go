package application

import (
	"context"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	repo "github.com/oksasatya/blog-api/internal/domain/repository"
)

type CommentService struct {
	Comments repo.CommentRepository
}

// Create binds the comment to the authenticated caller, never to client input.
func (s *CommentService) Create(ctx context.Context, sub policy.Subject, postID, text string) (*entity.Comment, error) {
	if err := policy.Authorize(sub, policy.CreateComment); err != nil {
		return nil, err
	}
	c, err := entity.NewComment(postID, sub.UserID, text)
	if err != nil {
		return nil, err
	}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) ListByPost(ctx context.Context, sub policy.Subject, postID string) ([]entity.Comment, error) {
	if err := policy.Authorize(sub, policy.ListComments); err != nil {
		return nil, err
	}
	return s.Comments.ListByPost(ctx, postID)
}

// Delete is gated by role only; the comment's author is not consulted.
func (s *CommentService) Delete(ctx context.Context, sub policy.Subject, id string) error {
	if err := policy.Authorize(sub, policy.DeleteComment); err != nil {
		return err
	}
	ok, err := s.Comments.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return entity.ErrCommentNotFound
	}
	return nil
}
