package postgres

import (
	"context"
	"fmt"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/repository"
)

type CommentRepository struct {
	db DB
}

func NewCommentRepository(db DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	if !validID(c.PostID) {
		return entity.ErrPostNotFound
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO comments (comment_text, post_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.Text, c.PostID, c.AuthorID)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			if pgConstraint(err) == fkCommentsAuthor {
				return entity.ErrUserNotFound
			}
			return entity.ErrPostNotFound
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// ListByPost returns entity.ErrPostNotFound when the post itself is absent,
// and an empty slice when it simply has no comments.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]entity.Comment, error) {
	ok, err := postExists(ctx, r.db, postID)
	if err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if !ok {
		return nil, entity.ErrPostNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, comment_text, post_id, author_id, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]entity.Comment, 0)
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.PostID, &c.AuthorID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
