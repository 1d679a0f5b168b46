package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/repository"
)

type LikeRepository struct {
	db DB
}

func NewLikeRepository(db DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func userAndPostExist(ctx context.Context, q querier, userID, postID string) (bool, error) {
	if !validID(userID) || !validID(postID) {
		return false, nil
	}
	var userOK, postOK bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1),
		       EXISTS (SELECT 1 FROM posts WHERE id = $2)
	`, userID, postID).Scan(&userOK, &postOK)
	return userOK && postOK, err
}

// Like adds postID to the user's liked set. Liking twice is a no-op.
func (r *LikeRepository) Like(ctx context.Context, userID, postID string) (bool, error) {
	return r.mutate(ctx, userID, postID, `
		INSERT INTO liked_posts (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`)
}

// Unlike removes postID from the user's liked set; an absent member is a no-op.
func (r *LikeRepository) Unlike(ctx context.Context, userID, postID string) (bool, error) {
	return r.mutate(ctx, userID, postID, `DELETE FROM liked_posts WHERE user_id = $1 AND post_id = $2`)
}

func (r *LikeRepository) mutate(ctx context.Context, userID, postID, stmt string) (bool, error) {
	var done bool
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		ok, err := userAndPostExist(ctx, tx, userID, postID)
		if err != nil || !ok {
			return err
		}
		if _, err := tx.Exec(ctx, stmt, userID, postID); err != nil {
			return err
		}
		done = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("update liked posts: %w", err)
	}
	return done, nil
}

func (r *LikeRepository) LikedPosts(ctx context.Context, userID string) ([]entity.Post, error) {
	if !validID(userID) {
		return nil, entity.ErrUserNotFound
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, entity.ErrUserNotFound
	}
	posts, err := queryPosts(ctx, r.db, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN liked_posts lp ON lp.post_id = p.id
		WHERE lp.user_id = $1
		ORDER BY lp.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked posts: %w", err)
	}
	return posts, nil
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
