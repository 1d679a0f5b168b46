package repository

import (
	"context"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

// WatchlistRepository keeps the one-to-one user to watchlist link and the
// watchlist to post set.
type WatchlistRepository interface {
	Get(ctx context.Context, userID string) (*entity.Watchlist, error)
	GetOrCreate(ctx context.Context, userID string) (*entity.Watchlist, error)
	// AddPost creates the watchlist on demand. A missing post leaves the list unchanged.
	AddPost(ctx context.Context, userID, postID string) (*entity.Watchlist, error)
	RemovePost(ctx context.Context, userID, postID string) (*entity.Watchlist, error)
}

// LikeRepository keeps the user to liked post set.
type LikeRepository interface {
	// Like and Unlike report false when the user or the post does not exist.
	Like(ctx context.Context, userID, postID string) (bool, error)
	Unlike(ctx context.Context, userID, postID string) (bool, error)
	LikedPosts(ctx context.Context, userID string) ([]entity.Post, error)
}
