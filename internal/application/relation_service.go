package application

import (
	"context"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	repo "github.com/oksasatya/blog-api/internal/domain/repository"
)

// Like dispatch modes.
const (
	LikeModeLike    = "liking"
	LikeModeDislike = "dislike"
)

type WatchlistService struct {
	Watchlists repo.WatchlistRepository
}

func (s *WatchlistService) Add(ctx context.Context, sub policy.Subject, postID string) (*entity.Watchlist, error) {
	if sub.UserID == "" {
		return nil, entity.ErrUnauthorized
	}
	return s.Watchlists.AddPost(ctx, sub.UserID, postID)
}

func (s *WatchlistService) Remove(ctx context.Context, sub policy.Subject, postID string) (*entity.Watchlist, error) {
	if sub.UserID == "" {
		return nil, entity.ErrUnauthorized
	}
	return s.Watchlists.RemovePost(ctx, sub.UserID, postID)
}

// Get returns ErrWatchlistNotFound when the caller never saved anything.
func (s *WatchlistService) Get(ctx context.Context, sub policy.Subject) (*entity.Watchlist, error) {
	if sub.UserID == "" {
		return nil, entity.ErrUnauthorized
	}
	return s.Watchlists.Get(ctx, sub.UserID)
}

type LikeService struct {
	Likes repo.LikeRepository
}

func (s *LikeService) Like(ctx context.Context, sub policy.Subject, postID string) (bool, error) {
	if sub.UserID == "" {
		return false, entity.ErrUnauthorized
	}
	return s.Likes.Like(ctx, sub.UserID, postID)
}

func (s *LikeService) Unlike(ctx context.Context, sub policy.Subject, postID string) (bool, error) {
	if sub.UserID == "" {
		return false, entity.ErrUnauthorized
	}
	return s.Likes.Unlike(ctx, sub.UserID, postID)
}

// Handle dispatches on mode and reports overall success. Unknown modes do nothing.
func (s *LikeService) Handle(ctx context.Context, sub policy.Subject, postID, mode string) (bool, error) {
	switch mode {
	case LikeModeLike:
		return s.Like(ctx, sub, postID)
	case LikeModeDislike:
		return s.Unlike(ctx, sub, postID)
	default:
		return false, nil
	}
}

func (s *LikeService) LikedPosts(ctx context.Context, sub policy.Subject) ([]entity.Post, error) {
	if sub.UserID == "" {
		return nil, entity.ErrUnauthorized
	}
	return s.Likes.LikedPosts(ctx, sub.UserID)
}
