package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	"github.com/oksasatya/blog-api/internal/interface/middleware"
	"github.com/oksasatya/blog-api/pkg/response"
)

type WatchlistService interface {
	Add(ctx context.Context, sub policy.Subject, postID string) (*entity.Watchlist, error)
	Remove(ctx context.Context, sub policy.Subject, postID string) (*entity.Watchlist, error)
	Get(ctx context.Context, sub policy.Subject) (*entity.Watchlist, error)
}

type LikeService interface {
	Handle(ctx context.Context, sub policy.Subject, postID, mode string) (bool, error)
	LikedPosts(ctx context.Context, sub policy.Subject) ([]entity.Post, error)
}

type RelationHandler struct {
	Watchlists WatchlistService
	Likes      LikeService
	Logger     *logrus.Logger
}

func NewRelationHandler(w WatchlistService, l LikeService, logger *logrus.Logger) *RelationHandler {
	return &RelationHandler{Watchlists: w, Likes: l, Logger: logger}
}

type likeRequest struct {
	PostID    string `json:"post_id" binding:"required"`
	Operation string `json:"operation" binding:"required,oneof=liking dislike"`
}

// AddToWatchlist POST /api/add_to_watch_list/:post_id
func (h *RelationHandler) AddToWatchlist(c *gin.Context) {
	w, err := h.Watchlists.Add(c.Request.Context(), middleware.SubjectFrom(c), c.Param("post_id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toWatchlist(w), "watchlist updated", nil)
}

// RemoveFromWatchlist POST /api/remove_from_watch_list/:post_id
func (h *RelationHandler) RemoveFromWatchlist(c *gin.Context) {
	w, err := h.Watchlists.Remove(c.Request.Context(), middleware.SubjectFrom(c), c.Param("post_id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toWatchlist(w), "watchlist updated", nil)
}

// SavedPosts GET /api/saved_posts
func (h *RelationHandler) SavedPosts(c *gin.Context) {
	w, err := h.Watchlists.Get(c.Request.Context(), middleware.SubjectFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toWatchlist(w), "saved posts", gin.H{"count": len(w.SavedPosts)})
}

// Like POST /api/post_like_handler
func (h *RelationHandler) Like(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	ok, err := h.Likes.Handle(c.Request.Context(), middleware.SubjectFrom(c), req.PostID, req.Operation)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if !ok {
		fail(c, h.Logger, entity.ErrPostNotFound)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"post_id": req.PostID, "operation": req.Operation}, "done", nil)
}

// LikedPosts GET /api/liked_posts
func (h *RelationHandler) LikedPosts(c *gin.Context) {
	posts, err := h.Likes.LikedPosts(c.Request.Context(), middleware.SubjectFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(posts), "liked posts", gin.H{"count": len(posts)})
}
