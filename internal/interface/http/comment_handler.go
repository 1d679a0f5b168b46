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

type CommentService interface {
	Create(ctx context.Context, sub policy.Subject, postID, text string) (*entity.Comment, error)
	ListByPost(ctx context.Context, sub policy.Subject, postID string) ([]entity.Comment, error)
	Delete(ctx context.Context, sub policy.Subject, id string) error
}

type CommentHandler struct {
	Svc    CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

// The author comes from the token; any author_id in the body is ignored.
type leaveCommentRequest struct {
	PostID string `json:"post_id" binding:"required"`
	Text   string `json:"comment_text" binding:"required"`
}

// Create POST /api/leave_comment
func (h *CommentHandler) Create(c *gin.Context) {
	var req leaveCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	cm, err := h.Svc.Create(c.Request.Context(), middleware.SubjectFrom(c), req.PostID, req.Text)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toComment(cm), "comment created", nil)
}

// List GET /api/post/:post_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	cs, err := h.Svc.ListByPost(c.Request.Context(), middleware.SubjectFrom(c), c.Param("post_id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toComments(cs), "comments", gin.H{"count": len(cs)})
}

// Delete DELETE /api/comment_delete/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	id := c.Param("comment_id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.SubjectFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "comment deleted", nil)
}
