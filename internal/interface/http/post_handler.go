package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	"github.com/oksasatya/blog-api/internal/interface/middleware"
	"github.com/oksasatya/blog-api/pkg/response"
)

const maxImageBytes = 5 << 20

type PostService interface {
	List(ctx context.Context) ([]entity.Post, error)
	Get(ctx context.Context, id string) (*entity.Post, error)
	Create(ctx context.Context, sub policy.Subject, in entity.NewPostInput) (*entity.Post, error)
	Update(ctx context.Context, sub policy.Subject, id string, upd entity.PostUpdate) (*entity.Post, error)
	Delete(ctx context.Context, sub policy.Subject, id string) error
	Search(ctx context.Context, q string) ([]entity.Post, error)
	UploadImage(ctx context.Context, sub policy.Subject, id, filename, contentType string, r io.Reader) (*entity.Post, error)
}

type PostHandler struct {
	Svc    PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	ImageLink   *string `json:"image_link" binding:"omitempty,url"`
}

// Title is a pointer so an omitted key leaves it alone; the nullable fields
// also remember an explicit null, which clears them.
type updatePostRequest struct {
	Title       *string               `json:"title"`
	Description entity.OptionalString `json:"description"`
	ImageLink   entity.OptionalString `json:"image_link" binding:"omitempty,url"`
}

// Create POST /api/create_post
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), middleware.SubjectFrom(c), entity.NewPostInput{
		Title:       req.Title,
		Description: req.Description,
		ImageLink:   req.ImageLink,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toPost(p), "post created", nil)
}

// Update PATCH /api/update_post/:post_id
func (h *PostHandler) Update(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), middleware.SubjectFrom(c), c.Param("post_id"), entity.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageLink:   req.ImageLink,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(p), "post updated", nil)
}

// Delete DELETE /api/delete_post/:post_id
func (h *PostHandler) Delete(c *gin.Context) {
	id := c.Param("post_id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.SubjectFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "post deleted", nil)
}

// List GET /api/all_posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(posts), "posts", gin.H{"count": len(posts)})
}

// Get GET /api/post/:post_id
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(p), "post", nil)
}

// Search GET /api/posts/search?q=
func (h *PostHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, "q is required", nil)
		return
	}
	posts, err := h.Svc.Search(c.Request.Context(), q)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(posts), "search results", gin.H{"count": len(posts), "q": q})
}

// UploadImage POST /api/post/:post_id/image (multipart field "image")
func (h *PostHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	if fh.Size > maxImageBytes {
		response.Error(c, http.StatusBadRequest, "image is too large", gin.H{"max_bytes": maxImageBytes})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, http.StatusBadRequest, "file must be an image", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.UploadImage(c.Request.Context(), middleware.SubjectFrom(c), c.Param("post_id"), fh.Filename, contentType, f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(p), "image uploaded", nil)
}
