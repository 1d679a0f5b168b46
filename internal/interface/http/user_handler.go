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

type UserAdminService interface {
	List(ctx context.Context, sub policy.Subject) ([]entity.User, error)
	Delete(ctx context.Context, sub policy.Subject, id string) error
}

type UserHandler struct {
	Svc    UserAdminService
	Logger *logrus.Logger
}

func NewUserHandler(svc UserAdminService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// List GET /api/all_users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context(), middleware.SubjectFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(users), "users", gin.H{"count": len(users)})
}

// Delete DELETE /api/delete_user/:user_id
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("user_id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.SubjectFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "user deleted", nil)
}
