package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/internal/application"
	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	"github.com/oksasatya/blog-api/internal/interface/middleware"
	"github.com/oksasatya/blog-api/pkg/response"
)

type AccountService interface {
	Register(ctx context.Context, in entity.NewUserInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*application.AccessToken, error)
	ResetPassword(ctx context.Context, sub policy.Subject, oldPassword, newPassword string) error
}

type AuthHandler struct {
	Svc    AccountService
	Logger *logrus.Logger
}

func NewAuthHandler(svc AccountService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,password"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	Password    string `json:"password" binding:"required,password"`
}

// Register POST /api/user_create
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if req.Role == "" {
		req.Role = entity.RoleCustom.String()
	}
	u, err := h.Svc.Register(c.Request.Context(), entity.NewUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUser(u), "user created", nil)
}

// Login POST /api/token
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	tok, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tok, "login successful", gin.H{"expires_at": tok.ExpiresAt})
}

// ResetPassword POST /api/reset_password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), middleware.SubjectFrom(c), req.OldPassword, req.Password); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
