package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blog-api/internal/interface/http"
	"github.com/oksasatya/blog-api/internal/interface/middleware"
)

// AuthModule serves registration, login and password reset.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/user_create", limit(10, middleware.KeyByIPAndPath()), m.Handler.Register)
	rg.POST("/token", limit(10, middleware.KeyByIPAndPath()), m.Handler.Login)

	auth := rg.Group("/", authenticated()...)
	auth.POST("/reset_password", limit(5, middleware.KeyByUserID()), m.Handler.ResetPassword)
}
