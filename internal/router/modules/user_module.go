package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blog-api/internal/interface/http"
)

// UserModule exposes the admin-only user routes; the role check lives in the service.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/", authenticated()...)
	{
		auth.GET("/all_users", m.Handler.List)
		auth.DELETE("/delete_user/:user_id", m.Handler.Delete)
	}
}
