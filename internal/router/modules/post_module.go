package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blog-api/internal/interface/http"
	"github.com/oksasatya/blog-api/internal/interface/middleware"
)

type PostModule struct {
	Handler *handlers.PostHandler
}

func NewPostModule(h *handlers.PostHandler) *PostModule {
	return &PostModule{Handler: h}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	// Public reads
	rg.GET("/all_posts", m.Handler.List)
	rg.GET("/post/:post_id", m.Handler.Get)
	rg.GET("/posts/search", limit(60, middleware.KeyByIPAndPath()), m.Handler.Search)

	auth := rg.Group("/", authenticated()...)
	{
		auth.POST("/create_post", m.Handler.Create)
		auth.PATCH("/update_post/:post_id", m.Handler.Update)
		auth.DELETE("/delete_post/:post_id", m.Handler.Delete)
		auth.POST("/post/:post_id/image", limit(10, middleware.KeyByUserID()), m.Handler.UploadImage)
	}
}
