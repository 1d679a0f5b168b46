package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blog-api/internal/interface/http"
)

type CommentModule struct {
	Handler *handlers.CommentHandler
}

func NewCommentModule(h *handlers.CommentHandler) *CommentModule {
	return &CommentModule{Handler: h}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/", authenticated()...)
	{
		auth.POST("/leave_comment", m.Handler.Create)
		auth.GET("/post/:post_id/comments", m.Handler.List)
		auth.DELETE("/comment_delete/:comment_id", m.Handler.Delete)
	}
}
