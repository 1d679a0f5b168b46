package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/blog-api/internal/interface/http"
)

// RelationModule serves watchlists and likes.
type RelationModule struct {
	Handler *handlers.RelationHandler
}

func NewRelationModule(h *handlers.RelationHandler) *RelationModule {
	return &RelationModule{Handler: h}
}

func (m *RelationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/", authenticated()...)
	{
		auth.POST("/add_to_watch_list/:post_id", m.Handler.AddToWatchlist)
		auth.POST("/remove_from_watch_list/:post_id", m.Handler.RemoveFromWatchlist)
		auth.GET("/saved_posts", m.Handler.SavedPosts)
		auth.POST("/post_like_handler", m.Handler.Like)
		auth.GET("/liked_posts", m.Handler.LikedPosts)
	}
}
