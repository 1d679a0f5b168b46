package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/blog-api/internal/container"
	"github.com/oksasatya/blog-api/internal/interface/middleware"
)

// limit builds a per-minute limiter from the container. It passes everything
// through when Redis is absent or RATE_LIMIT_ENABLED is off; in development
// private addresses bypass it.
func limit(perMinute int, keyFn middleware.KeyFunc) gin.HandlerFunc {
	cfg := container.GetConfig()
	var rdb *redis.Client
	if cfg == nil || cfg.RateLimitEnabled {
		rdb = container.GetRedis()
	}
	var allow middleware.AllowFunc
	if cfg != nil && cfg.Env == "development" {
		allow = middleware.AllowPrivateIP()
	}
	return middleware.RateLimit(rdb, perMinute, time.Minute, keyFn, allow)
}

// authenticated is the middleware chain shared by protected routes.
func authenticated() []gin.HandlerFunc {
	header := "X-Token"
	if cfg := container.GetConfig(); cfg != nil && cfg.TokenHeader != "" {
		header = cfg.TokenHeader
	}
	return []gin.HandlerFunc{
		middleware.Auth(container.GetJWT(), header),
		limit(120, middleware.KeyByUserID()),
	}
}
