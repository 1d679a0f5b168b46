package modules

import (
	"context"
	"expvar"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/blog-api/internal/interface/middleware"
	"github.com/oksasatya/blog-api/pkg/response"
)

// HealthCheck reports whether one backing service is reachable.
type HealthCheck func(ctx context.Context) error

// DebugModule exposes expvar, Prometheus metrics and a dependency health report.
type DebugModule struct {
	Checks map[string]HealthCheck
}

func NewDebugModule(checks map[string]HealthCheck) *DebugModule {
	return &DebugModule{Checks: checks}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	dbg := rg.Group("/debug", limit(120, middleware.KeyByIPAndPath()))
	dbg.GET("/vars", gin.WrapH(expvar.Handler()))
	dbg.GET("/metrics", gin.WrapH(promhttp.Handler()))
	dbg.GET("/health", m.health)
}

func (m *DebugModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(m.Checks))
	for name := range m.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := m.Checks[name](ctx); err != nil {
			report[name] = err.Error()
			healthy = false
			continue
		}
		report[name] = "ok"
	}
	if !healthy {
		response.Error(c, http.StatusServiceUnavailable, "degraded", report)
		return
	}
	response.Success(c, http.StatusOK, report, "healthy", nil)
}
