package router

import "github.com/gin-gonic/gin"

// Module is a feature area that mounts its own routes.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them under one API group.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine, prefix string) *Registry {
	return &Registry{Engine: engine, API: engine.Group(prefix)}
}

// Use adds middleware applied to every module's routes.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	for _, m := range mods {
		if m != nil {
			r.modules = append(r.modules, m)
		}
	}
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
