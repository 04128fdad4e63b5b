// Package router wires handlers to routes. Public browse endpoints are
// cacheable; everything else runs behind JWT auth with role gates.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/mentor-match/internal/config"
	"github.com/iliyamo/mentor-match/internal/handler"
	"github.com/iliyamo/mentor-match/internal/middleware"
)

// RegisterHealth exposes the liveness probe.
func RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints under /v1/auth and the
// identity echo under /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the unauthenticated browse endpoints. GET
// responses are cached in Redis when a client is available.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, circles *handler.CircleHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/mentors", b.ListMentors)
	g.GET("/mentors/:id", b.GetMentor)
	g.GET("/search/mentors", b.SearchMentors)
	g.GET("/circles", circles.List)
}
