package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/handler"
	"github.com/iliyamo/mentor-match/internal/middleware"
	"github.com/iliyamo/mentor-match/internal/model"
)

// RegisterAdmin registers moderation endpoints under /v1/admin. ADMIN
// role only.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/users", h.ListUsers)
	g.PUT("/users/:id/role", h.SetRole)

	g.PUT("/requests/:id/status", h.OverrideRequestStatus)
	g.DELETE("/requests/:id", h.DeleteRequest)

	g.DELETE("/sessions/:id", h.DeleteSession)
}
