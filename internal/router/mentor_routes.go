package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/handler"
	"github.com/iliyamo/mentor-match/internal/middleware"
	"github.com/iliyamo/mentor-match/internal/model"
)

// RegisterMentor registers mentor-scoped endpoints: the incoming request
// inbox, availability windows and opening circles.
func RegisterMentor(e *echo.Echo, req *handler.RequestHandler, avail *handler.AvailabilityHandler, circ *handler.CircleHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleMentor, model.RoleAdmin),
	)

	g.GET("/requests/received", req.ListReceived)

	g.POST("/availability", avail.Create)
	g.GET("/availability", avail.List)
	g.DELETE("/availability/:id", avail.Delete)

	g.POST("/circles", circ.Create)
}
