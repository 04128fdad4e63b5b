package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/handler"
	"github.com/iliyamo/mentor-match/internal/middleware"
	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
)

// RegisterMentee registers mentee-scoped endpoints: sending requests,
// booking 1:1 sessions and joining circles. Creating a request or
// booking requires a complete profile.
func RegisterMentee(e *echo.Echo, req *handler.RequestHandler, sess *handler.SessionHandler, circ *handler.CircleHandler, profiles *repository.ProfileRepo, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleMentee, model.RoleAdmin),
	)

	complete := middleware.RequireCompleteProfile(profiles)

	g.POST("/requests", req.Create, complete)
	g.GET("/requests/sent", req.ListSent)

	g.GET("/sessions/availability/:mentorId", sess.OpenSlots)
	g.POST("/sessions", sess.Book, complete)

	g.POST("/circles/:id/join", circ.Join, complete)
}
