package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/handler"
	"github.com/iliyamo/mentor-match/internal/middleware"
	"github.com/iliyamo/mentor-match/internal/model"
)

// RegisterShared registers endpoints available to every authenticated
// role: profiles, request resolution, session listings and feedback,
// insights, goals, notifications, conversations, the AI assistant and
// the live event stream.
func RegisterShared(
	e *echo.Echo,
	prof *handler.ProfileHandler,
	req *handler.RequestHandler,
	sess *handler.SessionHandler,
	ins *handler.InsightHandler,
	goals *handler.GoalHandler,
	notif *handler.NotificationHandler,
	conv *handler.ConversationHandler,
	assist *handler.AssistantHandler,
	events *handler.EventsHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleMentor, model.RoleMentee, model.RoleAdmin),
	)

	g.GET("/profile", prof.Get)
	g.PUT("/profile", prof.Put)

	// Resolution is shared: the mentor accepts/rejects, the mentee cancels.
	g.PUT("/requests/:id", req.Update)

	g.GET("/sessions", sess.List)
	g.PUT("/sessions/:id/feedback", sess.Feedback)
	g.POST("/sessions/:id/insights", ins.Generate)

	g.POST("/requests/:id/goals", goals.Create)
	g.GET("/requests/:id/goals", goals.List)
	g.PUT("/goals/:id", goals.Update)
	g.DELETE("/goals/:id", goals.Delete)

	g.GET("/notifications", notif.List)
	g.PUT("/notifications/:id/read", notif.MarkRead)
	g.PUT("/notifications/read-all", notif.MarkAllRead)

	g.GET("/conversations", conv.List)
	g.GET("/conversations/:id/messages", conv.Messages)
	g.POST("/conversations/:id/messages", conv.Send)

	g.POST("/assistant/chat", assist.Chat)

	g.GET("/events", events.Stream)
}
