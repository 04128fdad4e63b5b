package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
	"github.com/iliyamo/mentor-match/internal/service"
)

// InsightHandler generates AI insights for completed sessions: a
// summary, the discussed topics and action items, extracted from notes
// supplied by a participant.
type InsightHandler struct {
	Sessions  *repository.SessionRepo
	Assistant *service.Assistant
}

func NewInsightHandler(s *repository.SessionRepo, a *service.Assistant) *InsightHandler {
	return &InsightHandler{Sessions: s, Assistant: a}
}

type insightReq struct {
	Notes string `json:"notes" validate:"required,max=20000"`
}

// Generate runs the notes through the assistant and stores the result on
// the session. Only participants of a COMPLETED session may call it; an
// assistant failure maps to 502.
func (h *InsightHandler) Generate(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req insightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	participant := s.MentorID == uid || (s.MenteeID != nil && *s.MenteeID == uid)
	if !participant && s.IsCircle() {
		ids, err := h.Sessions.ListParticipants(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		for _, pid := range ids {
			if pid == uid {
				participant = true
				break
			}
		}
	}
	if !participant {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if model.DeriveStatus(s.Date, time.Now().UTC()) != model.SessionCompleted {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "session not completed yet"})
	}

	// The assistant call runs on the request context, not the bounded DB
	// context; model latency regularly exceeds five seconds.
	ins, err := h.Assistant.GenerateInsights(c.Request().Context(), req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrUpstream) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "assistant unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insights failed"})
	}

	topicsJSON, err := json.Marshal(ins.Topics)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insights failed"})
	}
	actionsJSON, err := json.Marshal(ins.ActionItems)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insights failed"})
	}
	if err := h.Sessions.SetInsights(ctx, id, ins.Summary, string(topicsJSON), string(actionsJSON)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save insights failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"session_id":   id,
		"summary":      ins.Summary,
		"topics":       ins.Topics,
		"action_items": ins.ActionItems,
	})
}
