package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/queue"
	"github.com/iliyamo/mentor-match/internal/repository"
	"github.com/iliyamo/mentor-match/internal/service"
)

// CircleHandler manages group sessions: mentors open them, mentees join
// until the capacity is reached. The capacity check and the join insert
// run in one transaction so a full circle cannot be oversubscribed.
type CircleHandler struct {
	DB       *sql.DB
	Sessions *repository.SessionRepo
	Notifier *service.Notifier
}

func NewCircleHandler(db *sql.DB, s *repository.SessionRepo, n *service.Notifier) *CircleHandler {
	return &CircleHandler{DB: db, Sessions: s, Notifier: n}
}

type createCircleReq struct {
	Topic           string    `json:"topic" validate:"required,max=200"`
	Date            time.Time `json:"date" validate:"required"`
	MaxParticipants uint32    `json:"max_participants" validate:"required,min=2,max=500"`
}

// Create opens a group session owned by the calling mentor.
func (h *CircleHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCircleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	at := req.Date.UTC().Truncate(time.Minute)
	if !at.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be in the future"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id, err := h.Sessions.CreateCircle(ctx, uid, req.Topic, at, req.MaxParticipants, uuid.NewString())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create circle failed"})
	}
	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusCreated, toSessionResp(s, time.Now().UTC()))
}

// Join adds the caller to an upcoming circle. A full circle returns 409,
// as does a second join by the same user.
func (h *CircleHandler) Join(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid circle id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "circle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !s.IsCircle() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "circle not found"})
	}
	if s.MentorID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot join your own circle"})
	}
	if model.DeriveStatus(s.Date, time.Now().UTC()) != model.SessionUpcoming {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "circle already completed"})
	}

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	count, err := h.Sessions.CountParticipantsTx(ctx, tx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if count >= s.MaxParticipants {
		return c.JSON(http.StatusConflict, echo.Map{"error": "circle is full"})
	}
	if err := h.Sessions.AddParticipantTx(ctx, tx, id, uid); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already joined"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "join failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Notifier.NotifyQuiet(ctx, s.MentorID,
		"Someone joined your circle",
		fmt.Sprintf("/circles/%d", id))

	_ = service.PublishSessionBooked(ctx, queue.SessionBookedEvent{
		SessionID:  id,
		BookingRef: s.BookingRef,
		MentorID:   s.MentorID,
		MenteeID:   uid,
		Kind:       "CIRCLE",
		Topic:      derefString(s.Topic),
		Date:       s.Date.UTC().Format(time.RFC3339),
		BookedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"joined": true, "circle_id": id})
}

// List returns upcoming circles with their participant counts.
func (h *CircleHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	now := time.Now().UTC()
	sessions, counts, err := h.Sessions.ListUpcomingCircles(ctx, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(sessions))
	for i, s := range sessions {
		resp := toSessionResp(s, now)
		out = append(out, echo.Map{
			"circle":       resp,
			"participants": counts[i],
			"spots_left":   spotsLeft(s.MaxParticipants, counts[i]),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"circles": out})
}

func spotsLeft(max, taken uint32) uint32 {
	if taken >= max {
		return 0
	}
	return max - taken
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
