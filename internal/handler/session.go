package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/config"
	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/queue"
	"github.com/iliyamo/mentor-match/internal/repository"
	"github.com/iliyamo/mentor-match/internal/service"
)

// SessionHandler books 1:1 sessions and serves session listings. The
// booking write re-checks the slot inside a transaction holding row
// locks, so two mentees cannot book the same instant.
type SessionHandler struct {
	DB           *sql.DB
	Cfg          config.Config
	Sessions     *repository.SessionRepo
	Requests     *repository.RequestRepo
	Availability *repository.AvailabilityRepo
	Notifier     *service.Notifier
}

func NewSessionHandler(db *sql.DB, cfg config.Config, s *repository.SessionRepo, r *repository.RequestRepo, a *repository.AvailabilityRepo, n *service.Notifier) *SessionHandler {
	return &SessionHandler{DB: db, Cfg: cfg, Sessions: s, Requests: r, Availability: a, Notifier: n}
}

type bookReq struct {
	MentorID uint64    `json:"mentor_id" validate:"required"`
	Date     time.Time `json:"date" validate:"required"`
}

type sessionResp struct {
	ID              uint64   `json:"id"`
	MentorID        uint64   `json:"mentor_id"`
	MenteeID        *uint64  `json:"mentee_id,omitempty"`
	Date            string   `json:"date"`
	Status          string   `json:"status"`
	BookingRef      string   `json:"booking_ref"`
	Topic           *string  `json:"topic,omitempty"`
	MaxParticipants uint32   `json:"max_participants,omitempty"`
	Rating          *uint8   `json:"rating,omitempty"`
	Feedback        *string  `json:"feedback,omitempty"`
	Summary         *string  `json:"summary,omitempty"`
	Topics          *string  `json:"topics,omitempty"`
	ActionItems     *string  `json:"action_items,omitempty"`
	Participants    []uint64 `json:"participants,omitempty"`
}

func toSessionResp(s model.Session, now time.Time) sessionResp {
	return sessionResp{
		ID:              s.ID,
		MentorID:        s.MentorID,
		MenteeID:        s.MenteeID,
		Date:            s.Date.UTC().Format(time.RFC3339),
		Status:          model.DeriveStatus(s.Date, now),
		BookingRef:      s.BookingRef,
		Topic:           s.Topic,
		MaxParticipants: s.MaxParticipants,
		Rating:          s.Rating,
		Feedback:        s.Feedback,
		Summary:         s.Summary,
		Topics:          s.Topics,
		ActionItems:     s.ActionItems,
	}
}

// OpenSlots projects a mentor's weekly windows forward and subtracts
// booked sessions, returning the bookable start times.
func (h *SessionHandler) OpenSlots(c echo.Context) error {
	mentorID, err := pathID(c, "mentorId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mentor id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	windows, err := h.Availability.ListByMentor(ctx, mentorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	now := time.Now().UTC()
	taken, err := h.Sessions.TakenTimesForMentor(ctx, mentorID, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	slots := model.ExpandOpenSlots(windows, taken, now, h.Cfg.HorizonDays, h.Cfg.SlotMinutes)
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(time.RFC3339))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"mentor_id":    mentorID,
		"slot_minutes": h.Cfg.SlotMinutes,
		"slots":        out,
	})
}

// Book reserves a 1:1 slot with a mentor the caller has an ACCEPTED
// relationship with. The start must be one of the advertised slot
// starts and still free; the free check runs under row locks before
// the insert commits.
func (h *SessionHandler) Book(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
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

	accepted, err := h.Requests.HasAccepted(ctx, req.MentorID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !accepted {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no accepted mentorship with this mentor"})
	}

	windows, err := h.Availability.ListByMentor(ctx, req.MentorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !model.SlotWithinWindows(at, windows, h.Cfg.SlotMinutes) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not an open slot for this mentor"})
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

	taken, err := h.Sessions.SlotTakenTx(ctx, tx, req.MentorID, at)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot already booked"})
	}

	ref := uuid.NewString()
	sessionID, err := h.Sessions.CreateTx(ctx, tx, req.MentorID, uid, at, ref)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Notifier.NotifyQuiet(ctx, req.MentorID,
		"A session was booked with you",
		fmt.Sprintf("/sessions/%d", sessionID))
	h.Notifier.Push(uid, "newSession", echo.Map{"session_id": sessionID})
	h.Notifier.Push(req.MentorID, "newSession", echo.Map{"session_id": sessionID})

	// Audit trail over the broker; the booking stands even if this fails.
	_ = service.PublishSessionBooked(ctx, queue.SessionBookedEvent{
		SessionID:  sessionID,
		BookingRef: ref,
		MentorID:   req.MentorID,
		MenteeID:   uid,
		Kind:       "ONE_ON_ONE",
		Date:       at.Format(time.RFC3339),
		BookedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	s, err := h.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusCreated, toSessionResp(s, time.Now().UTC()))
}

// List returns every session the caller takes part in, with the status
// derived from the clock at read time.
func (h *SessionHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	sessions, err := h.Sessions.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	now := time.Now().UTC()
	out := make([]sessionResp, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResp(s, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": out})
}

type feedbackReq struct {
	Rating   *uint8  `json:"rating" validate:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=4000"`
}

// Feedback records a rating and/or comment on a completed session. Only
// the booked mentee may rate; the mentor may leave a comment.
func (h *SessionHandler) Feedback(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Rating == nil && req.Feedback == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating or feedback required"})
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
	isMentee := s.MenteeID != nil && *s.MenteeID == uid
	isMentor := s.MentorID == uid
	if !isMentee && !isMentor {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if req.Rating != nil && !isMentee {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the mentee may rate"})
	}
	if model.DeriveStatus(s.Date, time.Now().UTC()) != model.SessionCompleted {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "session not completed yet"})
	}

	if err := h.Sessions.SetFeedback(ctx, id, req.Rating, req.Feedback); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save feedback failed"})
	}
	updated, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}

	h.Notifier.Push(updated.MentorID, "sessionUpdated", echo.Map{"session_id": id})
	if updated.MenteeID != nil {
		h.Notifier.Push(*updated.MenteeID, "sessionUpdated", echo.Map{"session_id": id})
	}

	return c.JSON(http.StatusOK, toSessionResp(updated, time.Now().UTC()))
}
