package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
	"github.com/iliyamo/mentor-match/internal/service"
)

// RequestHandler manages the mentorship request lifecycle. A request is
// born PENDING and moves exactly once, to ACCEPTED, REJECTED or
// CANCELLED. Duplicate and concurrent writes are settled by the
// database, not by pre-checks.
type RequestHandler struct {
	Requests      *repository.RequestRepo
	Users         *repository.UserRepo
	Conversations *repository.ConversationRepo
	Notifier      *service.Notifier
}

func NewRequestHandler(r *repository.RequestRepo, u *repository.UserRepo, conv *repository.ConversationRepo, n *service.Notifier) *RequestHandler {
	return &RequestHandler{Requests: r, Users: u, Conversations: conv, Notifier: n}
}

type createRequestReq struct {
	MentorID uint64  `json:"mentor_id" validate:"required"`
	Message  *string `json:"message" validate:"omitempty,max=2000"`
}

type updateRequestReq struct {
	Status string `json:"status" validate:"required"`
}

type requestResp struct {
	ID        uint64  `json:"id"`
	MentorID  uint64  `json:"mentor_id"`
	MenteeID  uint64  `json:"mentee_id"`
	Status    string  `json:"status"`
	Message   *string `json:"message,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toRequestResp(r model.MentorshipRequest) requestResp {
	return requestResp{
		ID:        r.ID,
		MentorID:  r.MentorID,
		MenteeID:  r.MenteeID,
		Status:    r.Status,
		Message:   r.Message,
		CreatedAt: r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		UpdatedAt: r.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// Create sends a mentorship request from the caller (a mentee) to a
// mentor. A second PENDING request to the same mentor trips the unique
// key and comes back 409.
func (h *RequestHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.MentorID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot request yourself"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	mentor, err := h.Users.GetByID(ctx, req.MentorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mentor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if mentor.Role != model.RoleMentor || !mentor.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "target is not a mentor"})
	}

	created, err := h.Requests.Create(ctx, req.MentorID, uid, req.Message)
	if err != nil {
		if err == repository.ErrDuplicateRequest {
			return c.JSON(http.StatusConflict, echo.Map{"error": "pending request already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}

	h.Notifier.NotifyQuiet(ctx, req.MentorID,
		"You received a new mentorship request",
		fmt.Sprintf("/requests/%d", created.ID))

	return c.JSON(http.StatusCreated, toRequestResp(created))
}

// Update moves a PENDING request into a terminal state. The mentor
// decides ACCEPTED/REJECTED, the mentee may CANCEL, admins may do
// either. A request already settled returns 422.
func (h *RequestHandler) Update(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req updateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.TerminalRequestStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACCEPTED, REJECTED or CANCELLED"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	current, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !current.AllowedActor(uid, getRole(c), status) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Requests.Resolve(ctx, id, status); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case repository.ErrInvalidTransition:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "request already settled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	switch status {
	case model.RequestAccepted:
		// The shared conversation opens on accept; a failure here is
		// recovered on the next accept-path call for the pair.
		if _, err := h.Conversations.EnsureMatch(ctx, current.MentorID, current.MenteeID); err != nil {
			c.Logger().Warnf("open match conversation for request %d: %v", id, err)
		}
		h.Notifier.NotifyQuiet(ctx, current.MenteeID,
			"Your mentorship request was accepted",
			fmt.Sprintf("/requests/%d", id))
	case model.RequestRejected:
		h.Notifier.NotifyQuiet(ctx, current.MenteeID,
			"Your mentorship request was declined",
			fmt.Sprintf("/requests/%d", id))
	case model.RequestCancelled:
		h.Notifier.NotifyQuiet(ctx, current.MentorID,
			"A mentorship request to you was cancelled",
			fmt.Sprintf("/requests/%d", id))
	}

	updated, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusOK, toRequestResp(updated))
}

// ListSent returns the caller's outgoing requests.
func (h *RequestHandler) ListSent(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Requests.ListByMentee(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]requestResp, 0, len(list))
	for _, r := range list {
		out = append(out, toRequestResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": out})
}

// ListReceived returns requests addressed to the caller (a mentor).
func (h *RequestHandler) ListReceived(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Requests.ListByMentor(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]requestResp, 0, len(list))
	for _, r := range list {
		out = append(out, toRequestResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": out})
}
