package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
)

// GoalHandler manages the goals agreed inside a mentorship. Goals hang
// off the mentorship request that established the relationship and are
// visible to both sides.
type GoalHandler struct {
	Goals    *repository.GoalRepo
	Requests *repository.RequestRepo
}

func NewGoalHandler(g *repository.GoalRepo, r *repository.RequestRepo) *GoalHandler {
	return &GoalHandler{Goals: g, Requests: r}
}

type goalReq struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=4000"`
	TargetDate  *time.Time `json:"target_date"`
	Status      string     `json:"status"`
}

// loadRequestFor fetches the request and verifies the caller belongs to
// it. Admins pass regardless.
func (h *GoalHandler) loadRequestFor(c echo.Context, requestID, uid uint64) (model.MentorshipRequest, int, string) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	req, err := h.Requests.GetByID(ctx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.MentorshipRequest{}, http.StatusNotFound, "request not found"
		}
		return model.MentorshipRequest{}, http.StatusInternalServerError, "query failed"
	}
	if getRole(c) != model.RoleAdmin && req.MentorID != uid && req.MenteeID != uid {
		return model.MentorshipRequest{}, http.StatusForbidden, "forbidden"
	}
	return req, 0, ""
}

// Create adds a goal to an accepted mentorship.
func (h *GoalHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req goalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	status := req.Status
	if status == "" {
		status = model.GoalInProgress
	}
	if !model.ValidGoalStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid goal status"})
	}

	mr, code, msg := h.loadRequestFor(c, requestID, uid)
	if code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}
	if mr.Status != model.RequestAccepted {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "mentorship not accepted"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	g, err := h.Goals.Create(ctx, model.Goal{
		RequestID:   requestID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		Status:      status,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create goal failed"})
	}
	return c.JSON(http.StatusCreated, g)
}

// List returns the goals of a mentorship.
func (h *GoalHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	if _, code, msg := h.loadRequestFor(c, requestID, uid); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	goals, err := h.Goals.ListByRequest(ctx, requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"goals": goals})
}

// Update replaces a goal's mutable fields.
func (h *GoalHandler) Update(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid goal id"})
	}
	var req goalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	status := req.Status
	if status == "" {
		status = model.GoalInProgress
	}
	if !model.ValidGoalStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid goal status"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	g, err := h.Goals.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, code, msg := h.loadRequestFor(c, g.RequestID, uid); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	g.Title = req.Title
	g.Description = req.Description
	g.TargetDate = req.TargetDate
	g.Status = status
	if err := h.Goals.Update(ctx, g); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update goal failed"})
	}
	updated, err := h.Goals.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a goal.
func (h *GoalHandler) Delete(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid goal id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	g, err := h.Goals.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, code, msg := h.loadRequestFor(c, g.RequestID, uid); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}
	if err := h.Goals.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
