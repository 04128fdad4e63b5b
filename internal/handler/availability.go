package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
)

// AvailabilityHandler lets mentors manage their weekly recurring
// windows. Clock values travel as "HH:MM" strings and are stored as
// minutes since midnight UTC.
type AvailabilityHandler struct {
	Availability *repository.AvailabilityRepo
}

func NewAvailabilityHandler(a *repository.AvailabilityRepo) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: a}
}

type windowReq struct {
	Weekday uint8  `json:"weekday" validate:"max=6"`
	Start   string `json:"start" validate:"required"`
	End     string `json:"end" validate:"required"`
}

// Create adds a window to the caller's weekly schedule.
func (h *AvailabilityHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req windowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := model.ParseClock(req.Start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be HH:MM"})
	}
	end, err := model.ParseClock(req.End)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be HH:MM"})
	}
	if end <= start {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be after start"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	w := model.AvailabilityWindow{
		MentorID:    uid,
		Weekday:     req.Weekday,
		StartMinute: start,
		EndMinute:   end,
	}
	id, err := h.Availability.Create(ctx, w)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create window failed"})
	}
	w.ID = id
	return c.JSON(http.StatusCreated, windowPart{
		ID:      id,
		Weekday: w.Weekday,
		Start:   model.FormatClock(w.StartMinute),
		End:     model.FormatClock(w.EndMinute),
	})
}

// List returns the caller's windows.
func (h *AvailabilityHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	windows, err := h.Availability.ListByMentor(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"windows": toWindowParts(windows)})
}

// Delete removes one of the caller's windows.
func (h *AvailabilityHandler) Delete(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid window id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Availability.Delete(ctx, id, uid); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "window not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
