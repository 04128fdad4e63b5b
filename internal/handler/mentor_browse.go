package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
)

// BrowseHandler serves the mentor discovery endpoints. Listings read
// from the profile cards; the detail view additionally exposes the
// mentor's weekly availability windows.
type BrowseHandler struct {
	Profiles     *repository.ProfileRepo
	Users        *repository.UserRepo
	Availability *repository.AvailabilityRepo
}

func NewBrowseHandler(p *repository.ProfileRepo, u *repository.UserRepo, a *repository.AvailabilityRepo) *BrowseHandler {
	return &BrowseHandler{Profiles: p, Users: u, Availability: a}
}

// ListMentors returns mentor cards, optionally filtered by ?skill=.
func (h *BrowseHandler) ListMentors(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cards, err := h.Profiles.ListMentors(ctx, c.QueryParam("skill"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mentors": cards})
}

// SearchMentors matches ?q= against names, bios and skills.
func (h *BrowseHandler) SearchMentors(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q required"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	cards, err := h.Profiles.SearchMentors(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mentors": cards})
}

type windowPart struct {
	ID      uint64 `json:"id"`
	Weekday uint8  `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func toWindowParts(windows []model.AvailabilityWindow) []windowPart {
	out := make([]windowPart, 0, len(windows))
	for _, w := range windows {
		out = append(out, windowPart{
			ID:      w.ID,
			Weekday: w.Weekday,
			Start:   model.FormatClock(w.StartMinute),
			End:     model.FormatClock(w.EndMinute),
		})
	}
	return out
}

// GetMentor returns one mentor's card together with their weekly windows.
func (h *BrowseHandler) GetMentor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mentor id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mentor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.Role != model.RoleMentor || !u.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "mentor not found"})
	}
	p, err := h.Profiles.GetByUserID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mentor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	windows, err := h.Availability.ListByMentor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"mentor": repository.MentorCard{
			UserID:    p.UserID,
			Name:      p.Name,
			Bio:       p.Bio,
			Skills:    p.SkillList(),
			Goals:     p.Goals,
			AvatarURL: p.AvatarURL,
		},
		"availability": toWindowParts(windows),
	})
}
