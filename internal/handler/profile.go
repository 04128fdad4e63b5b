package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(p *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Profiles: p}
}

type profileReq struct {
	Name      string   `json:"name" validate:"required,max=120"`
	Bio       string   `json:"bio" validate:"required,max=2000"`
	Skills    []string `json:"skills" validate:"required,min=1,dive,max=60"`
	Goals     string   `json:"goals" validate:"required,max=2000"`
	AvatarURL string   `json:"avatar_url" validate:"omitempty,url"`
}

type profileResp struct {
	UserID    uint64   `json:"user_id"`
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	Skills    []string `json:"skills"`
	Goals     string   `json:"goals"`
	AvatarURL string   `json:"avatar_url,omitempty"`
	Complete  bool     `json:"complete"`
}

func toProfileResp(p model.Profile) profileResp {
	return profileResp{
		UserID:    p.UserID,
		Name:      p.Name,
		Bio:       p.Bio,
		Skills:    p.SkillList(),
		Goals:     p.Goals,
		AvatarURL: p.AvatarURL,
		Complete:  p.IsComplete(),
	}
}

// Get returns the caller's profile, 404 when none has been saved yet.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(p))
}

// Put creates or replaces the caller's profile.
func (h *ProfileHandler) Put(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p := model.Profile{
		UserID:    uid,
		Name:      req.Name,
		Bio:       req.Bio,
		Skills:    model.JoinSkills(req.Skills),
		Goals:     req.Goals,
		AvatarURL: req.AvatarURL,
	}
	if err := h.Profiles.Upsert(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save profile failed"})
	}
	saved, err := h.Profiles.GetByUserID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload profile failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(saved))
}
