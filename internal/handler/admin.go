package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
)

// AdminHandler serves moderation endpoints. All routes are gated behind
// the ADMIN role in the router.
type AdminHandler struct {
	Users    *repository.UserRepo
	Requests *repository.RequestRepo
	Sessions *repository.SessionRepo
}

func NewAdminHandler(u *repository.UserRepo, r *repository.RequestRepo, s *repository.SessionRepo) *AdminHandler {
	return &AdminHandler{Users: u, Requests: r, Sessions: s}
}

type adminUserResp struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// ListUsers returns every account without password hashes.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserResp{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type roleReq struct {
	Role string `json:"role"`
}

// SetRole changes a user's role, including promotion to ADMIN.
func (h *AdminHandler) SetRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Users.UpdateRole(ctx, id, role); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
}

type overrideStatusReq struct {
	Status string `json:"status"`
}

// OverrideRequestStatus force-sets a request status regardless of the
// transition rules. Moderation escape hatch.
func (h *AdminHandler) OverrideRequestStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req overrideStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidRequestStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Requests.AdminSetStatus(ctx, id, status); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case repository.ErrDuplicateRequest:
			return c.JSON(http.StatusConflict, echo.Map{"error": "pending request already exists for this pair"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	updated, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusOK, toRequestResp(updated))
}

// DeleteRequest removes a request permanently.
func (h *AdminHandler) DeleteRequest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Requests.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteSession removes a session and its participants.
func (h *AdminHandler) DeleteSession(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Sessions.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
