package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/repository"
)

// RequireCompleteProfile gates actions that expose a user to others
// (sending requests, booking sessions) behind a complete profile.
// Completeness is an access-control rule, not a schema constraint, so it
// lives here rather than in the database. JWTAuth must run first.
func RequireCompleteProfile(profiles *repository.ProfileRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, err := contextUserID(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			p, err := profiles.GetByUserID(ctx, uid)
			if err != nil {
				if err == sql.ErrNoRows {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "complete your profile first"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
			if !p.IsComplete() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "complete your profile first"})
			}
			return next(c)
		}
	}
}

// contextUserID converts the JWT subject stored in the echo context to a
// uint64. JWT numeric claims decode as float64.
func contextUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case string:
		return strconv.ParseUint(t, 10, 64)
	}
	return 0, echo.ErrUnauthorized
}
