package middleware

import (
	"context"
	"errors"
	"net/http"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/sessions"

	"github.com/labstack/echo/v4"
)

const userKey = "session_user"

// SessionReader resolves the user ID of the request's session.
type SessionReader interface {
	GetSessionUserID(w http.ResponseWriter, r *http.Request) (string, error)
}

// UserLoader loads a user by ID.
type UserLoader interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// LoadSessionUser attaches the logged in user to the context when the
// request carries a live session. Requests without one pass through.
func LoadSessionUser(sess SessionReader, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, err := sess.GetSessionUserID(c.Response(), c.Request())
			if err != nil {
				if !errors.Is(err, sessions.ErrSessionNotFound) {
					log.Errorf("Session lookup: %v", err)
				}
				return next(c)
			}
			u, err := users.GetUser(c.Request().Context(), uid)
			if err != nil {
				log.Warnf("Session user %v: %v", uid, err)
				return next(c)
			}
			c.Set(userKey, u)
			return next(c)
		}
	}
}

// GetUser returns the user attached by LoadSessionUser, or nil.
func GetUser(c echo.Context) *model.User {
	u, _ := c.Get(userKey).(*model.User)
	return u
}

// RequireAuth rejects requests without a logged in user.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetUser(c) == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "You need to log in first"})
		}
		return next(c)
	}
}

// AdminOnly requires a logged in admin.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := GetUser(c)
		if u == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "You need to log in first"})
		}
		if !u.Admin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You are not authorized to do that"})
		}
		return next(c)
	}
}
