package main

import (
	"errors"
	"net/http"

	"SportClubAPI/internal/middleware"
	"SportClubAPI/internal/services"
	"SportClubAPI/internal/sessions"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"pw" form:"pw"`
}

func loginHandler(authSvc *services.AuthService, sess *sessions.Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid request",
			})
		}

		user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"isLoggedIn": false,
			})
		}

		if err := sess.NewSession(c.Response(), c.Request(), user.ID); err != nil {
			log.Errorf("Create session for %v: %v", user.ID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "could not create session",
			})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"isLoggedIn": true,
			"user":       user.ID,
		})
	}
}

func logoutHandler(sess *sessions.Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := sess.DelSession(c.Response(), c.Request())
		if err != nil && !errors.Is(err, sessions.ErrSessionNotFound) {
			log.Errorf("Logout: %v", err)
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.NoContent(http.StatusOK)
	}
}

// verifyUserHandler reports the login state of the caller.
func verifyUserHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		u := middleware.GetUser(c)
		return c.JSON(http.StatusOK, echo.Map{
			"isLoggedIn": u != nil,
			"isAdmin":    u != nil && u.Admin,
		})
	}
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService, sess *sessions.Sessions) {
	g.POST("/login", loginHandler(authSvc, sess))
	g.GET("/logout", logoutHandler(sess))
	g.GET("/verifyUser", verifyUserHandler())
}
