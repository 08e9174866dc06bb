package main

import (
	"errors"
	"net/http"

	"SportClubAPI/internal/middleware"
	"SportClubAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type addMatchRequest struct {
	Time  string `json:"time" form:"time"`
	Teams string `json:"teams" form:"teams"`
}

type deleteMatchRequest struct {
	Match string `json:"match" form:"match"`
}

func listMatchesHandler(matchSvc *services.MatchService) echo.HandlerFunc {
	return func(c echo.Context) error {
		matches, err := matchSvc.List(c.Request().Context())
		if err != nil {
			log.Errorf("List matches: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Erreur interne du serveur lors de la récupération des matchs",
			})
		}
		return c.JSON(http.StatusOK, matches)
	}
}

func addMatchHandler(matchSvc *services.MatchService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(addMatchRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "invalid request")
		}
		if _, err := matchSvc.Create(c.Request().Context(), req.Time, req.Teams); err != nil {
			if errors.Is(err, services.ErrValidation) {
				return c.String(http.StatusBadRequest, err.Error())
			}
			log.Errorf("Add match: %v", err)
			return c.String(http.StatusInternalServerError, "Failed to add match")
		}
		return c.String(http.StatusOK, "Match added successfully")
	}
}

func deleteMatchHandler(matchSvc *services.MatchService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(deleteMatchRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "No match identifier provided")
		}

		err := matchSvc.Delete(c.Request().Context(), req.Match)
		switch {
		case err == nil:
			return c.String(http.StatusOK, "Match deleted successfully")
		case errors.Is(err, services.ErrValidation):
			return c.String(http.StatusBadRequest, "No match identifier provided")
		case errors.Is(err, services.ErrNotFound):
			return c.String(http.StatusNotFound, "No match found with the given identifier")
		default:
			log.Errorf("Delete match %v: %v", req.Match, err)
			return c.String(http.StatusInternalServerError, "Error deleting the match")
		}
	}
}

func registerMatchRoutes(g *echo.Group, matchSvc *services.MatchService) {
	g.GET("/matches", listMatchesHandler(matchSvc))
	g.POST("/addMatch", addMatchHandler(matchSvc), middleware.AdminOnly)
	g.DELETE("/delete-match", deleteMatchHandler(matchSvc), middleware.AdminOnly)
}
