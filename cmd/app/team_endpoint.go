package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"SportClubAPI/internal/middleware"
	"SportClubAPI/internal/model"
	"SportClubAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type teamForm struct {
	TeamName            string `schema:"teamName"`
	TeamGender          string `schema:"teamGender"`
	Roles               string `schema:"roles"`
	Effectif            string `schema:"effectif"`
	NombreEquipe        string `schema:"nombreEquipe"`
	Birthday            string `schema:"birthday"`
	SeancesEntrainement string `schema:"seancesEntrainement"`
	Match               string `schema:"match"`
	MotDesCoaches       string `schema:"motDesCoaches"`
}

type titleRequest struct {
	Title string `json:"title" form:"title"`
}

func listTeamsHandler(teamSvc *services.TeamService) echo.HandlerFunc {
	return func(c echo.Context) error {
		teams, err := teamSvc.List(c.Request().Context())
		if err != nil {
			log.Errorf("List teams: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Erreur interne du serveur lors de la récupération de data",
			})
		}
		return c.JSON(http.StatusOK, teams)
	}
}

func addTeamHandler(teamSvc *services.TeamService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var f teamForm
		form, err := bindMultipart(c, &f)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form"})
		}

		team := &model.Team{
			Name:           f.TeamName,
			Gender:         f.TeamGender,
			Effectif:       f.Effectif,
			NombreEquipes:  f.NombreEquipe,
			AnneeNaissance: f.Birthday,
			Seances:        f.SeancesEntrainement,
			Matches:        f.Match,
			MotDesCoaches:  f.MotDesCoaches,
		}
		if f.Roles != "" {
			team.Roles = json.RawMessage(f.Roles)
		}

		img, _, err := openFormFile(form, "teamImage")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid team image"})
		}
		if img != nil {
			defer img.Close()
		}

		_, err = teamSvc.Create(c.Request().Context(), team, img)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
			}
			log.Errorf("Add team %v: %v", f.TeamName, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to add team"})
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Team added successfully!"})
	}
}

func deleteTeamHandler(teamSvc *services.TeamService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(titleRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "invalid request")
		}

		err := teamSvc.Delete(c.Request().Context(), req.Title)
		switch {
		case err == nil:
			return c.JSON(http.StatusOK, echo.Map{
				"message": "Team item and corresponding image deleted successfully",
			})
		case errors.Is(err, services.ErrNotFound):
			return c.String(http.StatusNotFound, "Team item not found")
		default:
			log.Errorf("Delete team %v: %v", req.Title, err)
			return c.String(http.StatusInternalServerError, "Error deleting team from the database")
		}
	}
}

func registerTeamRoutes(g *echo.Group, teamSvc *services.TeamService) {
	g.GET("/getTeamsData", listTeamsHandler(teamSvc))
	g.POST("/addTeam", addTeamHandler(teamSvc), middleware.AdminOnly)
	g.DELETE("/delete-team", deleteTeamHandler(teamSvc), middleware.AdminOnly)
}
