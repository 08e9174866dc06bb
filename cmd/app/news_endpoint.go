package main

import (
	"errors"
	"net/http"

	"SportClubAPI/internal/middleware"
	"SportClubAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type newsForm struct {
	Title       string `schema:"title"`
	Description string `schema:"description"`
}

func listNewsHandler(newsSvc *services.NewsService) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := newsSvc.List(c.Request().Context())
		if err != nil {
			log.Errorf("List news: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Erreur interne du serveur lors de la récupération des nouvelles",
			})
		}
		return c.JSON(http.StatusOK, items)
	}
}

func addNewsHandler(newsSvc *services.NewsService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var f newsForm
		form, err := bindMultipart(c, &f)
		if err != nil {
			return c.String(http.StatusBadRequest, "No image uploaded. Please upload an image file.")
		}
		img, hdr, err := openFormFile(form, "image")
		if err != nil {
			return c.String(http.StatusBadRequest, "No image uploaded. Please upload an image file.")
		}
		defer img.Close()

		_, err = newsSvc.Create(c.Request().Context(), f.Title, f.Description, hdr.Filename, img)
		if err != nil {
			if errors.Is(err, services.ErrNotAnImage) {
				return c.String(http.StatusBadRequest, notAnImageMessage)
			}
			log.Errorf("Add news %v: %v", f.Title, err)
			return c.String(http.StatusInternalServerError, "Error adding news to the database")
		}
		return c.String(http.StatusOK, "News added successfully")
	}
}

func deleteNewsHandler(newsSvc *services.NewsService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(titleRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "invalid request")
		}

		err := newsSvc.Delete(c.Request().Context(), req.Title)
		switch {
		case err == nil:
			return c.JSON(http.StatusOK, echo.Map{
				"message": "News item and corresponding image deleted successfully",
			})
		case errors.Is(err, services.ErrNotFound):
			return c.String(http.StatusNotFound, "News item not found")
		default:
			log.Errorf("Delete news %v: %v", req.Title, err)
			return c.String(http.StatusInternalServerError, "Error deleting news from the database")
		}
	}
}

func registerNewsRoutes(g *echo.Group, newsSvc *services.NewsService) {
	g.GET("/get-news", listNewsHandler(newsSvc))
	g.POST("/addNews", addNewsHandler(newsSvc), middleware.AdminOnly)
	g.DELETE("/delete-news", deleteNewsHandler(newsSvc), middleware.AdminOnly)
}
