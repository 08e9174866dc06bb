package main

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"

	"SportClubAPI/internal/middleware"
	"SportClubAPI/internal/services"
	"SportClubAPI/internal/storage"

	"github.com/labstack/echo/v4"
)

const notAnImageMessage = "Not an image! Please upload only images."

type sponsorForm struct {
	SponsorType string `schema:"sponsorType"`
}

type deleteImageRequest struct {
	ImageName string `json:"imageName" form:"imageName"`
}

func listImagesHandler(imgSvc *services.ImageService, dir func(c echo.Context) (string, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		d, err := dir(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
		}
		names, err := imgSvc.List(c.Request().Context(), d)
		if err != nil {
			log.Errorf("List images in %v: %v", d, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
		}
		return c.JSON(http.StatusOK, names)
	}
}

func clubImagesDir(echo.Context) (string, error) {
	return services.ClubImagesDir, nil
}

func sponsorQueryDir(c echo.Context) (string, error) {
	return services.SponsorDir(c.QueryParam("category"))
}

func sponsorPathDir(c echo.Context) (string, error) {
	return services.SponsorDir(c.Param("category"))
}

func fixedDir(dir string) func(echo.Context) (string, error) {
	return func(echo.Context) (string, error) {
		return dir, nil
	}
}

// serveImageHandler streams the image named by the :name path parameter
// from the image store.
func serveImageHandler(imgSvc *services.ImageService, dir func(c echo.Context) (string, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		d, err := dir(c)
		if err != nil {
			return echo.ErrNotFound
		}
		name := c.Param("name")
		if n, err := url.PathUnescape(name); err == nil {
			name = n
		}

		rc, err := imgSvc.Open(c.Request().Context(), d, name)
		switch {
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidPath):
			return echo.ErrNotFound
		case err != nil:
			log.Errorf("Open image %v/%v: %v", d, name, err)
			return echo.ErrInternalServerError
		}
		defer rc.Close()

		ct := mime.TypeByExtension(path.Ext(name))
		if ct == "" {
			ct = echo.MIMEOctetStream
		}
		return c.Stream(http.StatusOK, ct, rc)
	}
}

// uploadImageHandler stores the "image" file in the directory dir picks
// from the form.
func uploadImageHandler(imgSvc *services.ImageService, message string, dir func(form *multipart.Form) (string, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := parseMultipart(c)
		if err != nil {
			return c.String(http.StatusBadRequest, "No image uploaded. Please upload a valid image file.")
		}
		d, err := dir(form)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		img, hdr, err := openFormFile(form, "image")
		if err != nil {
			return c.String(http.StatusBadRequest, "No image uploaded. Please upload a valid image file.")
		}
		defer img.Close()

		name, err := imgSvc.Upload(c.Request().Context(), d, hdr.Filename, img)
		if err != nil {
			if errors.Is(err, services.ErrNotAnImage) {
				return c.String(http.StatusBadRequest, notAnImageMessage)
			}
			log.Errorf("Upload image to %v: %v", d, err)
			return c.String(http.StatusInternalServerError, "Error saving image")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message":  message,
			"fileName": name,
		})
	}
}

func clubImagesUploadDir(*multipart.Form) (string, error) {
	return services.ClubImagesDir, nil
}

func sponsorUploadDir(form *multipart.Form) (string, error) {
	var f sponsorForm
	if err := formDecoder.Decode(&f, form.Value); err != nil {
		return "", err
	}
	return services.SponsorDir(f.SponsorType)
}

func deleteImageHandler(imgSvc *services.ImageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(deleteImageRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "invalid request")
		}
		err := imgSvc.Delete(c.Request().Context(), services.ClubImagesDir, req.ImageName)
		switch {
		case err == nil:
			return c.JSON(http.StatusOK, echo.Map{"message": "Image deleted successfully"})
		case errors.Is(err, storage.ErrInvalidPath):
			return c.String(http.StatusBadRequest, "Invalid image name")
		case errors.Is(err, storage.ErrNotFound):
			return c.String(http.StatusNotFound, "Image not found")
		default:
			log.Errorf("Delete image %v: %v", req.ImageName, err)
			return c.String(http.StatusInternalServerError, "Error deleting image")
		}
	}
}

func registerImageRoutes(g *echo.Group, imgSvc *services.ImageService) {
	g.GET("/getImagesNames", listImagesHandler(imgSvc, clubImagesDir))
	g.GET("/getSponsors/query", listImagesHandler(imgSvc, sponsorQueryDir))

	g.POST("/addClubImage", uploadImageHandler(imgSvc, "Club image uploaded successfully", clubImagesUploadDir), middleware.AdminOnly)
	g.POST("/addSponsorImage", uploadImageHandler(imgSvc, "Sponsor image uploaded successfully", sponsorUploadDir), middleware.AdminOnly)
	g.DELETE("/deleteImage", deleteImageHandler(imgSvc), middleware.AdminOnly)
}

// registerImageServeRoutes serves uploaded images under the same paths the
// assets directory uses, whichever backend stores them.
func registerImageServeRoutes(e *echo.Echo, imgSvc *services.ImageService) {
	e.GET("/"+services.ClubImagesDir+"/:name", serveImageHandler(imgSvc, clubImagesDir))
	e.GET("/"+services.SponsorsDir+"/:category/:name", serveImageHandler(imgSvc, sponsorPathDir))
	e.GET("/"+services.NewsPhotosDir+"/:name", serveImageHandler(imgSvc, fixedDir(services.NewsPhotosDir)))
	e.GET("/"+services.TeamPhotosDir+"/:name", serveImageHandler(imgSvc, fixedDir(services.TeamPhotosDir)))
}
