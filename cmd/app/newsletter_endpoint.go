package main

import (
	"errors"
	"net/http"

	"SportClubAPI/internal/middleware"
	"SportClubAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type sendEmailRequest struct {
	Subject        string   `json:"subject"`
	HTML           string   `json:"html"`
	RecipientType  string   `json:"recipientType"`
	SpecificEmails []string `json:"specificEmails"`
}

type subscribeRequest struct {
	Email    string `json:"email" form:"email"`
	FullName string `json:"fullName" form:"fullName"`
}

// sendAttachmentsHandler stores every "attachment" file for the next
// bulk email.
func sendAttachmentsHandler(nlSvc *services.NewsletterService) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := parseMultipart(c)
		if err != nil {
			return c.String(http.StatusBadRequest, "invalid form")
		}
		for _, fh := range form.File["attachment"] {
			f, err := fh.Open()
			if err != nil {
				return c.String(http.StatusBadRequest, "invalid attachment")
			}
			err = nlSvc.SaveAttachment(c.Request().Context(), fh.Filename, f)
			f.Close()
			if err != nil {
				log.Errorf("Save attachment %v: %v", fh.Filename, err)
				return c.String(http.StatusInternalServerError, "Failed to save attachments")
			}
		}
		return c.String(http.StatusOK, "Files received and saved!")
	}
}

func sendEmailDataHandler(nlSvc *services.NewsletterService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(sendEmailRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "invalid request")
		}

		err := nlSvc.Send(c.Request().Context(), services.SendInput{
			Subject:        req.Subject,
			HTML:           req.HTML,
			RecipientType:  req.RecipientType,
			SpecificEmails: req.SpecificEmails,
		})
		if err != nil {
			log.Errorf("Failed to send emails: %v", err)
			if errors.Is(err, services.ErrValidation) {
				return c.String(http.StatusBadRequest, err.Error())
			}
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.String(http.StatusOK, "Emails sent successfully")
	}
}

func subscribeHandler(nlSvc *services.NewsletterService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(subscribeRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "invalid request")
		}

		err := nlSvc.Subscribe(c.Request().Context(), req.Email, req.FullName)
		switch {
		case err == nil:
			return c.String(http.StatusOK, "Subscribed to the newsletter")
		case errors.Is(err, services.ErrAlreadySubscribed):
			return c.String(http.StatusConflict,
				"The email address "+req.Email+" is already subscribed to the newsletter.")
		case errors.Is(err, services.ErrValidation):
			return c.String(http.StatusBadRequest, err.Error())
		default:
			log.Errorf("Subscription error: %v", err)
			return c.String(http.StatusInternalServerError,
				"An error occurred while processing your subscription.")
		}
	}
}

func registerNewsletterRoutes(g *echo.Group, nlSvc *services.NewsletterService) {
	g.POST("/sendEmailAttachments", sendAttachmentsHandler(nlSvc), middleware.AdminOnly)
	g.POST("/sendEmailData", sendEmailDataHandler(nlSvc), middleware.AdminOnly)
	g.POST("/subscribeToNewsletter", subscribeHandler(nlSvc))
}
