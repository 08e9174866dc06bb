package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"SportClubAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	FName    string   `json:"fname" form:"fname"`
	LName    string   `json:"lname" form:"lname"`
	Password string   `json:"pw" form:"pw"`
	Email    string   `json:"email" form:"email"`
	Member   checkbox `json:"member" form:"member"`
}

type verifyCodeRequest struct {
	Email string      `json:"email" form:"email"`
	Code  json.Number `json:"code" form:"code"`
}

type emailRequest struct {
	Email string `json:"email" form:"email"`
}

type checkAccessRequest struct {
	Email string      `json:"email" form:"email"`
	Token json.Number `json:"token" form:"token"`
}

// registerHandler parks the registration and sends the client to its
// verification page.
func registerHandler(regSvc *services.RegistrationService, frontEnd string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "Invalid request")
		}

		token, err := regSvc.Register(c.Request().Context(), services.RegisterInput{
			FName:    req.FName,
			LName:    req.LName,
			Password: req.Password,
			Email:    req.Email,
			Member:   bool(req.Member),
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				return c.String(http.StatusBadRequest, err.Error())
			case errors.Is(err, services.ErrAlreadyRegistered):
				return c.String(http.StatusConflict, "Email already registered")
			default:
				log.Errorf("Register %v: %v", req.Email, err)
				return c.String(http.StatusInternalServerError, "Failed to register")
			}
		}

		return c.Redirect(http.StatusFound,
			fmt.Sprintf("%s/verifyEmail/%s/%d", frontEnd, url.PathEscape(req.Email), token))
	}
}

func verifyCodeHandler(regSvc *services.RegistrationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(verifyCodeRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "Invalid verification code")
		}

		err := regSvc.VerifyCode(c.Request().Context(), req.Email, req.Code.String())
		switch {
		case err == nil:
			return c.String(http.StatusOK, "success")
		case errors.Is(err, services.ErrInvalidCode), errors.Is(err, services.ErrNotFound):
			return c.String(http.StatusBadRequest, "Invalid verification code")
		case errors.Is(err, services.ErrVerificationBusy):
			return c.String(http.StatusConflict, "Verification already in progress")
		case errors.Is(err, services.ErrAlreadyRegistered):
			return c.String(http.StatusConflict, "Email already registered")
		default:
			log.Errorf("Verify %v: %v", req.Email, err)
			return c.String(http.StatusInternalServerError, "Failed to save user")
		}
	}
}

func resendEmailHandler(regSvc *services.RegistrationService, frontEnd string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(emailRequest)
		if err := c.Bind(req); err != nil {
			return c.String(http.StatusBadRequest, "Invalid request")
		}

		err := regSvc.ResendCode(c.Request().Context(), req.Email)
		switch {
		case err == nil:
			return c.String(http.StatusOK, "Verification email resent successfully")
		case errors.Is(err, services.ErrNotFound):
			return c.Redirect(http.StatusFound, frontEnd+"/register")
		default:
			log.Errorf("Resend %v: %v", req.Email, err)
			return c.String(http.StatusInternalServerError, "Failed to resend verification email")
		}
	}
}

// checkAccessHandler tells the client whether it may show the verification
// page for email.
func checkAccessHandler(regSvc *services.RegistrationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(checkAccessRequest)
		if err := c.Bind(req); err != nil || !regSvc.CheckAccess(req.Email, req.Token.String()) {
			return c.JSON(http.StatusOK, echo.Map{"notAllowed": true})
		}
		return c.JSON(http.StatusOK, echo.Map{})
	}
}

func registerVerificationRoutes(g *echo.Group, regSvc *services.RegistrationService, frontEnd string) {
	g.POST("/register", registerHandler(regSvc, frontEnd))
	g.POST("/verifyCode", verifyCodeHandler(regSvc))
	g.POST("/resendEmail", resendEmailHandler(regSvc, frontEnd))
	g.POST("/checkAccessEmailVerification", checkAccessHandler(regSvc))
}
