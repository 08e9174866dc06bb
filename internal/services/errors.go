package services

import (
	"errors"

	"SportClubAPI/internal/verification"
)

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when there is no pending registration (or no
	// record) for the request.
	ErrNotFound = verification.ErrNotFound

	// ErrInvalidCode is returned when a verification code does not match.
	ErrInvalidCode = verification.ErrInvalidCode

	// ErrVerificationBusy is returned while another confirmation for the same
	// email is being saved.
	ErrVerificationBusy = verification.ErrBusy

	// ErrTransport wraps failures of the outbound mail provider.
	ErrTransport = errors.New("email transport error")

	// ErrPersistence wraps database write failures.
	ErrPersistence = errors.New("persistence error")

	ErrAlreadyRegistered  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadySubscribed  = errors.New("already subscribed")
	ErrNotAnImage         = errors.New("not an image")
	ErrListUnsupported    = errors.New("mailing lists are not supported by the mail provider")
)
