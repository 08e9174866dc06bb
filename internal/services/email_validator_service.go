package services

import (
	"context"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

// LocalValidator only checks the address syntax.
type LocalValidator struct{}

func NewLocalValidator() *LocalValidator {
	return &LocalValidator{}
}

func (v *LocalValidator) Validate(ctx context.Context, email string) error {
	if !emailRegex.MatchString(email) {
		return ErrValidation
	}
	return nil
}
