package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/repository"
	"SportClubAPI/internal/verification"

	"github.com/google/uuid"
)

// UserStore is the persistence the registration and login flows need.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// CodeDispatcher sends a verification code to an address and returns it.
type CodeDispatcher interface {
	SendVerification(ctx context.Context, email string) (int, error)
}

type RegisterInput struct {
	FName    string
	LName    string
	Password string
	Email    string
	Member   bool
}

// RegistrationService moves a sign-up from submitted, through code sent, to
// a persisted user.
type RegistrationService struct {
	Users      UserStore
	Pending    *verification.Store
	Dispatcher CodeDispatcher
	Validator  EmailValidator
	NewToken   func() (int, error)
}

func NewRegistrationService(users UserStore, pending *verification.Store, d CodeDispatcher, v EmailValidator) *RegistrationService {
	if v == nil {
		v = NewLocalValidator()
	}
	return &RegistrationService{
		Users:      users,
		Pending:    pending,
		Dispatcher: d,
		Validator:  v,
		NewToken:   verification.NewCode,
	}
}

func (s *RegistrationService) validate(ctx context.Context, in *RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !emailRegex.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if in.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if err := s.Validator.Validate(ctx, in.Email); err != nil {
		if errors.Is(err, ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: email check: %v", ErrTransport, err)
	}
	return nil
}

// Register hashes the password, mails a verification code and parks the
// unsaved user until the code comes back. It returns the access token for
// the client's verification page. A second registration for the same email
// replaces the first one.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (int, error) {
	if err := s.validate(ctx, &in); err != nil {
		return 0, err
	}

	exists, err := s.Users.EmailExists(ctx, in.Email)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if exists {
		return 0, ErrAlreadyRegistered
	}

	salt, hash, err := GenPassword(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	token, err := s.NewToken()
	if err != nil {
		return 0, fmt.Errorf("generate token: %w", err)
	}

	user := model.User{
		ID:     uuid.NewString(),
		FName:  strings.TrimSpace(in.FName),
		LName:  strings.TrimSpace(in.LName),
		Hash:   hash,
		Salt:   salt,
		Admin:  false,
		Email:  in.Email,
		Member: in.Member,
	}

	code, err := s.Dispatcher.SendVerification(ctx, in.Email)
	if err != nil {
		return 0, err
	}

	replaced := s.Pending.RestartRegistration(in.Email, verification.Pending{
		User:  user,
		Code:  code,
		Token: token,
	})
	if replaced {
		log.Debugf("Registration restarted for %v", in.Email)
	}
	log.Infof("Registration pending for %v", in.Email)

	return token, nil
}

// VerifyCode persists the pending user for email when code matches.
// Persistence failures leave the registration pending.
func (s *RegistrationService) VerifyCode(ctx context.Context, email, code string) error {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return ErrInvalidCode
	}
	err = s.Pending.Confirm(ctx, strings.TrimSpace(email), n, func(ctx context.Context, u model.User) error {
		err := s.Users.Create(ctx, &u)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return ErrAlreadyRegistered
		case err != nil:
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Infof("User registered: %v", email)
	return nil
}

// ResendCode mails a new code for a pending registration.
func (s *RegistrationService) ResendCode(ctx context.Context, email string) error {
	_, err := s.Pending.Resend(ctx, strings.TrimSpace(email), s.Dispatcher.SendVerification)
	return err
}

// CheckAccess reports whether token was issued for email's pending
// registration. Non-numeric tokens never match.
func (s *RegistrationService) CheckAccess(email, token string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return false
	}
	return s.Pending.CheckAccess(strings.TrimSpace(email), n)
}
