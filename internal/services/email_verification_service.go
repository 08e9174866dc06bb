package services

import (
	"context"
	"fmt"

	"SportClubAPI/internal/verification"
)

// VerificationDispatcher generates verification codes and mails them.
type VerificationDispatcher struct {
	Mailer  VerificationMailer
	NewCode func() (int, error)
}

func NewVerificationDispatcher(m VerificationMailer) *VerificationDispatcher {
	return &VerificationDispatcher{Mailer: m, NewCode: verification.NewCode}
}

// SendVerification mails a fresh 6-digit code to email and returns it. Send
// failures are wrapped with ErrTransport.
func (d *VerificationDispatcher) SendVerification(ctx context.Context, email string) (int, error) {
	code, err := d.NewCode()
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}
	if err := d.Mailer.SendVerificationCode(ctx, email, code); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	log.Debugf("Verification code sent to %v", email)
	return code, nil
}
