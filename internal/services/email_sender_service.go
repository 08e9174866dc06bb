package services

import (
	"context"
	"fmt"
)

// VerificationMailer delivers a verification code to an address.
type VerificationMailer interface {
	SendVerificationCode(ctx context.Context, toEmail string, code int) error
}

// EmailMessage is a bulk email. Inline holds local file paths that are sent
// inline with the message.
type EmailMessage struct {
	From    string
	Subject string
	HTML    string
	Inline  []string
}

// Mailer sends a message to a single recipient. The recipient may be a
// mailing list address.
type Mailer interface {
	Send(ctx context.Context, to string, msg EmailMessage) error
}

// ListSubscriber adds an address to the newsletter list. Implementations
// return ErrAlreadySubscribed for an address that is already on the list.
type ListSubscriber interface {
	AddListMember(ctx context.Context, email, name string) error
}

// VerificationSubject is the subject of the verification code email.
const VerificationSubject = "Email Verification"

// VerificationHTML renders the body of the verification code email for
// providers without server side templates.
func VerificationHTML(code int) string {
	return fmt.Sprintf(`<p>Welcome to Sury Sporting Club!</p>
<p>Your verification code is:</p>
<h2 style="letter-spacing:4px">%06d</h2>
<p>The code is valid for 15 minutes.</p>`, code)
}
