package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/mail"
	"net/url"

	"SportClubAPI/internal/services"

	"github.com/dajohi/goemail"
)

// sender is the part of *goemail.SMTP the mailer uses.
type sender interface {
	Send(msg *goemail.Message) error
}

// Mailer sends email through an SMTP relay. It has no mailing list support.
type Mailer struct {
	smtp        sender
	mailName    string
	mailAddress string
}

// NewMailer parses rawURL (smtp:// or smtps://, with credentials) and the
// sender address.
func NewMailer(rawURL, from string, skipVerify bool) (*Mailer, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, errors.New("smtp url has no host")
	}
	a, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}

	tlsConfig := &tls.Config{
		ServerName:         u.Hostname(),
		InsecureSkipVerify: skipVerify,
	}
	client, err := goemail.NewSMTP(u.String(), tlsConfig)
	if err != nil {
		return nil, err
	}

	log.Infof("Mail host: %v://%v", u.Scheme, u.Host)

	return &Mailer{
		smtp:        client,
		mailName:    a.Name,
		mailAddress: a.Address,
	}, nil
}

func (m *Mailer) newMessage(from, subject, html string) *goemail.Message {
	name, addr := m.mailName, m.mailAddress
	if from != "" {
		if a, err := mail.ParseAddress(from); err == nil {
			name, addr = a.Name, a.Address
		}
	}
	msg := goemail.NewHTMLMessage(addr, subject, html)
	msg.SetName(name)
	return msg
}

func (m *Mailer) SendVerificationCode(ctx context.Context, toEmail string, code int) error {
	msg := m.newMessage("", services.VerificationSubject, services.VerificationHTML(code))
	msg.AddTo(toEmail)
	if err := m.smtp.Send(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// Send sends msg to one recipient with msg.Inline attached.
func (m *Mailer) Send(ctx context.Context, to string, msg services.EmailMessage) error {
	out := m.newMessage(msg.From, msg.Subject, msg.HTML)
	out.AddTo(to)
	for _, p := range msg.Inline {
		if err := out.AddAttachmentFromFile(p); err != nil {
			return fmt.Errorf("attach %v: %w", p, err)
		}
	}
	return m.smtp.Send(out)
}
