// Package mailgun sends club email through Mailgun: verification codes via a
// stored template, bulk messages with inline files, and newsletter list
// subscriptions.
package mailgun

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"SportClubAPI/internal/services"

	"github.com/mailgun/mailgun-go/v4"
)

const verificationTemplate = "emailVerification"

type Mailer struct {
	mg   *mailgun.MailgunImpl
	from string
	list string
}

// NewMailer returns a Mailer for domain. baseURL is the API host, with or
// without the trailing /v3 version segment; empty selects the US region.
func NewMailer(apiKey, domain, baseURL, from, list string) (*Mailer, error) {
	if apiKey == "" || domain == "" {
		return nil, errors.New("mailgun api key and domain are required")
	}
	mg := mailgun.NewMailgun(domain, apiKey)
	mg.SetClient(&http.Client{Timeout: 10 * time.Second})
	if baseURL != "" {
		mg.SetAPIBase(apiBase(baseURL))
	}
	return &Mailer{mg: mg, from: from, list: list}, nil
}

func apiBase(u string) string {
	u = strings.TrimRight(u, "/")
	if strings.HasSuffix(u, "/v3") {
		return u
	}
	return u + "/v3"
}

// ListAddress returns the newsletter list address, empty when unset.
func (m *Mailer) ListAddress() string {
	return m.list
}

// SendVerificationCode sends code using the emailVerification template.
func (m *Mailer) SendVerificationCode(ctx context.Context, toEmail string, code int) error {
	text := fmt.Sprintf("Your verification code is %06d", code)
	msg := m.mg.NewMessage(m.from, services.VerificationSubject, text, toEmail)
	msg.SetTemplate(verificationTemplate)
	if err := msg.AddTemplateVariable("verificationCode", code); err != nil {
		return err
	}

	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// Send sends msg to a single address or mailing list with msg.Inline
// attached inline.
func (m *Mailer) Send(ctx context.Context, to string, msg services.EmailMessage) error {
	out := m.mg.NewMessage(msg.From, msg.Subject, "", to)
	out.SetHtml(msg.HTML)
	for _, p := range msg.Inline {
		out.AddInline(p)
	}
	_, _, err := m.mg.Send(ctx, out)
	return err
}

// AddListMember subscribes email to the newsletter list.
// services.ErrAlreadySubscribed is returned for a known address.
func (m *Mailer) AddListMember(ctx context.Context, email, name string) error {
	if m.list == "" {
		return services.ErrListUnsupported
	}

	_, err := m.mg.GetMember(ctx, email, m.list)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", services.ErrAlreadySubscribed, email)
	case mailgun.GetStatusFromErr(err) != http.StatusNotFound:
		return fmt.Errorf("look up list member: %w", err)
	}

	subscribed := true
	return m.mg.CreateMember(ctx, false, m.list, mailgun.Member{
		Address:    email,
		Name:       name,
		Subscribed: &subscribed,
	})
}
