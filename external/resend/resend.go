package resend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"SportClubAPI/internal/services"
)

type ResendMailer struct {
	apiKey   string
	from     string
	audience string
	client   *http.Client
	baseURL  string
}

// NewResendMailer returns a mailer for the Resend API. audience is the
// audience id used as the newsletter list and may be empty.
func NewResendMailer(apiKey, from, audience string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, errors.New("RESEND_API_KEY not set")
	}

	return &ResendMailer{
		apiKey:   apiKey,
		from:     from,
		audience: audience,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type sendRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type contactRequest struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	Unsubscribed bool   `json:"unsubscribed"`
}

func (m *ResendMailer) post(ctx context.Context, path string, body any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+path,
		bytes.NewBuffer(b),
	)
	if err != nil {
		return 0, err
	}

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return resp.StatusCode, fmt.Errorf("resend: %s: %s", resp.Status, buf.String())
	}
	return resp.StatusCode, nil
}

func (m *ResendMailer) SendVerificationCode(
	ctx context.Context,
	toEmail string,
	code int,
) error {
	body := sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: services.VerificationSubject,
		HTML:    services.VerificationHTML(code),
	}

	if _, err := m.post(ctx, "/emails", body); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// Send sends msg to one address; msg.Inline files travel as attachments.
func (m *ResendMailer) Send(ctx context.Context, to string, msg services.EmailMessage) error {
	body := sendRequest{
		From:    msg.From,
		To:      []string{to},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	for _, p := range msg.Inline {
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		body.Attachments = append(body.Attachments, attachment{
			Filename: filepath.Base(p),
			Content:  base64.StdEncoding.EncodeToString(b),
		})
	}

	_, err := m.post(ctx, "/emails", body)
	return err
}

// AddListMember adds a contact to the newsletter audience.
func (m *ResendMailer) AddListMember(ctx context.Context, email, name string) error {
	if m.audience == "" {
		return services.ErrListUnsupported
	}
	status, err := m.post(ctx, "/audiences/"+m.audience+"/contacts", contactRequest{
		Email:     email,
		FirstName: name,
	})
	if status == http.StatusConflict {
		return fmt.Errorf("%w: %s", services.ErrAlreadySubscribed, email)
	}
	return err
}
