package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"SportClubAPI/internal/storage"

	"golang.org/x/sync/errgroup"
)

// AttachmentsDir holds files uploaded for the next bulk email.
const AttachmentsDir = "emailAttachments"

// Recipient types accepted by Send.
const (
	RecipientsSpecific    = "specific"
	RecipientsSubscribers = "subscribers"
	RecipientsMembers     = "members"
)

const defaultSendConcurrency = 8

// MemberLister returns the addresses of club members.
type MemberLister interface {
	ListMemberEmails(ctx context.Context) ([]string, error)
}

type SendInput struct {
	Subject        string
	HTML           string
	RecipientType  string
	SpecificEmails []string
}

type NewsletterService struct {
	Mailer      Mailer
	Subscriber  ListSubscriber
	Members     MemberLister
	Attachments *storage.LocalStore
	From        string
	ListAddress string
	Concurrency int
}

func NewNewsletterService(m Mailer, sub ListSubscriber, members MemberLister, attachments *storage.LocalStore, from, listAddress string) *NewsletterService {
	return &NewsletterService{
		Mailer:      m,
		Subscriber:  sub,
		Members:     members,
		Attachments: attachments,
		From:        from,
		ListAddress: listAddress,
		Concurrency: defaultSendConcurrency,
	}
}

// SaveAttachment stores an uploaded file for the next Send. Only the base
// name of the client supplied file name is kept.
func (s *NewsletterService) SaveAttachment(ctx context.Context, name string, r io.Reader) error {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("%w: attachment name is required", ErrValidation)
	}
	return s.Attachments.Save(ctx, AttachmentsDir, name, r)
}

func (s *NewsletterService) attachmentPaths(ctx context.Context) ([]string, error) {
	names, err := s.Attachments.List(ctx, AttachmentsDir)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(names))
	for _, n := range names {
		p, err := s.Attachments.Path(AttachmentsDir, n)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (s *NewsletterService) recipients(ctx context.Context, in SendInput) ([]string, error) {
	switch in.RecipientType {
	case RecipientsSpecific:
		var out []string
		for _, e := range in.SpecificEmails {
			if e = strings.TrimSpace(e); e != "" {
				out = append(out, e)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: no recipients given", ErrValidation)
		}
		return out, nil
	case RecipientsSubscribers:
		if s.ListAddress == "" {
			return nil, ErrListUnsupported
		}
		return []string{s.ListAddress}, nil
	case RecipientsMembers:
		return s.Members.ListMemberEmails(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown recipient type %q", ErrValidation, in.RecipientType)
	}
}

// Send mails the message to every recipient with the stored attachments
// inline. The attachments are removed once every send succeeded; on failure
// they are kept for another attempt.
func (s *NewsletterService) Send(ctx context.Context, in SendInput) error {
	to, err := s.recipients(ctx, in)
	if err != nil {
		return err
	}
	inline, err := s.attachmentPaths(ctx)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	log.Debugf("Sending %q to %d recipients with %d attachments", in.Subject, len(to), len(inline))

	msg := EmailMessage{
		From:    s.From,
		Subject: in.Subject,
		HTML:    in.HTML,
		Inline:  inline,
	}

	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit <= 0 {
		limit = defaultSendConcurrency
	}
	g.SetLimit(limit)
	for _, addr := range to {
		addr := addr
		g.Go(func() error {
			if err := s.Mailer.Send(gctx, addr, msg); err != nil {
				log.Errorf("Failed to send email to %v: %v", addr, err)
				return fmt.Errorf("%w: %v", ErrTransport, err)
			}
			log.Debugf("Email sent to %v", addr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, p := range inline {
		if err := s.Attachments.Delete(ctx, AttachmentsDir, filepath.Base(p)); err != nil {
			log.Warnf("Failed to delete attachment %v: %v", p, err)
		}
	}
	return nil
}

// Subscribe adds email to the newsletter list.
func (s *NewsletterService) Subscribe(ctx context.Context, email, fullName string) error {
	if s.Subscriber == nil {
		return ErrListUnsupported
	}
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if err := s.Subscriber.AddListMember(ctx, email, strings.TrimSpace(fullName)); err != nil {
		if errors.Is(err, ErrAlreadySubscribed) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	log.Infof("Newsletter subscription: %v", email)
	return nil
}
