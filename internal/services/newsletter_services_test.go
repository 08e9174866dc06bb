package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNewsletter(t *testing.T) (*NewsletterService, *recordingMailer, *memUsers, string) {
	t.Helper()
	root := t.TempDir()
	mailer := &recordingMailer{}
	users := newMemUsers()
	sub := &listSubscriber{members: map[string]string{}}
	svc := NewNewsletterService(mailer, sub, users, storage.NewLocalStore(root), "SSC <club@x.com>", "newsletter@mg.x.com")
	return svc, mailer, users, root
}

func TestSendSpecificWithAttachments(t *testing.T) {
	svc, mailer, _, root := newNewsletter(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveAttachment(ctx, `C:\docs\flyer.pdf`, strings.NewReader("pdf")))
	assert.FileExists(t, filepath.Join(root, AttachmentsDir, "flyer.pdf"))

	err := svc.Send(ctx, SendInput{
		Subject:        "Hello",
		HTML:           "<p>hi</p>",
		RecipientType:  RecipientsSpecific,
		SpecificEmails: []string{"a@x.com", " ", "b@x.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, mailer.recipients())
	msg := mailer.sent[0].Msg
	assert.Equal(t, "SSC <club@x.com>", msg.From)
	assert.Equal(t, []string{filepath.Join(root, AttachmentsDir, "flyer.pdf")}, msg.Inline)
	assert.NoFileExists(t, filepath.Join(root, AttachmentsDir, "flyer.pdf"))
}

func TestSendSubscribersAndMembers(t *testing.T) {
	svc, mailer, users, _ := newNewsletter(t)
	ctx := context.Background()

	users.byEmail["m@x.com"] = model.User{ID: "1", Email: "m@x.com", Member: true}
	users.byEmail["n@x.com"] = model.User{ID: "2", Email: "n@x.com"}

	require.NoError(t, svc.Send(ctx, SendInput{Subject: "s", RecipientType: RecipientsSubscribers}))
	require.NoError(t, svc.Send(ctx, SendInput{Subject: "s", RecipientType: RecipientsMembers}))

	assert.Equal(t, []string{"m@x.com", "newsletter@mg.x.com"}, mailer.recipients())
	assert.Empty(t, mailer.sent[0].Msg.Inline)
}

func TestSendFailureKeepsAttachments(t *testing.T) {
	svc, mailer, _, root := newNewsletter(t)
	ctx := context.Background()
	mailer.failTo = "bad@x.com"

	require.NoError(t, svc.SaveAttachment(ctx, "a.png", strings.NewReader("x")))
	err := svc.Send(ctx, SendInput{RecipientType: RecipientsSpecific, SpecificEmails: []string{"bad@x.com"}})
	assert.ErrorIs(t, err, ErrTransport)
	assert.FileExists(t, filepath.Join(root, AttachmentsDir, "a.png"))
}

func TestSendValidation(t *testing.T) {
	svc, _, _, _ := newNewsletter(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Send(ctx, SendInput{RecipientType: "everyone"}), ErrValidation)
	assert.ErrorIs(t, svc.Send(ctx, SendInput{RecipientType: RecipientsSpecific}), ErrValidation)

	svc.ListAddress = ""
	assert.ErrorIs(t, svc.Send(ctx, SendInput{RecipientType: RecipientsSubscribers}), ErrListUnsupported)
}

func TestSubscribe(t *testing.T) {
	svc, _, _, _ := newNewsletter(t)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "a@x.com", "Ana"))
	assert.ErrorIs(t, svc.Subscribe(ctx, "a@x.com", "Ana"), ErrAlreadySubscribed)
	assert.ErrorIs(t, svc.Subscribe(ctx, "nope", "Ana"), ErrValidation)

	svc.Subscriber.(*listSubscriber).err = errors.New("503")
	assert.ErrorIs(t, svc.Subscribe(ctx, "b@x.com", "B"), ErrTransport)

	svc.Subscriber = nil
	assert.ErrorIs(t, svc.Subscribe(ctx, "c@x.com", "C"), ErrListUnsupported)
}
