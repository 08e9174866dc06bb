package resend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"SportClubAPI/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, audience string, h http.HandlerFunc) *ResendMailer {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	m, err := NewResendMailer("re_123", "SSC <onboarding@resend.dev>", audience)
	require.NoError(t, err)
	m.baseURL = srv.URL
	return m
}

func TestNewResendMailerRequiresKey(t *testing.T) {
	_, err := NewResendMailer("", "from", "")
	assert.Error(t, err)
}

func TestSendVerificationCode(t *testing.T) {
	m := newTestMailer(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_123", r.Header.Get("Authorization"))

		var req sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a@x.com"}, req.To)
		assert.Equal(t, services.VerificationSubject, req.Subject)
		assert.Contains(t, req.HTML, "654321")
		w.Write([]byte(`{"id":"1"}`))
	})

	require.NoError(t, m.SendVerificationCode(context.Background(), "a@x.com", 654321))
}

func TestSendFailure(t *testing.T) {
	m := newTestMailer(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	})

	err := m.SendVerificationCode(context.Background(), "a@x.com", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from")
}

func TestSendAttachments(t *testing.T) {
	p := filepath.Join(t.TempDir(), "flyer.pdf")
	require.NoError(t, os.WriteFile(p, []byte("pdf"), 0o600))

	m := newTestMailer(t, "", func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Attachments, 1)
		assert.Equal(t, "flyer.pdf", req.Attachments[0].Filename)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("pdf")), req.Attachments[0].Content)
	})

	require.NoError(t, m.Send(context.Background(), "a@x.com", services.EmailMessage{Subject: "s", Inline: []string{p}}))
}

func TestAddListMember(t *testing.T) {
	m := newTestMailer(t, "aud-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audiences/aud-1/contacts", r.URL.Path)
		var req contactRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email == "dup@x.com" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		assert.Equal(t, "Ana", req.FirstName)
	})

	ctx := context.Background()
	require.NoError(t, m.AddListMember(ctx, "a@x.com", "Ana"))
	assert.ErrorIs(t, m.AddListMember(ctx, "dup@x.com", "Ana"), services.ErrAlreadySubscribed)
}

func TestAddListMemberWithoutAudience(t *testing.T) {
	m, err := NewResendMailer("k", "f", "")
	require.NoError(t, err)
	assert.ErrorIs(t, m.AddListMember(context.Background(), "a@x.com", ""), services.ErrListUnsupported)
}
