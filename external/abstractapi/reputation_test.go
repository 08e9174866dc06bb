package abstractapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"SportClubAPI/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	answers := map[string]string{
		"ok@x.com":    `{"email_deliverability":{"status":"deliverable"},"email_risk":{"address_risk_status":"low"}}`,
		"gone@x.com":  `{"email_deliverability":{"status":"undeliverable"}}`,
		"temp@x.com":  `{"email_quality":{"is_disposable":true}}`,
		"info@x.com":  `{"email_quality":{"is_role":true}}`,
		"shady@x.com": `{"email_risk":{"address_risk_status":"high"}}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		body, ok := answers[r.URL.Query().Get("email")]
		if !ok {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	v, err := NewReputationValidator("key")
	require.NoError(t, err)
	v.endpoint = srv.URL + "/v1/"
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, "ok@x.com"))
	for _, email := range []string{"gone@x.com", "temp@x.com", "info@x.com", "shady@x.com"} {
		assert.ErrorIs(t, v.Validate(ctx, email), services.ErrValidation, email)
	}

	err = v.Validate(ctx, "unknown@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrValidation)
}

func TestNewReputationValidatorRequiresKey(t *testing.T) {
	_, err := NewReputationValidator("")
	assert.Error(t, err)
}
