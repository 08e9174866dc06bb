// Package abstractapi checks addresses against the AbstractAPI email
// reputation service before a registration is accepted.
package abstractapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SportClubAPI/internal/services"
)

const defaultEndpoint = "https://emailreputation.abstractapi.com/v1/"

type ReputationValidator struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

func NewReputationValidator(apiKey string) (*ReputationValidator, error) {
	if apiKey == "" {
		return nil, errors.New("abstractapi: missing api key")
	}
	return &ReputationValidator{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 5 * time.Second},
	}, nil
}

type reputation struct {
	Deliverability struct {
		Status string `json:"status"`
	} `json:"email_deliverability"`
	Quality struct {
		IsDisposable bool `json:"is_disposable"`
		IsRole       bool `json:"is_role"`
	} `json:"email_quality"`
	Risk struct {
		AddressRisk string `json:"address_risk_status"`
	} `json:"email_risk"`
}

func (r *reputation) rejection() string {
	switch {
	case strings.EqualFold(r.Deliverability.Status, "undeliverable"):
		return "email address is undeliverable"
	case r.Quality.IsDisposable:
		return "disposable email is not allowed"
	case r.Quality.IsRole:
		return "role-based email is not allowed"
	case strings.EqualFold(r.Risk.AddressRisk, "high"):
		return "email reputation is too low"
	}
	return ""
}

// Validate rejects undeliverable, disposable, role based and high risk
// addresses with an error wrapping services.ErrValidation. Failures of the
// service itself are returned unwrapped.
func (v *ReputationValidator) Validate(ctx context.Context, email string) error {
	u, err := url.Parse(v.endpoint)
	if err != nil {
		return err
	}
	u.RawQuery = url.Values{"api_key": {v.apiKey}, "email": {email}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := v.http.Do(req)
	if err != nil {
		return fmt.Errorf("abstractapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("abstractapi: unexpected status %s", resp.Status)
	}

	var rep reputation
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		return fmt.Errorf("abstractapi: decode: %w", err)
	}
	if reason := rep.rejection(); reason != "" {
		return fmt.Errorf("%w: %s", services.ErrValidation, reason)
	}
	return nil
}
