// Package abstractapi checks email addresses against the Abstract email
// reputation API. Rejections are verdicts wrapping services.ErrEmailRejected;
// transport and HTTP failures are plain errors so the caller can treat them
// as infrastructure problems rather than a bad address.
package abstractapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/barak7821/CRM-Dashboard/internal/services"
)

type AbstractReputationValidator struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewAbstractReputationValidator(apiKey string) (*AbstractReputationValidator, error) {
	if apiKey == "" {
		return nil, errors.New("abstract email API key not set")
	}

	return &AbstractReputationValidator{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: "https://emailreputation.abstractapi.com/v1/",
	}, nil
}

type reputationResponse struct {
	EmailReputation string `json:"email_reputation"` // LOW, MEDIUM, HIGH
	IsDisposable    bool   `json:"is_disposable_email"`
	IsRoleEmail     bool   `json:"is_role_email"`
}

func (v *AbstractReputationValidator) Validate(
	ctx context.Context,
	email string,
) error {
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("api_key", v.apiKey)
	q.Set("email", email)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("email reputation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email reputation service error: %s", resp.Status)
	}

	var out reputationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}

	if out.IsDisposable {
		return fmt.Errorf("%w: disposable email is not allowed", services.ErrEmailRejected)
	}

	if out.IsRoleEmail {
		return fmt.Errorf("%w: role-based email is not allowed", services.ErrEmailRejected)
	}

	if out.EmailReputation == "LOW" {
		return fmt.Errorf("%w: email reputation too low", services.ErrEmailRejected)
	}

	return nil
}
