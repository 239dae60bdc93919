package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, errors.New("resend API key not set")
	}

	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendResetCode emails a password-reset code to the user.
func (m *ResendMailer) SendResetCode(
	ctx context.Context,
	toEmail string,
	code string,
) error {
	body := sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Your password reset code",
		HTML: `
			<p>We received a request to reset your password.</p>
			<p>Your code is: <b>` + code + `</b></p>
			<p>The code expires in a few minutes. If you did not request this, you can ignore this email.</p>
		`,
	}

	b, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.New(
			"failed to send reset code email: " + buf.String(),
		)
	}

	return nil
}
