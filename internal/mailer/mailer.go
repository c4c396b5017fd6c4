// Package mailer delivers password-recovery email through a Mailtrap-style
// HTTP send API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender delivers a reset token to a user's address. Implementations must
// report delivery failure to the caller instead of swallowing it.
type Sender interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, token string) error
}

// Recipient represents an email address with optional display name.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From     Recipient   `json:"from"`
	To       []Recipient `json:"to"`
	Subject  string      `json:"subject"`
	Text     string      `json:"text"`
	Category string      `json:"category,omitempty"`
}

// APIMailer sends mail through an HTTP send endpoint.
type APIMailer struct {
	url          string
	apiKey       string
	from         Recipient
	resetBaseURL string
	client       *http.Client
}

// New builds an APIMailer.
func New(url, apiKey, fromEmail, fromName, resetBaseURL string) *APIMailer {
	return &APIMailer{
		url:          url,
		apiKey:       apiKey,
		from:         Recipient{Email: fromEmail, Name: fromName},
		resetBaseURL: resetBaseURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// SendPasswordReset emails the recovery link carrying the reset token.
func (m *APIMailer) SendPasswordReset(ctx context.Context, toEmail, toName, token string) error {
	resetURL := fmt.Sprintf("%s?token=%s", m.resetBaseURL, token)
	body := sendRequest{
		From:    m.from,
		To:      []Recipient{{Email: toEmail, Name: toName}},
		Subject: "Password recovery",
		Text: fmt.Sprintf(
			"Hello %s,\n\nA password reset was requested for your account. "+
				"Open the link below to choose a new password:\n\n%s\n\n"+
				"The link expires in 10 minutes. If you did not request this, ignore this email.\n",
			toName, resetURL),
		Category: "password-reset",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
