// Package mail sends transactional email.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

//go:generate mockgen -source=mail.go -destination=mailer_mock.go -package=mail

// Mailer delivers account notifications.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
}

// Noop discards every message. It is used when no mail provider is configured.
type Noop struct{}

func (Noop) SendWelcome(_ context.Context, email, _ string) error {
	slog.Debug("mail disabled, skipping welcome email", "to", email)
	return nil
}

const welcomeSubject = "Welcome to FinDash"

var welcomeBody = template.Must(template.New("welcome").Parse(
	`<p>Hi {{.}},</p><p>This is a confirmation of your signup.</p><p>We're excited to have you on board.</p>`,
))

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

func NewResendClient(baseURL, apiKey, from string) *ResendClient {
	return &ResendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *ResendClient) SendWelcome(ctx context.Context, email, name string) error {
	var body strings.Builder
	if err := welcomeBody.Execute(&body, name); err != nil {
		return fmt.Errorf("rendering welcome email: %w", err)
	}

	return c.send(ctx, sendRequest{
		From:    c.from,
		To:      []string{email},
		Subject: welcomeSubject,
		HTML:    body.String(),
	})
}

func (c *ResendClient) send(ctx context.Context, msg sendRequest) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}
