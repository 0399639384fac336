package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"talkpdf-backend/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*ResendMailer)(nil)

// ResendMailer delivers transactional mail through the Resend HTTP API.
type ResendMailer struct {
	apiKey  string
	baseURL string
	from    string
	client  *http.Client
}

func NewResendMailer(apiKey, baseURL, from string) *ResendMailer {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &ResendMailer{
		apiKey:  apiKey,
		baseURL: baseURL,
		from:    from,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *ResendMailer) SendPaymentConfirmation(ctx context.Context, to string, plan string, amount int64, currency string) error {
	payload := map[string]interface{}{
		"from":    m.from,
		"to":      []string{to},
		"subject": "Your TalkPDF subscription is active",
		"text": fmt.Sprintf(
			"Thanks for upgrading! Your %s plan is now active. Amount charged: %d %s.",
			plan, amount, currency,
		),
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.baseURL+"/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail provider error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

// NoopMailer is used in dev mode and tests.
type NoopMailer struct{}

func (NoopMailer) SendPaymentConfirmation(context.Context, string, string, int64, string) error {
	return nil
}
