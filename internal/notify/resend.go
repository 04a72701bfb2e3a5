package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// resendAPIURL is the Resend send-email endpoint.
const resendAPIURL = "https://api.resend.com/emails"

// ResendConfig holds credentials and addressing for the Resend email channel.
type ResendConfig struct {
	APIKey string
	// From is the sender identity, e.g. "Order Bot <onboarding@resend.dev>".
	From string
	// DefaultTo receives receipts when the customer gave no email address.
	DefaultTo string
}

// ResendSender sends HTML email receipts through the Resend API.
type ResendSender struct {
	cfg     ResendConfig
	client  *http.Client
	baseURL string
}

// NewResendSender creates a ResendSender. Missing credentials degrade to
// not_configured failures on send, never to construction errors.
func NewResendSender(cfg ResendConfig) *ResendSender {
	return &ResendSender{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: resendAPIURL,
	}
}

// DefaultTo returns the fallback recipient for customers without an email.
func (s *ResendSender) DefaultTo() string {
	return s.cfg.DefaultTo
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SendEmail posts the rendered receipt to the Resend API. Transport and API
// failures are folded into the Result.
func (s *ResendSender) SendEmail(ctx context.Context, to, subject, html string) Result {
	if s.cfg.APIKey == "" {
		return Failure("missing_RESEND_API_KEY")
	}
	if to == "" {
		to = s.cfg.DefaultTo
	}
	if to == "" || s.cfg.From == "" {
		return Failure("not_configured")
	}

	payload, err := json.Marshal(resendRequest{
		From:    s.cfg.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return Failure(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return Failure(err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Failure(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Failure(err.Error())
	}

	var re resendResponse
	if err := json.Unmarshal(data, &re); err != nil {
		return Failure("email_error")
	}

	if resp.StatusCode >= 300 {
		if re.Message != "" {
			return Failure(re.Message)
		}
		return Failure("email_error")
	}

	return Result{Success: true, ID: re.ID}
}
