package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// twilioAPIBase is the Twilio Messages REST endpoint prefix.
const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioConfig holds credentials and sender identity for the Twilio SMS
// channel. When MessagingServiceSID is set it takes precedence over From.
type TwilioConfig struct {
	AccountSID          string
	AuthToken           string
	From                string
	MessagingServiceSID string
}

// configured reports whether the channel has usable credentials.
func (c TwilioConfig) configured() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

// TwilioSender sends SMS receipts through the Twilio Messages API.
type TwilioSender struct {
	cfg     TwilioConfig
	client  *http.Client
	baseURL string
}

// NewTwilioSender creates a TwilioSender. The sender is safe to construct
// with empty credentials; sends then report a not_configured failure instead
// of erroring, mirroring the rest of the best-effort dispatch policy.
func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	return &TwilioSender{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: twilioAPIBase,
	}
}

// twilioResponse is the subset of the Messages API response we read.
type twilioResponse struct {
	SID     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendSMS posts the message to the Twilio Messages endpoint. Any transport,
// auth, or API failure is folded into the Result.
func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) Result {
	if !s.cfg.configured() {
		return Failure("not_configured")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("Body", body)
	switch {
	case s.cfg.MessagingServiceSID != "":
		form.Set("MessagingServiceSid", s.cfg.MessagingServiceSID)
	case s.cfg.From != "":
		form.Set("From", s.cfg.From)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Failure(err.Error())
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return Failure(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Failure(err.Error())
	}

	var tw twilioResponse
	if err := json.Unmarshal(data, &tw); err != nil {
		return Failure("sms_error")
	}

	if resp.StatusCode >= 300 {
		// 30034: sender identity not yet A2P/toll-free verified.
		if tw.Code == 30034 {
			return Failure("Sender not A2P/TF verified yet")
		}
		if tw.Message != "" {
			return Failure(tw.Message)
		}
		return Failure("sms_error")
	}

	return Result{Success: true, ID: tw.SID}
}
