// Package notify defines the outbound notification collaborators (SMS and
// email) and their per-channel result envelope. Senders are best-effort:
// every failure is converted into a Result instead of an error so one
// channel can never block or fail the other.
package notify

import "context"

// Result is the outcome of a single notification attempt. ID carries the
// provider message identifier (Twilio SID, Resend email ID) on success.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure builds a failed Result with the given error label.
func Failure(label string) Result {
	return Result{Success: false, Error: label}
}

// SMSSender delivers a text message to an E.164 destination.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) Result
}

// EmailSender delivers a rendered HTML email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) Result
}
