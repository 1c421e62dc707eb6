package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailService defines the contract for sending domain-level emails.
// Sending is best-effort: callers never let a mailer failure change the
// outcome of the operation that triggered it.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, user *User, event *Event) error
}
