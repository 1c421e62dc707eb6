package services

import (
	"context"
	"fmt"
	"html"

	"virtualevents/internal/domain"
)

type emailService struct {
	mailer domain.Mailer
}

// NewEmailService returns an EmailService that composes messages inline and
// sends them through the given Mailer.
func NewEmailService(mailer domain.Mailer) domain.EmailService {
	return &emailService{mailer: mailer}
}

func (s *emailService) SendRegistrationConfirmation(ctx context.Context, user *domain.User, event *domain.Event) error {
	if user == nil || event == nil {
		return fmt.Errorf("registration confirmation needs a user and an event")
	}

	subject := fmt.Sprintf("You're registered: %s", event.Title)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour registration for %q on %s is confirmed.\n",
		user.Name, event.Title, event.StartAt.Format("Mon, 02 Jan 2006 15:04 MST"),
	)
	if event.MeetingURL != "" {
		text += fmt.Sprintf("\nJoin here: %s\n", event.MeetingURL)
	}

	htmlBody := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your registration for <strong>%s</strong> on %s is confirmed.</p>",
		html.EscapeString(user.Name),
		html.EscapeString(event.Title),
		event.StartAt.Format("Mon, 02 Jan 2006 15:04 MST"),
	)
	if event.MeetingURL != "" {
		htmlBody += fmt.Sprintf("<p>Join here: <a href=%q>%s</a></p>",
			event.MeetingURL, html.EscapeString(event.MeetingURL))
	}

	if err := s.mailer.Send(user.Email, subject, htmlBody, text); err != nil {
		return fmt.Errorf("send registration confirmation: %w", err)
	}
	return nil
}
