package mailer

import "time"

// Domain events published by the API and consumed by the email worker.
const (
	EventUserRegistered  = "user.registered"
	EventPasswordChanged = "user.password_changed"
)

// UserEvent is the JSON payload put on the RabbitMQ events queue.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EmailJob is a rendered-or-renderable email. Template and Data are resolved
// into Subject, Text and HTML before sending.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome", "password_changed"
	Data     map[string]any `json:"data,omitempty"`
}
