package helpers

import (
	"fmt"

	"github.com/oksasatya/blog-api/pkg/mailer"
	mailtpl "github.com/oksasatya/blog-api/pkg/mailer/templates"
)

// TemplateForEvent names the email template rendered for an event type.
func TemplateForEvent(eventType string) (string, bool) {
	switch eventType {
	case mailer.EventUserRegistered:
		return mailtpl.Welcome, true
	case mailer.EventPasswordChanged:
		return mailtpl.PasswordChanged, true
	default:
		return "", false
	}
}

// EmailJobForEvent turns a user event into a renderable job. base carries the
// shared fields such as the app name and support links.
func EmailJobForEvent(ev mailer.UserEvent, base mailtpl.EmailData) (mailer.EmailJob, error) {
	name, ok := TemplateForEvent(ev.Type)
	if !ok {
		return mailer.EmailJob{}, fmt.Errorf("no email for event %q", ev.Type)
	}
	if ev.Email == "" {
		return mailer.EmailJob{}, fmt.Errorf("event %q has no recipient", ev.Type)
	}
	base.Type = name
	base.Name = ev.Username
	base.Email = ev.Email
	if !ev.OccurredAt.IsZero() {
		mailtpl.WithTime(ev.OccurredAt)(&base)
	}
	return mailer.EmailJob{To: ev.Email, Template: name, Data: mailtpl.ToMap(base)}, nil
}

// RenderJob fills Subject, Text and HTML from the job's template.
func RenderJob(job *mailer.EmailJob) error {
	if job.Template == "" {
		return nil
	}
	s, t, h, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return err
	}
	job.Subject, job.Text, job.HTML = s, t, h
	return nil
}
