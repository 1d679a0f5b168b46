package templates

import (
	"time"

	"github.com/oksasatya/blog-api/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

func WithRecipient(name, email string) Option {
	return func(d *EmailData) {
		d.Name = name
		d.Email = email
	}
}

// NewBaseEmailData fills the shared fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, opts ...Option) EmailData {
	d := EmailData{
		Type:        typ,
		AppName:     cfg.AppName,
		CompanyName: cfg.CompanyName,
		SupportURL:  cfg.SupportURL,
		LoginURL:    cfg.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
