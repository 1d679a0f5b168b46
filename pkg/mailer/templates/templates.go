package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"io"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names
const (
	Welcome         = "welcome"
	PasswordChanged = "password_changed"
)

// EmailData defines the fields available to every email template.
type EmailData struct {
	Name        string `json:"Name"`
	Email       string `json:"Email"`
	Type        string `json:"Type"`
	AppName     string `json:"AppName"`
	CompanyName string `json:"CompanyName"`
	SupportURL  string `json:"SupportURL"`
	LoginURL    string `json:"LoginURL"`
	Time        string `json:"Time"`
}

// ToMap converts EmailData to the map form carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	return map[string]any{
		"Name":        d.Name,
		"Email":       d.Email,
		"Type":        d.Type,
		"AppName":     d.AppName,
		"CompanyName": d.CompanyName,
		"SupportURL":  d.SupportURL,
		"LoginURL":    d.LoginURL,
		"Time":        d.Time,
	}
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

// Every template in FS is parsed once; a broken template fails at startup.
var (
	textSet = texttpl.Must(texttpl.New("").Funcs(texttpl.FuncMap(baseFuncs())).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("").Funcs(htmpl.FuncMap(baseFuncs())).ParseFS(FS, "*.html.tmpl"))
)

type executor interface {
	Execute(w io.Writer, data any) error
}

func execute(t executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render renders the subject, text and html parts of template name.
func Render(name string, data any) (subject string, text string, html string, err error) {
	st, tt, ht := textSet.Lookup(name+".subject.tmpl"), textSet.Lookup(name+".text.tmpl"), htmlSet.Lookup(name+".html.tmpl")
	if st == nil || tt == nil || ht == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	if subject, err = execute(st, st.Name(), data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(tt, tt.Name(), data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(ht, ht.Name(), data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
