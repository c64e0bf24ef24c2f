package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer renders outgoing emails from embedded templates.
type Renderer struct {
	newsletterName string
	confirmHTML    *htmltemplate.Template
	confirmText    *texttemplate.Template
}

type confirmationData struct {
	Newsletter       string
	ConfirmationLink string
}

// NewRenderer creates a renderer for the named newsletter and parses all
// embedded templates.
func NewRenderer(newsletterName string) (*Renderer, error) {
	if newsletterName == "" {
		newsletterName = "our newsletter"
	}

	htmlContent, err := templatesFS.ReadFile("templates/confirmation_html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("read html template: %w", err)
	}
	confirmHTML, err := htmltemplate.New("confirmation_html").
		Funcs(htmltemplate.FuncMap{"title": titleCase}).
		Parse(string(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}

	textContent, err := templatesFS.ReadFile("templates/confirmation_text.tmpl")
	if err != nil {
		return nil, fmt.Errorf("read text template: %w", err)
	}
	confirmText, err := texttemplate.New("confirmation_text").
		Funcs(texttemplate.FuncMap{"title": titleCase}).
		Parse(string(textContent))
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}

	return &Renderer{
		newsletterName: newsletterName,
		confirmHTML:    confirmHTML,
		confirmText:    confirmText,
	}, nil
}

// RenderConfirmation renders the confirmation email for a confirmation link.
func (r *Renderer) RenderConfirmation(confirmationLink string) (subject, htmlBody, textBody string, err error) {
	data := confirmationData{
		Newsletter:       r.newsletterName,
		ConfirmationLink: confirmationLink,
	}

	var html bytes.Buffer
	if err := r.confirmHTML.Execute(&html, data); err != nil {
		return "", "", "", fmt.Errorf("execute html template: %w", err)
	}

	var text bytes.Buffer
	if err := r.confirmText.Execute(&text, data); err != nil {
		return "", "", "", fmt.Errorf("execute text template: %w", err)
	}

	return "Welcome!", strings.TrimSpace(html.String()), strings.TrimSpace(text.String()), nil
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
