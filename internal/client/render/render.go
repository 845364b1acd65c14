// Package render turns dialog state into HTML: named html/template views
// served through the fiber template engine, Markdown conversion for the
// enrollment instructions, and sanitising of server-supplied markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberhtml "github.com/gofiber/template/html/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	TemplateDialog     = "dialog"
	TemplateAlertError = "alert_error"
	TemplatePhones     = "phones"
	TemplateCaptcha    = "captcha"
)

// Renderer is safe for concurrent use once constructed.
type Renderer struct {
	views  *fiberhtml.Engine
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// NewHtmlEngine returns the template engine over templateDir, or over the
// embedded templates when templateDir is empty.
func NewHtmlEngine(templateDir string) *fiberhtml.Engine {
	if templateDir != "" {
		return fiberhtml.NewFileSystem(http.Dir(templateDir), ".html")
	}
	renderFS, _ := fs.Sub(templateFS, "templates")
	return fiberhtml.NewFileSystem(http.FS(renderFS), ".html")
}

func New() (*Renderer, error) {
	views := NewHtmlEngine("")
	if err := views.Load(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return &Renderer{
		views:  views,
		md:     goldmark.New(goldmark.WithExtensions(extension.Linkify)),
		policy: bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data fiber.Map) (string, error) {
	var buf bytes.Buffer
	if err := r.views.Render(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Fragment is Render for templates embedded into another template.
func (r *Renderer) Fragment(name string, data fiber.Map) (template.HTML, error) {
	s, err := r.Render(name, data)
	if err != nil {
		return "", err
	}
	return template.HTML(s), nil
}

// Markdown converts src to sanitised HTML.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// Sanitize keeps the harmless subset of server-supplied markup such as the
// captcha image or a <strong> in a message.
func (r *Renderer) Sanitize(markup string) template.HTML {
	return template.HTML(r.policy.Sanitize(markup))
}

// PlainText removes every tag and decodes entities, for terminal output.
func (r *Renderer) PlainText(markup string) string {
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(markup)))
}

// EnrollmentInstructions fills the placeholders of one platform's Markdown
// instructions. Unknown placeholders are left untouched.
func EnrollmentInstructions(tmpl, imageURL, secretKey, appURL string) string {
	return strings.NewReplacer(
		"{{image_url}}", imageURL,
		"{{secret_key}}", secretKey,
		"{{app_url}}", appURL,
	).Replace(tmpl)
}
