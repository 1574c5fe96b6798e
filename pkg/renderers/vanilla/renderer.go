// Package vanilla renders form schemas as self-contained HTML pages with no
// client-side framework. Markup comes from an embedded pongo2 template
// bundle; callers can swap the bundle or the whole template engine.
package vanilla

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-callform/pkg/render"
	rendertemplate "github.com/goliatone/go-callform/pkg/render/template"
	"github.com/goliatone/go-callform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-callform/pkg/schema"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selector         theme.ThemeSelector
	defaultTheme     string
	defaultVariant   string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector resolves theme/variant choices from render options into
// CSS custom properties injected into the page.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.selector = selector
	}
}

// WithDefaultTheme sets the theme used when render options name none.
func WithDefaultTheme(name, variant string) Option {
	return func(cfg *config) {
		cfg.defaultTheme = name
		cfg.defaultVariant = variant
	}
}

type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	selector       theme.ThemeSelector
	defaultTheme   string
	defaultVariant string
}

var (
	_ render.Renderer       = (*Renderer)(nil)
	_ render.ResultRenderer = (*Renderer)(nil)
)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:      templates,
		selector:       cfg.selector,
		defaultTheme:   cfg.defaultTheme,
		defaultVariant: cfg.defaultVariant,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full HTML page for a form, pre-populating controls and
// surfacing validation feedback from the options.
func (r *Renderer) Render(_ context.Context, form *schema.FormSchema, options render.RenderOptions) ([]byte, error) {
	if form == nil {
		return nil, fmt.Errorf("vanilla renderer: form schema is required")
	}

	data := map[string]any{
		"form":          formData(form),
		"fields":        fieldData(form, options),
		"action":        options.Action,
		"method":        methodOrDefault(options.Method),
		"hidden_fields": hiddenFieldData(options.Hidden),
		"stylesheet":    defaultStylesheet(),
		"theme_css":     r.themeCSS(options),
	}

	result, err := r.templates.RenderTemplate("templates/form", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form: %w", err)
	}
	return []byte(result), nil
}

// RenderResult produces the page shown after a finished submission.
func (r *Renderer) RenderResult(_ context.Context, form *schema.FormSchema, outcome render.Outcome, options render.RenderOptions) ([]byte, error) {
	if form == nil {
		return nil, fmt.Errorf("vanilla renderer: form schema is required")
	}

	data := map[string]any{
		"form":   formData(form),
		"action": options.Action,
		"result": map[string]any{
			"ok":      outcome.OK,
			"value":   formatValue(outcome.Value),
			"message": outcome.Message,
		},
		"stylesheet": defaultStylesheet(),
		"theme_css":  r.themeCSS(options),
	}

	result, err := r.templates.RenderTemplate("templates/result", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render result: %w", err)
	}
	return []byte(result), nil
}

// themeCSS resolves the selected theme into a CSS custom-property block.
// Token names map onto the --cf-* variables the stylesheet consumes.
func (r *Renderer) themeCSS(options render.RenderOptions) string {
	if r.selector == nil {
		return ""
	}
	name := options.Theme
	if name == "" {
		name = r.defaultTheme
	}
	if name == "" {
		return ""
	}
	variant := options.Variant
	if variant == "" {
		variant = r.defaultVariant
	}

	selection, err := r.selector.Select(name, variant)
	if err != nil || selection == nil || selection.Manifest == nil {
		return ""
	}
	tokens := selection.Manifest.Tokens
	if len(tokens) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(":root{")
	for _, key := range sortedKeys(tokens) {
		b.WriteString("--cf-")
		b.WriteString(key)
		b.WriteByte(':')
		b.WriteString(tokens[key])
		b.WriteByte(';')
	}
	b.WriteString("}")
	return b.String()
}

func formData(form *schema.FormSchema) map[string]any {
	title := form.Title
	if title == "" {
		title = form.Name
	}
	return map[string]any{
		"name":    form.Name,
		"title":   title,
		"summary": form.Summary,
	}
}

func methodOrDefault(method string) string {
	if method == "" {
		return "post"
	}
	return strings.ToLower(method)
}

func hiddenFieldData(hidden map[string]string) []map[string]any {
	fields := render.SortedHiddenFields(hidden)
	if len(fields) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]any{
			"name":  field.Name,
			"value": field.Value,
		})
	}
	return out
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(encoded)
}
