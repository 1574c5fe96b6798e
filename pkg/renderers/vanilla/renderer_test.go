package vanilla

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-callform/pkg/render"
	"github.com/goliatone/go-callform/pkg/schema"
)

func floatPtr(v float64) *float64 { return &v }

func sampleSchema() *schema.FormSchema {
	return &schema.FormSchema{
		Name:    "greet",
		Title:   "Greet",
		Summary: "Print a greeting",
		Parameters: []schema.Parameter{
			{
				Descriptor: schema.ParameterDescriptor{
					Name:     "name",
					Type:     schema.TagString,
					Label:    "Name",
					Help:     "Who to greet",
					Required: true,
				},
				Widget: schema.WidgetSpec{Kind: schema.WidgetText, Required: true},
			},
			{
				Descriptor: schema.ParameterDescriptor{
					Name:  "times",
					Type:  schema.TagInteger,
					Label: "Times",
				},
				Widget: schema.WidgetSpec{
					Kind:    schema.WidgetNumber,
					Default: "1",
					Min:     floatPtr(1),
					Max:     floatPtr(10),
					Step:    floatPtr(1),
				},
			},
			{
				Descriptor: schema.ParameterDescriptor{
					Name:  "color",
					Type:  schema.TagEnum,
					Label: "Color",
					Enum:  []any{"red", "blue"},
				},
				Widget: schema.WidgetSpec{
					Kind:    schema.WidgetSelect,
					Choices: []string{"red", "blue"},
				},
			},
			{
				Descriptor: schema.ParameterDescriptor{
					Name:  "loud",
					Type:  schema.TagBoolean,
					Label: "Loud",
				},
				Widget: schema.WidgetSpec{Kind: schema.WidgetCheckbox, Default: "false"},
			},
		},
	}
}

func renderPage(t *testing.T, form *schema.FormSchema, options render.RenderOptions, opts ...Option) string {
	t.Helper()
	renderer, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	page, err := renderer.Render(context.Background(), form, options)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return string(page)
}

func TestRenderEmitsEveryParameter(t *testing.T) {
	page := renderPage(t, sampleSchema(), render.RenderOptions{Action: "/forms/greet"})

	for _, want := range []string{
		`<form class="cf-form" method="post" action="/forms/greet">`,
		`<h1>Greet</h1>`,
		`name="name"`,
		`type="number"`,
		`min="1"`,
		`max="10"`,
		`<option value="red"`,
		`type="checkbox"`,
		`value="1"`,
		`Who to greet`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("rendered page missing %q:\n%s", want, page)
		}
	}
}

func TestRenderPrefillsSubmittedValues(t *testing.T) {
	page := renderPage(t, sampleSchema(), render.RenderOptions{
		Values: map[string]any{"name": "ada", "color": "blue", "loud": "true"},
	})

	for _, want := range []string{
		`value="ada"`,
		`<option value="blue" selected>`,
		`value="true" checked`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("rendered page missing %q:\n%s", want, page)
		}
	}
}

func TestRenderShowsFieldErrors(t *testing.T) {
	page := renderPage(t, sampleSchema(), render.RenderOptions{
		Errors: map[string][]string{"times": {"not an integer"}},
	})

	if !strings.Contains(page, `cf-field-invalid`) {
		t.Fatalf("page should mark the failing field:\n%s", page)
	}
	if !strings.Contains(page, `data-param="times">not an integer</p>`) {
		t.Fatalf("page should carry the error message:\n%s", page)
	}
}

func TestRenderOmitAffordance(t *testing.T) {
	form := &schema.FormSchema{
		Name: "clamp",
		Parameters: []schema.Parameter{
			{
				Descriptor: schema.ParameterDescriptor{
					Name:  "limit",
					Type:  schema.TagOptional,
					Label: "Limit",
					Element: &schema.ParameterDescriptor{
						Name: "limit",
						Type: schema.TagInteger,
					},
				},
				Widget: schema.WidgetSpec{Kind: schema.WidgetNumber, AllowOmit: true},
			},
		},
	}

	page := renderPage(t, form, render.RenderOptions{})
	if !strings.Contains(page, `name="limit__omit"`) {
		t.Fatalf("optional parameter should render an omit control:\n%s", page)
	}
}

func TestRenderHiddenFields(t *testing.T) {
	page := renderPage(t, sampleSchema(), render.RenderOptions{
		Hidden: map[string]string{"_csrf": "token-1"},
	})
	if !strings.Contains(page, `<input type="hidden" name="_csrf" value="token-1">`) {
		t.Fatalf("hidden field missing:\n%s", page)
	}
}

func TestRenderSanitizesHelp(t *testing.T) {
	form := sampleSchema()
	form.Parameters[0].Descriptor.Help = `click <a href="https://example.com">here</a><script>alert(1)</script>`

	page := renderPage(t, form, render.RenderOptions{})
	if strings.Contains(page, "<script>") {
		t.Fatalf("script tag survived sanitisation:\n%s", page)
	}
	if !strings.Contains(page, `href="https://example.com"`) {
		t.Fatalf("absolute link should survive sanitisation:\n%s", page)
	}
	if !strings.Contains(page, `rel="nofollow"`) {
		t.Fatalf("links should carry nofollow:\n%s", page)
	}
}

type stubSelector struct {
	selection *theme.Selection
	calls     int
}

func (s *stubSelector) Select(_, _ string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls++
	return s.selection, nil
}

func TestRenderAppliesThemeTokens(t *testing.T) {
	selector := &stubSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"accent": "#123456", "bg": "#000000"},
		},
	}}

	page := renderPage(t, sampleSchema(), render.RenderOptions{Theme: "acme", Variant: "dark"},
		WithThemeSelector(selector))

	if selector.calls != 1 {
		t.Fatalf("selector calls = %d, want 1", selector.calls)
	}
	if !strings.Contains(page, ":root{--cf-accent:#123456;--cf-bg:#000000;}") {
		t.Fatalf("theme tokens missing:\n%s", page)
	}
}

func TestRenderResultPages(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	page, err := renderer.RenderResult(context.Background(), sampleSchema(), render.Outcome{
		OK:    true,
		Value: map[string]any{"greeting": "hello"},
	}, render.RenderOptions{Action: "/forms/greet"})
	if err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	if !strings.Contains(string(page), "cf-result-ok") || !strings.Contains(string(page), "hello") {
		t.Fatalf("success page wrong:\n%s", page)
	}

	page, err = renderer.RenderResult(context.Background(), sampleSchema(), render.Outcome{
		OK:      false,
		Message: "boom",
	}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("RenderResult() error = %v", err)
	}
	if !strings.Contains(string(page), "cf-result-failed") || !strings.Contains(string(page), "boom") {
		t.Fatalf("failure page wrong:\n%s", page)
	}
}

func TestContentType(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if renderer.Name() != "vanilla" {
		t.Fatalf("Name() = %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("ContentType() = %q", renderer.ContentType())
	}
}
