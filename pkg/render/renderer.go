// Package render defines the contract between generated form schemas and the
// concrete output surfaces (HTML pages, terminal prompts). Renderers consume
// a schema plus per-request options and never mutate either.
package render

import (
	"context"

	"github.com/goliatone/go-callform/pkg/schema"
)

// Renderer converts a FormSchema into a byte representation (HTML, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *schema.FormSchema, options RenderOptions) ([]byte, error)
}

// ResultRenderer is implemented by renderers that can also present the
// outcome of a submission (the returned value or the failure message).
type ResultRenderer interface {
	Renderer
	RenderResult(ctx context.Context, form *schema.FormSchema, outcome Outcome, options RenderOptions) ([]byte, error)
}

// Outcome is the renderer-facing view of one finished submission: either a
// value to present or a failure message. Validation errors never reach an
// Outcome; they re-render the form through RenderOptions.Errors instead.
type Outcome struct {
	OK      bool
	Value   any
	Message string
}
