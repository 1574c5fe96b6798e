// Package callform turns Go callables into web forms. A callable of shape
//
//	func(context.Context, I) (O, error)
//
// is introspected through its input struct I: exported fields become ordered
// form parameters, struct tags carry labels, help text, enum choices and
// bounds, and a prototype value supplies defaults. The generated schema
// drives HTML pages, terminal prompt sessions and an OpenAPI export, and
// every submission flows through the same coerce-validate-invoke pipeline.
//
// This file is the facade: most applications only need Register, Serve and
// the option helpers re-exported here. The pkg tree holds the individual
// stages for callers that compose their own pipelines.
package callform

import (
	"context"

	"github.com/goliatone/go-callform/pkg/invoke"
	"github.com/goliatone/go-callform/pkg/render"
	"github.com/goliatone/go-callform/pkg/renderers/tui"
	"github.com/goliatone/go-callform/pkg/schema"
	"github.com/goliatone/go-callform/pkg/server"
	"github.com/goliatone/go-callform/pkg/uihints"
)

// Form binds one callable to its generated schema.
type Form = invoke.Form

// Registry routes submissions to registered forms by callable name.
type Registry = invoke.Registry

// SubmissionResult is the outcome of one invocation attempt.
type SubmissionResult = invoke.SubmissionResult

// FormSchema is the renderable description of a callable's parameters.
type FormSchema = schema.FormSchema

// Option configures form construction.
type Option = invoke.Option

// WithSummary sets the one-line description shown under the form title.
var WithSummary = invoke.WithSummary

// WithWidgetRegistry resolves widgets through a custom registry.
var WithWidgetRegistry = invoke.WithWidgetRegistry

// WithIntrospectOptions forwards options to parameter introspection.
var WithIntrospectOptions = invoke.WithIntrospectOptions

// New builds a form for fn, deriving parameters from I's exported fields.
func New[I, O any](name string, fn func(context.Context, I) (O, error), opts ...Option) (*Form, error) {
	return invoke.New(name, fn, opts...)
}

// NewWithDefaults builds a form with non-zero prototype fields exposed as
// parameter defaults.
func NewWithDefaults[I, O any](name string, prototype I, fn func(context.Context, I) (O, error), opts ...Option) (*Form, error) {
	return invoke.NewWithDefaults(name, prototype, fn, opts...)
}

// NewRegistry creates an empty form registry.
func NewRegistry() *Registry {
	return invoke.NewRegistry()
}

// Serve hosts the registry over HTTP using configuration from the
// environment. It blocks until ctx is cancelled.
func Serve(ctx context.Context, registry *Registry, opts ...server.Option) error {
	cfg, err := server.FromEnv()
	if err != nil {
		return err
	}
	srv, err := server.New(cfg, registry, opts...)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

// Prompt collects values for a form through interactive terminal prompts and
// invokes the callable with them.
func Prompt(ctx context.Context, form *Form) (*SubmissionResult, error) {
	renderer, err := tui.New()
	if err != nil {
		return nil, err
	}
	values, err := renderer.Collect(ctx, form.Schema(), render.RenderOptions{})
	if err != nil {
		return nil, err
	}
	return form.Invoke(ctx, values), nil
}

// LoadHints reads presentation overrides for server hosting; see pkg/uihints.
var LoadHints = uihints.LoadFS
