// Package tui collects form values through interactive terminal prompts.
// Each widget kind maps onto a prompt type; the collected raw values feed the
// same invocation pipeline HTML submissions go through.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-callform/pkg/coerce"
	"github.com/goliatone/go-callform/pkg/render"
	"github.com/goliatone/go-callform/pkg/schema"
)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithDriver swaps the survey-backed prompt driver, typically for tests.
func WithDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// Renderer implements render.Renderer for terminal sessions. Render prompts
// for every parameter and serializes the collected raw values as JSON.
type Renderer struct {
	driver PromptDriver
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with the survey driver by default.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{driver: newSurveyDriver()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render prompts for every parameter and returns the raw value map as JSON.
func (r *Renderer) Render(ctx context.Context, form *schema.FormSchema, options render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, options)
	if err != nil {
		return nil, err
	}
	return json.Marshal(values)
}

// Collect prompts for every parameter and returns the raw value map ready to
// hand to the invocation pipeline. Omitted optionals are absent from the map.
func (r *Renderer) Collect(ctx context.Context, form *schema.FormSchema, options render.RenderOptions) (map[string]any, error) {
	if form == nil {
		return nil, errors.New("tui: form schema is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	if title := formTitle(form); title != "" {
		if err := r.driver.Info(ctx, title); err != nil {
			return nil, err
		}
	}

	values := make(map[string]any, len(form.Parameters))
	for _, param := range form.Parameters {
		value, skip, err := r.promptParameter(ctx, param, options)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		values[param.Descriptor.Name] = value
	}
	return values, nil
}

func (r *Renderer) promptParameter(ctx context.Context, param schema.Parameter, options render.RenderOptions) (any, bool, error) {
	desc := param.Descriptor
	widget := param.Widget

	if widget.AllowOmit {
		provide, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Provide %s?", promptLabel(desc)),
			Default: widget.Default != "",
			Help:    desc.Help,
		})
		if err != nil {
			return nil, false, err
		}
		if !provide {
			return nil, true, nil
		}
	}

	switch widget.Kind {
	case schema.WidgetCheckbox:
		value, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: promptLabel(desc),
			Default: widget.Default == "true",
			Help:    desc.Help,
		})
		return value, false, err
	case schema.WidgetSelect:
		index, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(desc),
			Options:      widget.Choices,
			DefaultIndex: defaultChoiceIndex(widget),
			Help:         desc.Help,
		})
		if err != nil {
			return nil, false, err
		}
		return widget.Choices[index], false, err
	case schema.WidgetList:
		return r.promptList(ctx, param)
	default:
		value, err := r.driver.Input(ctx, InputConfig{
			Message:   promptLabel(desc),
			Default:   prefill(desc.Name, widget, options),
			Help:      desc.Help,
			Validator: valueValidator(param),
		})
		return value, false, err
	}
}

// promptList reads one element per prompt until the user submits an empty
// line.
func (r *Renderer) promptList(ctx context.Context, param schema.Parameter) (any, bool, error) {
	desc := param.Descriptor
	element := desc.Element
	if element == nil {
		return nil, false, fmt.Errorf("tui: list parameter %q has no element descriptor", desc.Name)
	}

	if err := r.driver.Info(ctx, fmt.Sprintf("%s (empty line finishes the list)", promptLabel(desc))); err != nil {
		return nil, false, err
	}

	var items []string
	for {
		value, err := r.driver.Input(ctx, InputConfig{
			Message:   fmt.Sprintf("%s[%d]", desc.Name, len(items)),
			Validator: elementValidator(*element),
		})
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(value) == "" {
			break
		}
		items = append(items, value)
	}
	if len(items) == 0 && !desc.Required {
		return nil, true, nil
	}
	return items, false, nil
}

// valueValidator rejects input inline, before submission, using the same
// coercion rules the pipeline applies later.
func valueValidator(param schema.Parameter) func(string) error {
	desc := param.Descriptor
	return func(value string) error {
		if value == "" {
			if desc.Required {
				return fmt.Errorf("%s is required", desc.Name)
			}
			return nil
		}
		_, err := coerce.Coerce(desc, value)
		return err
	}
}

func elementValidator(element schema.ParameterDescriptor) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		_, err := coerce.Coerce(element, value)
		return err
	}
}

func promptLabel(desc schema.ParameterDescriptor) string {
	if desc.Label != "" {
		return desc.Label
	}
	return desc.Name
}

func prefill(name string, widget schema.WidgetSpec, options render.RenderOptions) string {
	if v := options.Value(name); v != nil {
		return fmt.Sprint(v)
	}
	return widget.Default
}

func defaultChoiceIndex(widget schema.WidgetSpec) int {
	for i, choice := range widget.Choices {
		if choice == widget.Default {
			return i
		}
	}
	return 0
}

func formTitle(form *schema.FormSchema) string {
	title := form.Title
	if title == "" {
		title = form.Name
	}
	if form.Summary != "" {
		return title + ": " + form.Summary
	}
	return title
}
