// Package openapi exports generated form schemas as an OpenAPI 3 document,
// one POST operation per callable. The export is one-way: it describes the
// submission surface a host exposes, it is not a parsing layer.
package openapi

import (
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-callform/pkg/schema"
)

// Option configures document generation.
type Option func(*config)

type config struct {
	title       string
	version     string
	description string
	pathPrefix  string
}

// WithInfo sets the document title and version.
func WithInfo(title, version string) Option {
	return func(c *config) {
		if title != "" {
			c.title = title
		}
		if version != "" {
			c.version = version
		}
	}
}

// WithDescription sets the document description.
func WithDescription(description string) Option {
	return func(c *config) {
		c.description = description
	}
}

// WithPathPrefix changes the URL prefix operations are registered under.
// The default is "/forms".
func WithPathPrefix(prefix string) Option {
	return func(c *config) {
		if prefix != "" {
			c.pathPrefix = prefix
		}
	}
}

// Document builds an OpenAPI 3 document covering every supplied form schema.
func Document(forms []*schema.FormSchema, opts ...Option) (*openapi3.T, error) {
	cfg := config{
		title:      "callform",
		version:    "0.0.0",
		pathPrefix: "/forms",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       cfg.title,
			Version:     cfg.version,
			Description: cfg.description,
		},
		Paths: openapi3.NewPaths(),
	}

	for _, form := range forms {
		if form == nil || form.Name == "" {
			return nil, fmt.Errorf("openapi: form schema without a name")
		}
		operation, err := operationFor(form)
		if err != nil {
			return nil, err
		}
		doc.AddOperation(cfg.pathPrefix+"/"+form.Name, http.MethodPost, operation)
	}
	return doc, nil
}

func operationFor(form *schema.FormSchema) (*openapi3.Operation, error) {
	body, err := requestSchema(form)
	if err != nil {
		return nil, err
	}

	operation := openapi3.NewOperation()
	operation.OperationID = form.Name
	operation.Summary = form.Title
	operation.Description = form.Summary
	operation.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
	}
	operation.AddResponse(http.StatusOK,
		openapi3.NewResponse().WithDescription("submission result"))
	operation.AddResponse(http.StatusUnprocessableEntity,
		openapi3.NewResponse().WithDescription("validation failed"))
	return operation, nil
}

func requestSchema(form *schema.FormSchema) (*openapi3.Schema, error) {
	properties := make(openapi3.Schemas, len(form.Parameters))
	var required []string

	for _, param := range form.Parameters {
		desc := param.Descriptor
		property, err := propertySchema(desc)
		if err != nil {
			return nil, fmt.Errorf("openapi: form %q parameter %q: %w", form.Name, desc.Name, err)
		}
		properties[desc.Name] = &openapi3.SchemaRef{Value: property}
		if desc.Required {
			required = append(required, desc.Name)
		}
	}

	return &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: properties,
		Required:   required,
	}, nil
}

func propertySchema(desc schema.ParameterDescriptor) (*openapi3.Schema, error) {
	out := &openapi3.Schema{
		Title:       desc.Label,
		Description: desc.Help,
	}
	if desc.HasDefault {
		out.Default = desc.Default
	}

	switch desc.Type {
	case schema.TagString, schema.TagPath:
		out.Type = &openapi3.Types{openapi3.TypeString}
	case schema.TagInteger:
		out.Type = &openapi3.Types{openapi3.TypeInteger}
		out.Min = desc.Min
		out.Max = desc.Max
	case schema.TagFloat:
		out.Type = &openapi3.Types{openapi3.TypeNumber}
		out.Min = desc.Min
		out.Max = desc.Max
	case schema.TagBoolean:
		out.Type = &openapi3.Types{openapi3.TypeBoolean}
	case schema.TagEnum:
		base, err := enumBaseType(desc.Enum)
		if err != nil {
			return nil, err
		}
		out.Type = &openapi3.Types{base}
		out.Enum = append([]any(nil), desc.Enum...)
	case schema.TagSequence:
		if desc.Element == nil {
			return nil, fmt.Errorf("sequence without element type")
		}
		element, err := propertySchema(*desc.Element)
		if err != nil {
			return nil, err
		}
		out.Type = &openapi3.Types{openapi3.TypeArray}
		out.Items = &openapi3.SchemaRef{Value: element}
	case schema.TagOptional:
		if desc.Element == nil {
			return nil, fmt.Errorf("optional without element type")
		}
		inner, err := propertySchema(*desc.Element)
		if err != nil {
			return nil, err
		}
		inner.Title = desc.Label
		inner.Description = desc.Help
		inner.Nullable = true
		if desc.HasDefault {
			inner.Default = desc.Default
		}
		return inner, nil
	case schema.TagAny:
		// no type constraint
	default:
		return nil, fmt.Errorf("unsupported type tag %q", desc.Type)
	}
	return out, nil
}

func enumBaseType(choices []any) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("enum without choices")
	}
	switch choices[0].(type) {
	case string:
		return openapi3.TypeString, nil
	case int64, int:
		return openapi3.TypeInteger, nil
	case float64:
		return openapi3.TypeNumber, nil
	}
	return "", fmt.Errorf("enum choice type %T not supported", choices[0])
}
