package openapi

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-callform/pkg/schema"
)

func floatPtr(v float64) *float64 { return &v }

func exportSchema() *schema.FormSchema {
	return &schema.FormSchema{
		Name:    "greet",
		Title:   "Greet",
		Summary: "Print a greeting",
		Parameters: []schema.Parameter{
			{
				Descriptor: schema.ParameterDescriptor{
					Name: "name", Type: schema.TagString, Label: "Name", Required: true,
				},
			},
			{
				Descriptor: schema.ParameterDescriptor{
					Name: "times", Type: schema.TagInteger, Label: "Times",
					Default: int64(1), HasDefault: true,
					Min: floatPtr(1), Max: floatPtr(10),
				},
			},
			{
				Descriptor: schema.ParameterDescriptor{
					Name: "color", Type: schema.TagEnum, Label: "Color",
					Enum: []any{"red", "blue"},
				},
			},
			{
				Descriptor: schema.ParameterDescriptor{
					Name: "ids", Type: schema.TagSequence, Label: "Ids",
					Element: &schema.ParameterDescriptor{Name: "ids", Type: schema.TagInteger},
				},
			},
			{
				Descriptor: schema.ParameterDescriptor{
					Name: "limit", Type: schema.TagOptional, Label: "Limit",
					Element: &schema.ParameterDescriptor{Name: "limit", Type: schema.TagFloat},
				},
			},
		},
	}
}

func requestBodySchema(t *testing.T, doc *openapi3.T, path string) *openapi3.Schema {
	t.Helper()
	item := doc.Paths.Value(path)
	if item == nil || item.Post == nil {
		t.Fatalf("no POST operation at %s", path)
	}
	body := item.Post.RequestBody
	if body == nil || body.Value == nil {
		t.Fatal("request body missing")
	}
	media := body.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		t.Fatal("JSON media type missing")
	}
	return media.Schema.Value
}

func TestDocumentStructure(t *testing.T) {
	doc, err := Document([]*schema.FormSchema{exportSchema()},
		WithInfo("callform demo", "1.2.3"))
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}

	if doc.OpenAPI != "3.0.3" {
		t.Fatalf("OpenAPI version = %q", doc.OpenAPI)
	}
	if doc.Info.Title != "callform demo" || doc.Info.Version != "1.2.3" {
		t.Fatalf("info = %+v", doc.Info)
	}

	body := requestBodySchema(t, doc, "/forms/greet")
	if !body.Type.Is(openapi3.TypeObject) {
		t.Fatalf("body type = %v", body.Type)
	}
	if diff := cmp.Diff([]string{"name"}, body.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	item := doc.Paths.Value("/forms/greet")
	if item.Post.OperationID != "greet" || item.Post.Summary != "Greet" {
		t.Fatalf("operation metadata = %+v", item.Post)
	}
	if item.Post.Responses.Value("200") == nil || item.Post.Responses.Value("422") == nil {
		t.Fatal("expected 200 and 422 responses")
	}
}

func TestPropertyMapping(t *testing.T) {
	doc, err := Document([]*schema.FormSchema{exportSchema()})
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	body := requestBodySchema(t, doc, "/forms/greet")

	times := body.Properties["times"].Value
	if !times.Type.Is(openapi3.TypeInteger) {
		t.Fatalf("times type = %v", times.Type)
	}
	if times.Default != int64(1) {
		t.Fatalf("times default = %v", times.Default)
	}
	if times.Min == nil || *times.Min != 1 || times.Max == nil || *times.Max != 10 {
		t.Fatalf("times bounds = %v..%v", times.Min, times.Max)
	}

	color := body.Properties["color"].Value
	if !color.Type.Is(openapi3.TypeString) {
		t.Fatalf("color type = %v", color.Type)
	}
	if diff := cmp.Diff([]any{"red", "blue"}, color.Enum); diff != "" {
		t.Fatalf("color enum mismatch (-want +got):\n%s", diff)
	}

	ids := body.Properties["ids"].Value
	if !ids.Type.Is(openapi3.TypeArray) {
		t.Fatalf("ids type = %v", ids.Type)
	}
	if !ids.Items.Value.Type.Is(openapi3.TypeInteger) {
		t.Fatalf("ids item type = %v", ids.Items.Value.Type)
	}

	limit := body.Properties["limit"].Value
	if !limit.Type.Is(openapi3.TypeNumber) || !limit.Nullable {
		t.Fatalf("limit schema = %+v", limit)
	}
}

func TestDocumentPathPrefix(t *testing.T) {
	doc, err := Document([]*schema.FormSchema{exportSchema()}, WithPathPrefix("/api/v1/calls"))
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.Paths.Value("/api/v1/calls/greet") == nil {
		t.Fatal("custom prefix not applied")
	}
}

func TestDocumentRejectsUnnamedForm(t *testing.T) {
	if _, err := Document([]*schema.FormSchema{{}}); err == nil {
		t.Fatal("Document() should reject unnamed forms")
	}
}
