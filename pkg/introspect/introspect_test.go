package introspect

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-callform/pkg/schema"
)

type deployInput struct {
	Service string   `json:"service" form:"help=service to deploy"`
	Region  string   `json:"region" form:"enum=us-east,enum=eu-west"`
	Replicas int     `json:"replicas" form:"min=1,max=20"`
	Timeout *float64 `json:"timeout"`
	DryRun  bool     `json:"dry_run"`
	Tags    []string `json:"tags,omitempty"`

	unexported string
	Ignored    string `json:"-"`
}

func TestStructFieldOrderAndNames(t *testing.T) {
	result, err := Struct("deploy", deployInput{})
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}

	var names []string
	for _, p := range result.Parameters {
		names = append(names, p.Name)
	}
	want := []string{"service", "region", "replicas", "timeout", "dry_run", "tags"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("parameter order mismatch (-want +got):\n%s", diff)
	}
	if len(result.Unsupported) != 0 {
		t.Fatalf("unexpected exclusions: %+v", result.Unsupported)
	}
}

func TestStructTagMetadata(t *testing.T) {
	result, err := Struct("deploy", deployInput{})
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}

	byName := make(map[string]schema.ParameterDescriptor)
	for _, p := range result.Parameters {
		byName[p.Name] = p
	}

	service := byName["service"]
	if service.Type != schema.TagString || service.Help != "service to deploy" {
		t.Errorf("service = %+v", service)
	}
	if !service.Required {
		t.Error("service should be required without a default")
	}

	region := byName["region"]
	if region.Type != schema.TagEnum {
		t.Fatalf("region type = %q", region.Type)
	}
	if diff := cmp.Diff([]any{"us-east", "eu-west"}, region.Enum); diff != "" {
		t.Errorf("region enum mismatch (-want +got):\n%s", diff)
	}

	replicas := byName["replicas"]
	if replicas.Type != schema.TagInteger {
		t.Fatalf("replicas type = %q", replicas.Type)
	}
	if replicas.Min == nil || *replicas.Min != 1 || replicas.Max == nil || *replicas.Max != 20 {
		t.Errorf("replicas bounds = %v..%v", replicas.Min, replicas.Max)
	}

	timeout := byName["timeout"]
	if timeout.Type != schema.TagOptional {
		t.Fatalf("timeout type = %q", timeout.Type)
	}
	if timeout.Element == nil || timeout.Element.Type != schema.TagFloat {
		t.Errorf("timeout element = %+v", timeout.Element)
	}
	if timeout.Required {
		t.Error("pointer parameter must not be required")
	}

	if byName["dry_run"].Type != schema.TagBoolean {
		t.Errorf("dry_run type = %q", byName["dry_run"].Type)
	}

	tags := byName["tags"]
	if tags.Type != schema.TagSequence {
		t.Fatalf("tags type = %q", tags.Type)
	}
	if tags.Element == nil || tags.Element.Type != schema.TagString {
		t.Errorf("tags element = %+v", tags.Element)
	}
	if tags.Required {
		t.Error("omitempty parameter must not be required")
	}
	if !tags.HasDefault {
		t.Error("omitempty parameter should default to its zero value")
	}
}

func TestStructPrototypeDefaults(t *testing.T) {
	proto := deployInput{Replicas: 3, Region: "us-east"}
	result, err := Struct("deploy", proto)
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}

	byName := make(map[string]schema.ParameterDescriptor)
	for _, p := range result.Parameters {
		byName[p.Name] = p
	}

	replicas := byName["replicas"]
	if !replicas.HasDefault || replicas.Default != int64(3) {
		t.Errorf("replicas default = %v (has=%v), want int64(3)", replicas.Default, replicas.HasDefault)
	}
	if replicas.Required {
		t.Error("defaulted parameter must not be required")
	}

	region := byName["region"]
	if !region.HasDefault || region.Default != "us-east" {
		t.Errorf("region default = %v", region.Default)
	}

	// Fields the prototype leaves zero remain required.
	if !byName["service"].Required {
		t.Error("service should stay required")
	}
}

func TestStructTagDefault(t *testing.T) {
	type input struct {
		Count int `json:"count" form:"default=7"`
	}
	result, err := Struct("counter", input{})
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	p := result.Parameters[0]
	if !p.HasDefault || p.Default != int64(7) {
		t.Fatalf("default = %v (has=%v)", p.Default, p.HasDefault)
	}
	if p.Required {
		t.Fatal("parameter with tag default must not be required")
	}
}

func TestStructBadTagDefault(t *testing.T) {
	type input struct {
		Count int `json:"count" form:"default=seven"`
	}
	if _, err := Struct("counter", input{}); err == nil {
		t.Fatal("expected error for non-numeric default")
	}
}

func TestStructEnumDefaultMustBeChoice(t *testing.T) {
	type input struct {
		Color string `json:"color" form:"enum=red,enum=blue,default=green"`
	}
	if _, err := Struct("paint", input{}); err == nil {
		t.Fatal("expected error for default outside the choice set")
	}
}

func TestStructIntegerEnum(t *testing.T) {
	type input struct {
		Level int `json:"level" form:"enum=1,enum=2,enum=3"`
	}
	result, err := Struct("logger", input{})
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	p := result.Parameters[0]
	if p.Type != schema.TagEnum {
		t.Fatalf("type = %q", p.Type)
	}
	if diff := cmp.Diff([]any{int64(1), int64(2), int64(3)}, p.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestStructPathTag(t *testing.T) {
	type input struct {
		Config string `json:"config" form:"path"`
	}
	result, err := Struct("loader", input{})
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	if got := result.Parameters[0].Type; got != schema.TagPath {
		t.Fatalf("type = %q, want %q", got, schema.TagPath)
	}
}

func TestStructRejectPolicy(t *testing.T) {
	type input struct {
		Name    string         `json:"name"`
		Mapping map[string]int `json:"mapping"`
	}
	_, err := Struct("broken", input{})
	if err == nil {
		t.Fatal("expected rejection for map field")
	}
	var unsupported *UnsupportedParameterError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error type = %T", err)
	}
	if unsupported.Param != "mapping" {
		t.Fatalf("param = %q", unsupported.Param)
	}
}

func TestStructSkipPolicy(t *testing.T) {
	type input struct {
		Name    string         `json:"name"`
		Mapping map[string]int `json:"mapping"`
	}
	result, err := Struct("partial", input{}, WithUnsupportedPolicy(SkipParameter))
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	if len(result.Parameters) != 1 || result.Parameters[0].Name != "name" {
		t.Fatalf("parameters = %+v", result.Parameters)
	}
	if len(result.Unsupported) != 1 || result.Unsupported[0].Name != "mapping" {
		t.Fatalf("unsupported = %+v", result.Unsupported)
	}
	if !strings.Contains(result.Unsupported[0].Reason, "map") {
		t.Fatalf("reason = %q", result.Unsupported[0].Reason)
	}
}

func TestStructHelpSource(t *testing.T) {
	type input struct {
		Name string `json:"name"`
		Mode string `json:"mode" form:"help=tag wins"`
	}
	source := helpMap{"deploy/name": "from docs"}
	result, err := Struct("deploy", input{}, WithHelpSource(source))
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	if got := result.Parameters[0].Help; got != "from docs" {
		t.Errorf("name help = %q", got)
	}
	if got := result.Parameters[1].Help; got != "tag wins" {
		t.Errorf("mode help = %q, tag should take precedence", got)
	}
}

type helpMap map[string]string

func (h helpMap) ParameterHelp(callable, parameter string) string {
	return h[callable+"/"+parameter]
}

func TestStructNonStructInput(t *testing.T) {
	_, err := Struct("scalar", 42)
	if err == nil {
		t.Fatal("expected error for non-struct prototype")
	}
	var build *schema.SchemaBuildError
	if !errors.As(err, &build) {
		t.Fatalf("error type = %T", err)
	}
}

func TestStructPointerPrototype(t *testing.T) {
	result, err := Struct("deploy", &deployInput{Replicas: 2})
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	byName := make(map[string]schema.ParameterDescriptor)
	for _, p := range result.Parameters {
		byName[p.Name] = p
	}
	if got := byName["replicas"].Default; got != int64(2) {
		t.Fatalf("default through pointer = %v", got)
	}
}

func TestStructUnknownTagKey(t *testing.T) {
	type input struct {
		Name string `json:"name" form:"wat=huh"`
	}
	if _, err := Struct("deploy", input{}); err == nil {
		t.Fatal("expected error for unknown form tag key")
	}
}

func TestStructMinAboveMax(t *testing.T) {
	type input struct {
		N int `json:"n" form:"min=10,max=1"`
	}
	if _, err := Struct("deploy", input{}); err == nil {
		t.Fatal("expected error when min exceeds max")
	}
}
