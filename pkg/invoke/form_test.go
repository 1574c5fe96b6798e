package invoke

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-callform/pkg/schema"
)

type greetInput struct {
	Name  string `json:"name"`
	Times int    `json:"times"`
}

func newGreetForm(t *testing.T) *Form {
	t.Helper()
	form, err := NewWithDefaults("greet", greetInput{Times: 1}, func(_ context.Context, in greetInput) (string, error) {
		return strings.Repeat("hello "+in.Name+" ", in.Times), nil
	})
	if err != nil {
		t.Fatalf("NewWithDefaults() error = %v", err)
	}
	return form
}

func TestFormSchemaFromPrototype(t *testing.T) {
	form := newGreetForm(t)
	s := form.Schema()

	if s.Name != "greet" {
		t.Fatalf("schema name = %q, want %q", s.Name, "greet")
	}
	wantNames := []string{"name", "times"}
	if diff := cmp.Diff(wantNames, s.Names()); diff != "" {
		t.Fatalf("parameter order mismatch (-want +got):\n%s", diff)
	}

	name, ok := s.Parameter("name")
	if !ok || !name.Descriptor.Required {
		t.Fatalf("name parameter should be required, got %+v", name)
	}
	times, ok := s.Parameter("times")
	if !ok || times.Descriptor.Required {
		t.Fatalf("times parameter should be optional, got %+v", times)
	}
	if times.Descriptor.Default != int64(1) {
		t.Fatalf("times default = %v, want int64(1)", times.Descriptor.Default)
	}
	if times.Widget.Kind != schema.WidgetNumber {
		t.Fatalf("times widget = %q, want %q", times.Widget.Kind, schema.WidgetNumber)
	}
}

func TestInvokeAppliesDefaults(t *testing.T) {
	form := newGreetForm(t)

	res := form.Invoke(context.Background(), map[string]any{"name": "ada"})
	if !res.OK() {
		t.Fatalf("Invoke() = %+v, want success", res)
	}
	if res.Value != "hello ada " {
		t.Fatalf("value = %q, want %q", res.Value, "hello ada ")
	}
	if res.ID == "" {
		t.Fatal("submission id should not be empty")
	}
}

func TestInvokeCoercesStringInputs(t *testing.T) {
	form := newGreetForm(t)

	res := form.Invoke(context.Background(), map[string]any{"name": "ada", "times": "2"})
	if !res.OK() {
		t.Fatalf("Invoke() = %+v, want success", res)
	}
	if res.Value != "hello ada hello ada " {
		t.Fatalf("value = %q", res.Value)
	}
}

func TestInvokeMissingRequired(t *testing.T) {
	form := newGreetForm(t)

	res := form.Invoke(context.Background(), map[string]any{"times": "3"})
	if res.Kind != ResultInvalid {
		t.Fatalf("kind = %q, want %q", res.Kind, ResultInvalid)
	}
	want := []FieldError{{
		Param:   "name",
		Kind:    FieldErrorMissing,
		Message: `missing required parameter "name" (string)`,
		Index:   -1,
	}}
	if diff := cmp.Diff(want, res.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestInvokeBatchesCoercionErrors(t *testing.T) {
	type input struct {
		Count int     `json:"count"`
		Ratio float64 `json:"ratio"`
	}
	called := false
	form, err := New("stats", func(_ context.Context, in input) (int, error) {
		called = true
		return in.Count, nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res := form.Invoke(context.Background(), map[string]any{
		"count": "not-a-number",
		"ratio": "also-bad",
	})
	if res.Kind != ResultInvalid {
		t.Fatalf("kind = %q, want %q", res.Kind, ResultInvalid)
	}
	if len(res.FieldErrors) != 2 {
		t.Fatalf("field errors = %+v, want one per failing parameter", res.FieldErrors)
	}
	if called {
		t.Fatal("callable must not run when validation fails")
	}
}

func TestInvokeEnumSelection(t *testing.T) {
	type input struct {
		Color string `json:"color" form:"enum=red,enum=blue"`
	}
	form, err := New("pick", func(_ context.Context, in input) (string, error) {
		return "picked " + in.Color, nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	color, ok := form.Schema().Parameter("color")
	if !ok {
		t.Fatal("color parameter not found")
	}
	if color.Widget.Kind != schema.WidgetSelect {
		t.Fatalf("color widget = %q, want %q", color.Widget.Kind, schema.WidgetSelect)
	}
	if diff := cmp.Diff([]string{"red", "blue"}, color.Widget.Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}

	res := form.Invoke(context.Background(), map[string]any{"color": "red"})
	if !res.OK() || res.Value != "picked red" {
		t.Fatalf("Invoke() = %+v, want picked red", res)
	}

	res = form.Invoke(context.Background(), map[string]any{"color": "green"})
	if res.Kind != ResultInvalid {
		t.Fatalf("kind = %q, want %q", res.Kind, ResultInvalid)
	}
	if res.FieldErrors[0].Kind != FieldErrorCoercion {
		t.Fatalf("error kind = %q, want coercion", res.FieldErrors[0].Kind)
	}
}

func TestInvokeSequenceElementError(t *testing.T) {
	type input struct {
		IDs []int `json:"ids"`
	}
	form, err := New("sum", func(_ context.Context, in input) (int, error) {
		total := 0
		for _, id := range in.IDs {
			total += id
		}
		return total, nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res := form.Invoke(context.Background(), map[string]any{"ids": []string{"1", "2", "x"}})
	if res.Kind != ResultInvalid {
		t.Fatalf("kind = %q, want %q", res.Kind, ResultInvalid)
	}
	if got := res.FieldErrors[0].Index; got != 2 {
		t.Fatalf("error index = %d, want 2", got)
	}

	res = form.Invoke(context.Background(), map[string]any{"ids": []string{"1", "2", "3"}})
	if !res.OK() || res.Value != 6 {
		t.Fatalf("Invoke() = %+v, want 6", res)
	}
}

func TestInvokeOptionalPointer(t *testing.T) {
	type input struct {
		Limit *int `json:"limit"`
	}
	form, err := New("clamp", func(_ context.Context, in input) (string, error) {
		if in.Limit == nil {
			return "unlimited", nil
		}
		return fmt.Sprintf("limit=%d", *in.Limit), nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res := form.Invoke(context.Background(), map[string]any{})
	if !res.OK() || res.Value != "unlimited" {
		t.Fatalf("Invoke() without value = %+v", res)
	}

	res = form.Invoke(context.Background(), map[string]any{"limit": "7"})
	if !res.OK() || res.Value != "limit=7" {
		t.Fatalf("Invoke() with value = %+v", res)
	}
}

func TestInvokeReportsCallableFailure(t *testing.T) {
	type input struct {
		Path string `json:"path"`
	}
	form, err := New("load", func(_ context.Context, in input) (string, error) {
		return "", errors.New("no such file: " + in.Path)
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res := form.Invoke(context.Background(), map[string]any{"path": "/tmp/missing"})
	if res.Kind != ResultFailed {
		t.Fatalf("kind = %q, want %q", res.Kind, ResultFailed)
	}
	if res.Message != "no such file: /tmp/missing" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	type input struct {
		N int `json:"n"`
	}
	form, err := New("div", func(_ context.Context, in input) (int, error) {
		return 100 / in.N, nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res := form.Invoke(context.Background(), map[string]any{"n": "0"})
	if res.Kind != ResultFailed {
		t.Fatalf("kind = %q, want %q", res.Kind, ResultFailed)
	}
	if !strings.Contains(res.Message, "panic") {
		t.Fatalf("message = %q, want panic report", res.Message)
	}
}

func TestInvokeDoesNotMutatePrototype(t *testing.T) {
	form := newGreetForm(t)

	for i := 0; i < 3; i++ {
		res := form.Invoke(context.Background(), map[string]any{"name": "ada", "times": "5"})
		if !res.OK() {
			t.Fatalf("Invoke() = %+v", res)
		}
	}
	res := form.Invoke(context.Background(), map[string]any{"name": "ada"})
	if res.Value != "hello ada " {
		t.Fatalf("default leaked across invocations: %q", res.Value)
	}
}

func TestErrorsByParam(t *testing.T) {
	res := &SubmissionResult{
		Kind: ResultInvalid,
		FieldErrors: []FieldError{
			{Param: "a", Kind: FieldErrorCoercion, Message: "bad", Index: -1},
			{Param: "a", Kind: FieldErrorCoercion, Message: "worse", Index: 1},
			{Param: "b", Kind: FieldErrorMissing, Message: "missing", Index: -1},
		},
	}
	want := map[string][]string{
		"a": {"bad", "worse"},
		"b": {"missing"},
	}
	if diff := cmp.Diff(want, res.ErrorsByParam()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
