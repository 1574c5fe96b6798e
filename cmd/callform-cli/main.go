// Command callform-cli exercises a small registry of demo callables from the
// terminal: serve them over HTTP, prompt for one interactively, render one
// through a named renderer, or dump the OpenAPI document.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	callform "github.com/goliatone/go-callform"
	"github.com/goliatone/go-callform/pkg/export/openapi"
	"github.com/goliatone/go-callform/pkg/render"
	"github.com/goliatone/go-callform/pkg/renderers/tui"
	"github.com/goliatone/go-callform/pkg/renderers/vanilla"
)

func main() {
	mode := flag.String("mode", "serve", "serve, prompt, render or openapi")
	form := flag.String("form", "greet", "callable name for prompt/render modes")
	rendererName := flag.String("renderer", "vanilla", "renderer for render mode (vanilla or tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	registry, err := demoRegistry()
	if err != nil {
		log.Fatalf("build registry: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "serve":
		err = callform.Serve(ctx, registry)
	case "prompt":
		err = runPrompt(ctx, registry, *form)
	case "render":
		err = runRender(ctx, registry, *form, *rendererName, *output)
	case "openapi":
		err = runOpenAPI(registry, *output)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("%s: %v", *mode, err)
	}
}

type greetInput struct {
	Name  string `json:"name" form:"help=Who to greet"`
	Times int    `json:"times" form:"min=1,max=10"`
	Loud  bool   `json:"loud"`
}

type pickInput struct {
	Color string `json:"color" form:"enum=red,enum=blue"`
}

type sumInput struct {
	Values []float64 `json:"values"`
}

func demoRegistry() (*callform.Registry, error) {
	registry := callform.NewRegistry()

	greet, err := callform.NewWithDefaults("greet", greetInput{Times: 1},
		func(_ context.Context, in greetInput) (string, error) {
			msg := strings.TrimSpace(strings.Repeat("hello "+in.Name+" ", in.Times))
			if in.Loud {
				msg = strings.ToUpper(msg)
			}
			return msg, nil
		},
		callform.WithSummary("Print a greeting"))
	if err != nil {
		return nil, err
	}

	pick, err := callform.New("pick",
		func(_ context.Context, in pickInput) (string, error) {
			return "picked " + in.Color, nil
		},
		callform.WithSummary("Pick a color"))
	if err != nil {
		return nil, err
	}

	sum, err := callform.New("sum",
		func(_ context.Context, in sumInput) (float64, error) {
			var total float64
			for _, v := range in.Values {
				total += v
			}
			return total, nil
		},
		callform.WithSummary("Add a list of numbers"))
	if err != nil {
		return nil, err
	}

	for _, form := range []*callform.Form{greet, pick, sum} {
		if err := registry.Register(form); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func runPrompt(ctx context.Context, registry *callform.Registry, name string) error {
	form, err := registry.Get(name)
	if err != nil {
		return err
	}
	result, err := callform.Prompt(ctx, form)
	if err != nil {
		return err
	}
	if !result.OK() {
		if result.Message != "" {
			return errors.New(result.Message)
		}
		return fmt.Errorf("submission rejected: %v", result.FieldErrors)
	}
	fmt.Printf("%v\n", result.Value)
	return nil
}

func runRender(ctx context.Context, registry *callform.Registry, name, rendererName, output string) error {
	form, err := registry.Get(name)
	if err != nil {
		return err
	}

	renderers, err := availableRenderers()
	if err != nil {
		return err
	}
	selected, err := renderers.Get(rendererName)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(renderers.List(), ", "))
	}

	page, err := selected.Render(ctx, form.Schema(), render.RenderOptions{
		Action: "/forms/" + name,
	})
	if err != nil {
		return err
	}
	return write(output, page)
}

func availableRenderers() (*render.Registry, error) {
	htmlRenderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	terminal, err := tui.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(htmlRenderer, terminal)
}

func runOpenAPI(registry *callform.Registry, output string) error {
	doc, err := openapi.Document(registry.Schemas(),
		openapi.WithInfo("callform demo", "1.0.0"))
	if err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return write(output, encoded)
}

func write(output string, data []byte) error {
	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("written to %s\n", output)
	return nil
}
