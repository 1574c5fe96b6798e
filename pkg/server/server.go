// Package server hosts registered forms over HTTP: one page and one
// submission endpoint per callable, plus JSON schema and OpenAPI exports.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/goliatone/go-callform/pkg/export/openapi"
	"github.com/goliatone/go-callform/pkg/invoke"
	"github.com/goliatone/go-callform/pkg/log"
	"github.com/goliatone/go-callform/pkg/render"
	"github.com/goliatone/go-callform/pkg/renderers/vanilla"
	"github.com/goliatone/go-callform/pkg/schema"
	"github.com/goliatone/go-callform/pkg/uihints"
)

// Option configures the server.
type Option func(*Server)

// WithRenderer swaps the HTML renderer used for form and result pages.
func WithRenderer(renderer render.ResultRenderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.html = renderer
		}
	}
}

// WithHints overlays curated presentation metadata onto served schemas.
func WithHints(store *uihints.Store) Option {
	return func(s *Server) {
		s.hints = store
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Server exposes a form registry over HTTP.
type Server struct {
	cfg    Config
	forms  *invoke.Registry
	html   render.ResultRenderer
	hints  *uihints.Store
	log    log.Logger
	router *mux.Router
	http   *http.Server
}

// New wires the routes for every form in the registry.
func New(cfg Config, forms *invoke.Registry, opts ...Option) (*Server, error) {
	if forms == nil {
		return nil, errors.New("server: form registry is required")
	}
	cfg = cfg.withDefaults()
	log.SetLevel(cfg.LogLevel)

	s := &Server{
		cfg:   cfg,
		forms: forms,
		log:   log.Default,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.html == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, err
		}
		s.html = renderer
	}

	s.router = s.buildRouter()
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	})

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      corsMiddleware.Handler(s.router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Handler returns the routed handler, useful for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving HTTP until the context is cancelled or the
// listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("callform server listening on %s", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) buildRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.requestMiddleware)

	base := s.cfg.BasePath
	router.HandleFunc(base, s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc(base+"/openapi.json", s.handleOpenAPI).Methods(http.MethodGet)
	router.HandleFunc(base+"/{name}", s.handleFormPage).Methods(http.MethodGet)
	router.HandleFunc(base+"/{name}", s.handleSubmit).Methods(http.MethodPost)
	router.HandleFunc(base+"/{name}/schema", s.handleSchema).Methods(http.MethodGet)
	router.PathPrefix("/assets/").Handler(
		http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	return router
}

type indexEntry struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	URL     string `json:"url"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	schemas := s.forms.Schemas()
	entries := make([]indexEntry, 0, len(schemas))
	for _, form := range schemas {
		form = s.overlay(form)
		title := form.Title
		if title == "" {
			title = form.Name
		}
		entries = append(entries, indexEntry{
			Name:    form.Name,
			Title:   title,
			Summary: form.Summary,
			URL:     s.formURL(form.Name),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"forms": entries})
}

func (s *Server) handleFormPage(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookup(w, r)
	if !ok {
		return
	}

	page, err := s.html.Render(r.Context(), form, render.RenderOptions{
		Action: s.formURL(form.Name),
		Hidden: render.RoutingFields(form.Name, nil),
	})
	if err != nil {
		s.log.Errorf("render form %q: %v", form.Name, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.Write(page)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	schemas := s.forms.Schemas()
	overlaid := make([]*schema.FormSchema, 0, len(schemas))
	for _, form := range schemas {
		overlaid = append(overlaid, s.overlay(form))
	}

	doc, err := openapi.Document(overlaid,
		openapi.WithInfo("callform", "1.0.0"),
		openapi.WithPathPrefix(s.cfg.BasePath))
	if err != nil {
		s.log.Errorf("openapi export: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	formEntry, err := s.forms.Get(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	form := s.overlay(formEntry.Schema())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}
	if posted := r.PostForm.Get(render.CallableFieldName); posted != "" && posted != name {
		http.Error(w, "form was rendered for a different callable", http.StatusBadRequest)
		return
	}

	result := formEntry.Invoke(r.Context(), rawValues(r.PostForm, form))
	s.log.Infof("submission %s form=%s kind=%s", result.ID, result.Form, result.Kind)

	if result.Kind == invoke.ResultInvalid {
		page, err := s.html.Render(r.Context(), form, render.RenderOptions{
			Action: s.formURL(form.Name),
			Values: resubmittedValues(r.PostForm, form),
			Errors: result.ErrorsByParam(),
			Hidden: render.RoutingFields(form.Name, nil),
		})
		if err != nil {
			s.log.Errorf("re-render form %q: %v", form.Name, err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", s.html.ContentType())
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write(page)
		return
	}

	page, err := s.html.RenderResult(r.Context(), form, render.Outcome{
		OK:      result.OK(),
		Value:   result.Value,
		Message: result.Message,
	}, render.RenderOptions{Action: s.formURL(form.Name)})
	if err != nil {
		s.log.Errorf("render result for %q: %v", form.Name, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if result.Kind == invoke.ResultFailed {
		status = http.StatusBadGateway
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(status)
	w.Write(page)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*schema.FormSchema, bool) {
	name := mux.Vars(r)["name"]
	form, err := s.forms.Get(name)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	return s.overlay(form.Schema()), true
}

func (s *Server) overlay(form *schema.FormSchema) *schema.FormSchema {
	if s.hints == nil || s.hints.Empty() {
		return form
	}
	return s.hints.Apply(form)
}

func (s *Server) formURL(name string) string {
	return s.cfg.BasePath + "/" + name
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Errorf("encode response: %v", err)
	}
}
