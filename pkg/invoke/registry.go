package invoke

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-callform/pkg/schema"
)

// Registry stores forms by callable name, providing discovery and
// duplication safeguards. Hosts embed or wrap this for routing.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*Form
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		forms: make(map[string]*Form),
	}
}

// Register adds a form under its callable name. Duplicate names return an
// error.
func (r *Registry) Register(form *Form) error {
	if form == nil {
		return fmt.Errorf("invoke: form is required")
	}
	name := form.Name()
	if name == "" {
		return fmt.Errorf("invoke: form name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.forms[name]; exists {
		return fmt.Errorf("invoke: form %q already registered", name)
	}

	r.forms[name] = form
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(form *Form) {
	if err := r.Register(form); err != nil {
		panic(err)
	}
}

// Get retrieves a form by callable name.
func (r *Registry) Get(name string) (*Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	form, ok := r.forms[name]
	if !ok {
		return nil, fmt.Errorf("invoke: form %q not found", name)
	}
	return form, nil
}

// Has reports whether a form is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.forms[name]
	return ok
}

// List returns the registered callable names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.forms))
	for name := range r.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schemas returns every registered schema ordered by callable name.
func (r *Registry) Schemas() []*schema.FormSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]*schema.FormSchema, 0, len(r.forms))
	for _, form := range r.forms {
		schemas = append(schemas, form.Schema())
	}
	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Name < schemas[j].Name
	})
	return schemas
}
