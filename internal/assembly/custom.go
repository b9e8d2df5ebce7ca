package assembly

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// RendererFunc renders a complete prompt from a canonical record.
type RendererFunc func(rec schema.InputRecord) string

// CustomTemplate is a caller-registered alternative to the standard
// tier templates, gated behind a minimum tier.
type CustomTemplate struct {
	Name    string
	Render  RendererFunc
	Tier    schema.Tier
	Version int
}

// TemplateRegistry manages custom templates. Safe for concurrent use.
type TemplateRegistry struct {
	mu        sync.RWMutex
	templates map[string]*CustomTemplate
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]*CustomTemplate)}
}

// Register adds or replaces a custom template.
func (r *TemplateRegistry) Register(name string, render RendererFunc, tier schema.Tier) error {
	if name == "" {
		return fmt.Errorf("template name must not be empty")
	}
	if render == nil {
		return fmt.Errorf("invalid template structure: renderer must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	version := 1
	if existing, ok := r.templates[name]; ok {
		version = existing.Version + 1
	}
	r.templates[name] = &CustomTemplate{
		Name:    name,
		Render:  render,
		Tier:    tier,
		Version: version,
	}
	return nil
}

// Get retrieves a template by name.
func (r *TemplateRegistry) Get(name string) (*CustomTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[name]
	return t, ok
}

// List returns the registered template names, sorted.
func (r *TemplateRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
