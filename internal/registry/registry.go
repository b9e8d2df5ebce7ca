// Package registry holds the runtime-extensible vocabulary: personas,
// tones, and output types. Registries are explicit, dependency-injected
// objects owned by the caller; nothing here is process-global. Each
// registry is a single-writer table guarded by a mutex per mutation.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ChamsBouzaiene/promptstitch/internal/assembly"
	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

var roleNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-']+$`)

// RoleChange records one registry mutation for auditability.
type RoleChange struct {
	Timestamp  time.Time         `json:"timestamp"`
	IntentType schema.IntentType `json:"intent_type"`
	TaskDomain schema.TaskDomain `json:"task_domain"`
	Role       string            `json:"added_role"`
	Version    int               `json:"version"`
}

// Roles maps (intent, domain) to a persona name. Satisfies
// assembly.RoleResolver.
type Roles struct {
	mu      sync.RWMutex
	roles   map[schema.IntentType]map[schema.TaskDomain]string
	version int
	changes []RoleChange
	sink    events.Sink
}

// NewRoles returns a role registry seeded with the built-in matrix.
func NewRoles(sink events.Sink) *Roles {
	return &Roles{
		roles:   assembly.DefaultRoleMatrix(),
		version: 1,
		sink:    sink,
	}
}

// Role resolves the persona for an (intent, domain) pair.
func (r *Roles) Role(intent schema.IntentType, domain schema.TaskDomain) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[intent][domain]
}

// Add registers or replaces the persona for an (intent, domain) pair.
func (r *Roles) Add(intent schema.IntentType, domain schema.TaskDomain, name string) error {
	if _, ok := schema.CoerceIntentType(string(intent)); !ok {
		return fmt.Errorf("invalid intent_type: %q", intent)
	}
	if _, ok := schema.CoerceTaskDomain(string(domain)); !ok {
		return fmt.Errorf("invalid task_domain: %q", domain)
	}
	if len(name) < schema.RoleMin || len(name) > schema.RoleMax {
		return fmt.Errorf("role name must be between %d and %d characters", schema.RoleMin, schema.RoleMax)
	}
	if !roleNamePattern.MatchString(name) {
		return fmt.Errorf("role name contains invalid characters; letters, numbers, spaces, hyphens, and apostrophes only")
	}

	r.mu.Lock()
	if r.roles[intent] == nil {
		r.roles[intent] = make(map[schema.TaskDomain]string)
	}
	r.roles[intent][domain] = name
	r.version++
	change := RoleChange{
		Timestamp:  time.Now().UTC(),
		IntentType: intent,
		TaskDomain: domain,
		Role:       name,
		Version:    r.version,
	}
	r.changes = append(r.changes, change)
	r.mu.Unlock()

	events.Emit(r.sink, events.KindRegistryUpdated, map[string]any{
		"registry":    "roles",
		"intent_type": string(intent),
		"task_domain": string(domain),
		"role":        name,
		"version":     change.Version,
	})
	return nil
}

// Version returns the current registry version number.
func (r *Roles) Version() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Changes returns a copy of the mutation history.
func (r *Roles) Changes() []RoleChange {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RoleChange(nil), r.changes...)
}

// Tones tracks the extended tone vocabulary plus a descriptor per tone.
type Tones struct {
	mu          sync.RWMutex
	descriptors map[string]string
	version     int
	sink        events.Sink
}

// Built-in tone descriptors guiding prompt assembly.
var defaultToneDescriptors = map[string]string{
	"professional":  "formal, clear, businesslike",
	"casual":        "conversational, relaxed, approachable",
	"technical":     "precise, jargon-appropriate, detailed",
	"friendly":      "warm, helpful, encouraging",
	"authoritative": "confident, commanding, expert",
	"creative":      "imaginative, expressive, unconventional",
	"neutral":       "balanced, objective, impartial",
}

// NewTones returns a tone registry seeded with the built-in vocabulary.
func NewTones(sink events.Sink) *Tones {
	descriptors := make(map[string]string, len(defaultToneDescriptors))
	for name, desc := range defaultToneDescriptors {
		descriptors[name] = desc
	}
	return &Tones{descriptors: descriptors, version: 1, sink: sink}
}

// Add registers a new tone. The name must already be lowercase; rejecting
// mixed case here keeps registry contents byte-stable against the
// case-insensitive membership check.
func (t *Tones) Add(name, descriptor string) error {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if name != normalized {
		return fmt.Errorf("tone name must be provided in lowercase")
	}
	if len(normalized) < 3 || len(normalized) > 20 {
		return fmt.Errorf("tone name must be between 3 and 20 characters")
	}
	if len(descriptor) < 5 || len(descriptor) > 100 {
		return fmt.Errorf("tone descriptor must be between 5 and 100 characters")
	}

	t.mu.Lock()
	if _, exists := t.descriptors[normalized]; exists {
		t.mu.Unlock()
		return fmt.Errorf("tone %q already exists in the registry", normalized)
	}
	t.descriptors[normalized] = descriptor
	t.version++
	v := t.version
	t.mu.Unlock()

	events.Emit(t.sink, events.KindRegistryUpdated, map[string]any{
		"registry": "tones",
		"tone":     normalized,
		"version":  v,
	})
	return nil
}

// Names returns all registered tone names, sorted.
func (t *Tones) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.descriptors))
	for name := range t.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptor returns the descriptor for a tone.
func (t *Tones) Descriptor(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	desc, ok := t.descriptors[name]
	return desc, ok
}

// OutputTypeSpec is the formatting contract for one output type.
type OutputTypeSpec struct {
	Format      string `json:"format_spec"`
	Enhancement string `json:"enhancement_rule,omitempty"`
}

// OutputTypes tracks the extended output-type vocabulary and its format
// instructions. Satisfies assembly.FormatProvider.
type OutputTypes struct {
	mu      sync.RWMutex
	specs   map[string]OutputTypeSpec
	version int
	sink    events.Sink
}

// NewOutputTypes returns an output-type registry seeded with the built-in
// format map.
func NewOutputTypes(sink events.Sink) *OutputTypes {
	specs := make(map[string]OutputTypeSpec)
	enhancements := assembly.DefaultFormatEnhancements()
	for t, format := range assembly.DefaultFormatMap() {
		specs[string(t)] = OutputTypeSpec{Format: format, Enhancement: enhancements[t]}
	}
	return &OutputTypes{specs: specs, version: 1, sink: sink}
}

// Format satisfies assembly.FormatProvider.
func (o *OutputTypes) Format(t schema.OutputType) (string, string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	spec, ok := o.specs[string(t)]
	if !ok {
		return "", "", false
	}
	return spec.Format, spec.Enhancement, true
}

// Add registers a new output type with its formatting contract.
func (o *OutputTypes) Add(name, format, enhancement string) error {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if name != normalized {
		return fmt.Errorf("output type name must be provided in lowercase")
	}
	if len(normalized) < 3 || len(normalized) > 20 {
		return fmt.Errorf("output type name must be between 3 and 20 characters")
	}
	if strings.ContainsAny(normalized, " \t") {
		return fmt.Errorf("output type name cannot contain spaces")
	}
	if len(format) < 10 || len(format) > 500 {
		return fmt.Errorf("format specification must be between 10 and 500 characters")
	}
	if len(enhancement) > 500 {
		return fmt.Errorf("enhancement rule cannot exceed 500 characters")
	}

	o.mu.Lock()
	if _, exists := o.specs[normalized]; exists {
		o.mu.Unlock()
		return fmt.Errorf("output type %q already exists", normalized)
	}
	o.specs[normalized] = OutputTypeSpec{Format: format, Enhancement: enhancement}
	o.version++
	v := o.version
	o.mu.Unlock()

	events.Emit(o.sink, events.KindRegistryUpdated, map[string]any{
		"registry":    "output_types",
		"output_type": normalized,
		"version":     v,
	})
	return nil
}

// Names returns all registered output type names, sorted.
func (o *OutputTypes) Names() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, 0, len(o.specs))
	for name := range o.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set bundles the three registries and adapts them to the canonicalizer's
// vocabulary interface.
type Set struct {
	Roles       *Roles
	Tones       *Tones
	OutputTypes *OutputTypes
}

// NewSet returns a registry set seeded with the built-in vocabulary.
func NewSet(sink events.Sink) *Set {
	return &Set{
		Roles:       NewRoles(sink),
		Tones:       NewTones(sink),
		OutputTypes: NewOutputTypes(sink),
	}
}

// Vocab adapts the set to the canonicalizer's VocabSource interface.
func (s *Set) Vocab() VocabAdapter { return VocabAdapter{set: s} }

// VocabAdapter exposes the registry vocabulary under the
// canon.VocabSource method set.
type VocabAdapter struct{ set *Set }

func (a VocabAdapter) Tones() []string       { return a.set.Tones.Names() }
func (a VocabAdapter) OutputTypes() []string { return a.set.OutputTypes.Names() }
