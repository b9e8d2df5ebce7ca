package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// Snapshot is the on-disk form of the registry set. Only entries beyond
// the built-in vocabulary need to be present; loading merges over the
// seeded defaults.
type Snapshot struct {
	Roles       map[string]map[string]string `json:"roles,omitempty"`
	Tones       map[string]string            `json:"tones,omitempty"`
	OutputTypes map[string]OutputTypeSpec    `json:"output_types,omitempty"`
}

// Snapshot captures the current registry contents.
func (s *Set) Snapshot() Snapshot {
	snap := Snapshot{
		Roles:       make(map[string]map[string]string),
		Tones:       make(map[string]string),
		OutputTypes: make(map[string]OutputTypeSpec),
	}

	s.Roles.mu.RLock()
	for intent, domains := range s.Roles.roles {
		inner := make(map[string]string, len(domains))
		for domain, role := range domains {
			inner[string(domain)] = role
		}
		snap.Roles[string(intent)] = inner
	}
	s.Roles.mu.RUnlock()

	s.Tones.mu.RLock()
	for name, desc := range s.Tones.descriptors {
		snap.Tones[name] = desc
	}
	s.Tones.mu.RUnlock()

	s.OutputTypes.mu.RLock()
	for name, spec := range s.OutputTypes.specs {
		snap.OutputTypes[name] = spec
	}
	s.OutputTypes.mu.RUnlock()

	return snap
}

// Apply merges a snapshot over the current contents. Entries that fail
// format checks are skipped with an error reported at the end; valid
// entries still land.
func (s *Set) Apply(snap Snapshot) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for intent, domains := range snap.Roles {
		for domain, role := range domains {
			if s.Roles.Role(schema.IntentType(intent), schema.TaskDomain(domain)) == role {
				continue
			}
			keep(s.Roles.Add(schema.IntentType(intent), schema.TaskDomain(domain), role))
		}
	}

	for name, desc := range snap.Tones {
		if _, exists := s.Tones.Descriptor(name); exists {
			continue
		}
		keep(s.Tones.Add(name, desc))
	}

	for name, spec := range snap.OutputTypes {
		if _, _, exists := s.OutputTypes.Format(schema.OutputType(name)); exists {
			continue
		}
		keep(s.OutputTypes.Add(name, spec.Format, spec.Enhancement))
	}

	return firstErr
}

// SaveFile persists the registry set as JSON.
func (s *Set) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// LoadFile merges a registry file over the current contents. A missing
// file is not an error; the built-in vocabulary stands.
func (s *Set) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read registry file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse registry file: %w", err)
	}

	return s.Apply(snap)
}
