package version

import (
	"testing"
	"time"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

func hashableRecord() schema.InputRecord {
	rec := schema.Defaults()
	rec.TaskDescription = "Draft the quarterly board update"
	rec.Constraints = []string{"Lead with revenue", "One page maximum"}
	return rec
}

func TestHashRecord_Deterministic(t *testing.T) {
	rec := hashableRecord()
	if HashRecord(rec) != HashRecord(rec.Clone()) {
		t.Error("identical records must hash identically")
	}
}

func TestHashRecord_FieldSensitivity(t *testing.T) {
	base := hashableRecord()
	baseHash := HashRecord(base)

	tests := []struct {
		name   string
		mutate func(*schema.InputRecord)
	}{
		{"tone", func(r *schema.InputRecord) { r.Tone = schema.ToneCasual }},
		{"task description", func(r *schema.InputRecord) { r.TaskDescription += "!" }},
		{"tier", func(r *schema.InputRecord) { r.ComplexityTier = schema.TierPro }},
		{"boolean flag", func(r *schema.InputRecord) { r.ExamplesIncluded = true }},
		{"length target", func(r *schema.InputRecord) { r.OutputLengthTarget = 100 }},
		{"constraint content", func(r *schema.InputRecord) { r.Constraints[0] = "Lead with churn" }},
		{"constraint order", func(r *schema.InputRecord) {
			r.Constraints[0], r.Constraints[1] = r.Constraints[1], r.Constraints[0]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := base.Clone()
			tt.mutate(&rec)
			if HashRecord(rec) == baseHash {
				t.Error("mutation did not change the hash")
			}
		})
	}
}

func TestHashRecord_SerializationIsInjective(t *testing.T) {
	// One constraint containing the list separator vs two constraints.
	single := hashableRecord()
	single.Constraints = []string{"abcde|fghij"}
	split := hashableRecord()
	split.Constraints = []string{"abcde", "fghij"}
	if HashRecord(single) == HashRecord(split) {
		t.Error("a separator inside a constraint must not merge two lists")
	}

	// A field separator inside one field vs content shifted into the next.
	inField := hashableRecord()
	inField.TaskDescription = "Draft the plan::review notes"
	inField.ContextProvided = ""
	shifted := hashableRecord()
	shifted.TaskDescription = "Draft the plan"
	shifted.ContextProvided = "review notes"
	if HashRecord(inField) == HashRecord(shifted) {
		t.Error("a separator inside a field must not shift content across the boundary")
	}
}

func TestVersion_FreshIDSameHash(t *testing.T) {
	g := NewGenerator()
	rec := hashableRecord()

	m1 := g.Version(rec)
	m2 := g.Version(rec)

	if m1.VersionID == m2.VersionID {
		t.Error("each call must mint a distinct version id")
	}
	if m1.InputHash != m2.InputHash {
		t.Error("same record must keep the same input hash")
	}
	if m1.ContentID() != m2.ContentID() {
		t.Error("content identity must be stable across calls")
	}
}

func TestVersion_DefaultTags(t *testing.T) {
	g := NewGenerator()
	m := g.Version(hashableRecord())

	if m.TemplateVersion != "3.2" {
		t.Errorf("expected template version 3.2, got %q", m.TemplateVersion)
	}
	if m.EngineVersion != "1.0.0" {
		t.Errorf("expected engine version 1.0.0, got %q", m.EngineVersion)
	}
	if m.CreatedAt.IsZero() {
		t.Error("created timestamp not set")
	}
}

func TestVersion_InjectableClockAndIDs(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := &Generator{
		NewID: func() string { return "test-id" },
		Now:   func() time.Time { return fixed },
	}

	m := g.Version(hashableRecord())
	if m.VersionID != "test-id" {
		t.Errorf("expected injected id, got %q", m.VersionID)
	}
	if !m.CreatedAt.Equal(fixed) {
		t.Errorf("expected injected clock, got %v", m.CreatedAt)
	}
	// Empty overrides fall back to the defaults.
	if m.TemplateVersion != DefaultTemplateVersion || m.EngineVersion != DefaultEngineVersion {
		t.Error("zero-value generator should use default version tags")
	}
}

func TestContentID(t *testing.T) {
	hash := HashRecord(hashableRecord())
	id := ContentID(hash)

	if len(id) != 10 || id[:2] != "v_" {
		t.Errorf("unexpected content id shape: %q", id)
	}
	if id != "v_"+hash[:8] {
		t.Errorf("content id must be the hash prefix, got %q", id)
	}
}

func TestLineage(t *testing.T) {
	g := NewGenerator()
	parent := hashableRecord()

	lineage := g.Lineage(parent, "tone_shift")

	if lineage.ParentVersionID != ContentID(HashRecord(parent)) {
		t.Error("lineage must point at the parent's content identity")
	}
	if lineage.Operator != "tone_shift" {
		t.Errorf("unexpected operator %q", lineage.Operator)
	}
	if lineage.Timestamp.IsZero() {
		t.Error("lineage timestamp not set")
	}
}
