package assembly

import (
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

func canonicalRecord() schema.InputRecord {
	rec := schema.Defaults()
	rec.TaskDescription = "Write a product description for a smart watch"
	return rec
}

func TestRoleBlock_ExplicitRoleVerbatim(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.Role = "Senior Horologist"

	got := a.roleBlock(rec)
	if got != "You are a Senior Horologist." {
		t.Errorf("unexpected role block: %q", got)
	}
}

func TestRoleBlock_DerivedFromMatrix(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.Role = ""
	rec.IntentType = schema.IntentPlan
	rec.TaskDomain = schema.DomainMarketing

	got := a.roleBlock(rec)
	if got != "You are a Campaign Strategy Director." {
		t.Errorf("expected matrix persona, got %q", got)
	}
}

func TestRoleMatrix_CompleteAndDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, intent := range schema.IntentTypes() {
		for _, domain := range schema.TaskDomains() {
			role := defaultRoleMatrix[intent][domain]
			if role == "" {
				t.Errorf("matrix missing entry for %s/%s", intent, domain)
			}
			if seen[role] {
				t.Errorf("duplicate persona %q", role)
			}
			seen[role] = true
		}
	}
}

func TestObjectiveBlock(t *testing.T) {
	a := &Assembler{}

	tests := []struct {
		name     string
		mutate   func(*schema.InputRecord)
		contains []string
		excludes []string
	}{
		{
			name:     "standard detail has no enhancement",
			mutate:   func(r *schema.InputRecord) {},
			contains: []string{"[OBJECTIVE]", "Your objective is to Write a product description for a smart watch."},
			excludes: []string{"thorough", "concise"},
		},
		{
			name:     "comprehensive adds depth clause",
			mutate:   func(r *schema.InputRecord) { r.DetailLevel = schema.DetailComprehensive },
			contains: []string{"Provide thorough, detailed analysis"},
		},
		{
			name:     "brief adds concision clause",
			mutate:   func(r *schema.InputRecord) { r.DetailLevel = schema.DetailBrief },
			contains: []string{"Be concise and focus on the most critical points."},
		},
		{
			name: "examples and multi-step and chain-of-thought",
			mutate: func(r *schema.InputRecord) {
				r.ExamplesIncluded = true
				r.MultiStepEnabled = true
				r.ChainOfThought = true
			},
			contains: []string{
				"Use the provided examples as reference",
				"clear, sequential steps",
				"Show your reasoning process step-by-step",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := canonicalRecord()
			tt.mutate(&rec)
			got := a.objectiveBlock(rec)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("objective missing %q:\n%s", want, got)
				}
			}
			for _, not := range tt.excludes {
				if strings.Contains(got, not) {
					t.Errorf("objective should not contain %q:\n%s", not, got)
				}
			}
		})
	}
}

func TestObjectiveBlock_TerminalPeriodNotDoubled(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.TaskDescription = "Summarize the findings."

	got := a.objectiveBlock(rec)
	if strings.Contains(got, "..") {
		t.Errorf("period doubled: %q", got)
	}
}

func TestContextBlock_EmptyWhenNothingSet(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()

	if got := a.contextBlock(rec); got != "" {
		t.Errorf("expected empty context block, got %q", got)
	}
}

func TestContextBlock_DefaultAudienceExcluded(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.TargetAudience = "General Audience"

	if got := a.contextBlock(rec); got != "" {
		t.Errorf("default audience should not render the block, got %q", got)
	}
}

func TestContextBlock_AllElements(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.ContextProvided = "We sell outdoor gear"
	rec.TargetAudience = "weekend hikers"
	rec.ExampleText = "Our best jacket yet."

	got := a.contextBlock(rec)
	for _, want := range []string{
		"[CONTEXT]",
		"Context:\nWe sell outdoor gear",
		"Target audience: weekend hikers",
		"Reference examples:\nOur best jacket yet.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestConstraintsBlock_FreeTier(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.Constraints = []string{"Avoid superlatives"}

	got := a.constraintsBlock(rec)

	lines := strings.Split(got, "\n")
	if lines[0] != "[CONSTRAINTS]" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "- Maintain a professional tone throughout" {
		t.Errorf("tone must come first, got %q", lines[1])
	}
	if lines[2] != "- Avoid superlatives" {
		t.Errorf("user constraint second, got %q", lines[2])
	}
	if lines[3] != "- Provide a straightforward response without advanced techniques" {
		t.Errorf("free-tier clause last, got %q", lines[3])
	}
}

func TestConstraintsBlock_ProWithLengthTarget(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.ComplexityTier = schema.TierPro
	rec.OutputLengthTarget = 300
	rec.CustomInstructions = "Use metric units"

	got := a.constraintsBlock(rec)

	if !strings.Contains(got, "- Target approximately 300 words") {
		t.Errorf("missing word target:\n%s", got)
	}
	if strings.Contains(got, "straightforward response without advanced techniques") {
		t.Errorf("free-tier clause leaked into pro:\n%s", got)
	}
	if !strings.Contains(got, "- Use metric units") {
		t.Errorf("missing custom instructions entry:\n%s", got)
	}
}

func TestOutputFormatBlock(t *testing.T) {
	a := &Assembler{}

	rec := canonicalRecord()
	rec.OutputType = schema.OutputJSON
	got := a.outputFormatBlock(rec)
	if !strings.HasPrefix(got, "Output Format:\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "Return valid JSON") {
		t.Errorf("wrong instruction: %q", got)
	}

	// Comprehensive appends the type-specific enhancement.
	rec.DetailLevel = schema.DetailComprehensive
	got = a.outputFormatBlock(rec)
	if !strings.Contains(got, "Include descriptive keys") {
		t.Errorf("missing comprehensive enhancement: %q", got)
	}
}

func TestOutputFormatBlock_UnknownTypeFallsBackToText(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.OutputType = schema.OutputType("hologram")

	got := a.outputFormatBlock(rec)
	if !strings.Contains(got, "clear, well-structured paragraphs") {
		t.Errorf("expected text fallback: %q", got)
	}
}

func TestBlocksJoin_SkipsEmptyAndKeepsOrder(t *testing.T) {
	b := Blocks{
		Role:         "R",
		Objective:    "O",
		Context:      "",
		Constraints:  "C",
		OutputFormat: "F",
	}
	if got := b.Join(); got != "R\n\nO\n\nC\n\nF" {
		t.Errorf("unexpected join: %q", got)
	}
}

func TestAssemble_BlockOrder(t *testing.T) {
	a := &Assembler{}
	rec := canonicalRecord()
	rec.ContextProvided = "Launch is next month"

	got := a.Assemble(rec)

	roleIdx := strings.Index(got, "You are a")
	objIdx := strings.Index(got, "[OBJECTIVE]")
	ctxIdx := strings.Index(got, "[CONTEXT]")
	conIdx := strings.Index(got, "[CONSTRAINTS]")
	fmtIdx := strings.Index(got, "Output Format:")

	if !(roleIdx >= 0 && roleIdx < objIdx && objIdx < ctxIdx && ctxIdx < conIdx && conIdx < fmtIdx) {
		t.Errorf("blocks out of order:\n%s", got)
	}
}
