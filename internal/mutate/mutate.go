// Package mutate derives lineage-tracked sibling variants from a canonical
// input by applying narrow, invariant-preserving operators and re-running
// the result through the same gating and assembly path.
package mutate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
	"github.com/ChamsBouzaiene/promptstitch/internal/version"
)

// Operator names a supported mutation.
type Operator string

const (
	OpToneShift        Operator = "tone_shift"
	OpDetailExpansion  Operator = "detail_expansion"
	OpDetailReduction  Operator = "detail_reduction"
	OpFormatTransform  Operator = "format_transform"
	OpConstraintAdd    Operator = "constraint_add"
	OpConstraintRemove Operator = "constraint_remove"
	OpRoleRefinement   Operator = "role_refinement"
)

// Operators returns all supported operators.
func Operators() []Operator {
	return []Operator{
		OpToneShift, OpDetailExpansion, OpDetailReduction,
		OpFormatTransform, OpConstraintAdd, OpConstraintRemove,
		OpRoleRefinement,
	}
}

// UnsupportedOperatorError is the one rejecting error of the engine.
type UnsupportedOperatorError struct {
	Operator Operator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported mutation operator: %q", e.Operator)
}

// Params carries operator-specific parameters; only the fields relevant to
// the chosen operator are read.
type Params struct {
	Tone            string
	OutputType      string
	Constraint      string
	ConstraintIndex int
	Specialization  string
}

// VocabSource supplies runtime-extended vocabulary. Operators accept the
// same tone and output-type values the canonicalizer does; nil means the
// built-in vocabularies only.
type VocabSource interface {
	Tones() []string
	OutputTypes() []string
}

// Engine applies mutation operators and produces lineage records.
type Engine struct {
	Versioner *version.Generator
	Sink      events.Sink
	Vocab     VocabSource
}

func NewEngine(versioner *version.Generator, sink events.Sink) *Engine {
	return &Engine{Versioner: versioner, Sink: sink}
}

// coerceTone consults the built-in vocabulary first, then any
// runtime-extended vocabulary.
func (e *Engine) coerceTone(raw string) (schema.Tone, bool) {
	if v, ok := schema.CoerceTone(raw); ok {
		return v, true
	}
	n := strings.ToLower(strings.TrimSpace(raw))
	if e.Vocab != nil && slices.Contains(e.Vocab.Tones(), n) {
		return schema.Tone(n), true
	}
	return "", false
}

func (e *Engine) coerceOutputType(raw string) (schema.OutputType, bool) {
	if v, ok := schema.CoerceOutputType(raw); ok {
		return v, true
	}
	n := strings.ToLower(strings.TrimSpace(raw))
	if e.Vocab != nil && slices.Contains(e.Vocab.OutputTypes(), n) {
		return schema.OutputType(n), true
	}
	return "", false
}

func (e *Engine) skip(op Operator, reason string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["operator"] = string(op)
	fields["reason"] = reason
	events.Emit(e.Sink, events.KindMutationSkipped, fields)
}

// Mutate derives a new record from an already-canonical one. Operators use
// narrow, vocabulary-validated edits so the result stays canonical without
// a second canonicalization pass; invalid parameters degrade to a no-op
// with a logged event rather than an error. Only an unknown operator
// rejects.
func (e *Engine) Mutate(rec schema.InputRecord, op Operator, p Params) (schema.InputRecord, version.MutationRecord, error) {
	out := rec.Clone()

	switch op {
	case OpToneShift:
		if tone, ok := e.coerceTone(p.Tone); ok {
			out.Tone = tone
		} else {
			e.skip(op, "tone_out_of_vocabulary", map[string]any{"tone": p.Tone})
		}

	case OpDetailExpansion:
		out.DetailLevel = schema.DetailComprehensive

	case OpDetailReduction:
		out.DetailLevel = schema.DetailBrief

	case OpFormatTransform:
		if format, ok := e.coerceOutputType(p.OutputType); ok {
			out.OutputType = format
		} else {
			e.skip(op, "output_type_out_of_vocabulary", map[string]any{"output_type": p.OutputType})
		}

	case OpConstraintAdd:
		entry := strings.TrimSpace(p.Constraint)
		switch {
		case len(entry) < schema.ConstraintMin || len(entry) > schema.ConstraintMax:
			e.skip(op, "constraint_out_of_bounds", map[string]any{"constraint": entry})
		case slices.Contains(out.Constraints, entry):
			e.skip(op, "constraint_duplicate", map[string]any{"constraint": entry})
		case len(out.Constraints) >= schema.ConstraintsCap:
			e.skip(op, "constraint_cap_reached", nil)
		default:
			out.Constraints = append(out.Constraints, entry)
		}

	case OpConstraintRemove:
		if p.ConstraintIndex >= 0 && p.ConstraintIndex < len(out.Constraints) {
			out.Constraints = append(out.Constraints[:p.ConstraintIndex], out.Constraints[p.ConstraintIndex+1:]...)
		} else {
			e.skip(op, "constraint_index_out_of_range", map[string]any{"index": p.ConstraintIndex})
		}

	case OpRoleRefinement:
		if spec := strings.TrimSpace(p.Specialization); spec != "" {
			base := out.Role
			if base == "" {
				base = "Expert"
			}
			refined := fmt.Sprintf("%s with a focus on %s", base, spec)
			if len(refined) > schema.RoleMax {
				e.skip(op, "role_over_length", map[string]any{"role": refined})
			} else {
				out.Role = refined
			}
		} else {
			e.skip(op, "specialization_missing", nil)
		}

	default:
		return schema.InputRecord{}, version.MutationRecord{}, &UnsupportedOperatorError{Operator: op}
	}

	return out, e.Versioner.Lineage(rec, string(op)), nil
}
