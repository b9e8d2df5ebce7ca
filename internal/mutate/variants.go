package mutate

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ChamsBouzaiene/promptstitch/internal/assembly"
	"github.com/ChamsBouzaiene/promptstitch/internal/gate"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
	"github.com/ChamsBouzaiene/promptstitch/internal/version"
)

// Variant count clamp bounds.
const (
	MinVariants = 2
	MaxVariants = 5
)

// variantPool is the fixed operator pool sampled during variant
// generation. Constraint edits are excluded: without caller-supplied text
// there is no sensible random constraint.
var variantPool = []Operator{
	OpToneShift,
	OpDetailExpansion,
	OpDetailReduction,
	OpFormatTransform,
	OpRoleRefinement,
}

// Specializations sampled for random role refinement.
var specializations = []string{
	"Quality Assurance",
	"Risk Analysis",
	"Stakeholder Communication",
	"Rapid Prototyping",
}

// Variant is one sibling prompt derived from a base canonical input.
type Variant struct {
	Label    string
	Operator Operator
	Input    schema.InputRecord
	Prompt   string
	Metadata version.Metadata
	Lineage  version.MutationRecord
}

// VariantGenerator produces sets of sibling variants, re-running each one
// through the tier gate, versioner, and template selector so variants stay
// tier-legal.
type VariantGenerator struct {
	Engine   *Engine
	Gate     *gate.Gate
	Selector *assembly.Selector

	// Rand is the sampling source; injectable for deterministic tests.
	// Nil uses the global source.
	Rand *rand.Rand
}

func (g *VariantGenerator) intn(n int) int {
	if g.Rand != nil {
		return g.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// randomParams picks operator-appropriate random parameters, always
// distinct from the base record's current value where that applies.
func (g *VariantGenerator) randomParams(op Operator, base schema.InputRecord) Params {
	switch op {
	case OpToneShift:
		var others []schema.Tone
		for _, t := range schema.Tones() {
			if t != base.Tone {
				others = append(others, t)
			}
		}
		return Params{Tone: string(others[g.intn(len(others))])}

	case OpFormatTransform:
		var others []schema.OutputType
		for _, f := range schema.OutputTypes() {
			if f != base.OutputType {
				others = append(others, f)
			}
		}
		return Params{OutputType: string(others[g.intn(len(others))])}

	case OpRoleRefinement:
		return Params{Specialization: specializations[g.intn(len(specializations))]}

	default:
		return Params{}
	}
}

// Generate derives count sibling variants from an already-canonicalized,
// gated base record. count is clamped to [MinVariants, MaxVariants].
// Failures are isolated per variant: successful siblings are returned
// alongside any per-variant errors.
func (g *VariantGenerator) Generate(base schema.InputRecord, count int) ([]Variant, error) {
	if count < MinVariants {
		count = MinVariants
	}
	if count > MaxVariants {
		count = MaxVariants
	}

	variants := make([]Variant, 0, count)
	var errs []error

	for i := 1; i <= count; i++ {
		op := variantPool[g.intn(len(variantPool))]

		mutated, lineage, err := g.Engine.Mutate(base, op, g.randomParams(op, base))
		if err != nil {
			errs = append(errs, fmt.Errorf("variant %d (%s): %w", i, op, err))
			continue
		}

		// Re-enter the standard path: gate, then assemble, then version.
		mutated = g.Gate.Apply(mutated)

		prompt, err := g.Selector.Select(mutated, "")
		if err != nil {
			errs = append(errs, fmt.Errorf("variant %d (%s): %w", i, op, err))
			continue
		}

		variants = append(variants, Variant{
			Label:    fmt.Sprintf("V%d", i),
			Operator: op,
			Input:    mutated,
			Prompt:   prompt,
			Metadata: g.Engine.Versioner.Version(mutated),
			Lineage:  lineage,
		})
	}

	return variants, errors.Join(errs...)
}
