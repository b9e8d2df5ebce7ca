// Package assembly composes canonical input records into prompt text: five
// independently generated blocks in a fixed order, plus the tier-specific
// template augmentations layered on top.
package assembly

import (
	"strings"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// Blocks holds the five generated sections in assembly order. Empty blocks
// are skipped when joining; only Context may legitimately be empty.
type Blocks struct {
	Role         string
	Objective    string
	Context      string
	Constraints  string
	OutputFormat string
}

// Join concatenates the non-empty blocks with a blank-line separator.
func (b Blocks) Join() string {
	parts := make([]string, 0, 5)
	for _, block := range []string{b.Role, b.Objective, b.Context, b.Constraints, b.OutputFormat} {
		if strings.TrimSpace(block) != "" {
			parts = append(parts, block)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// Assembler generates prompt blocks from canonical records. Role and
// format lookups are injectable so runtime registries can extend the
// built-in vocabulary; the zero value uses the built-ins.
type Assembler struct {
	Roles   RoleResolver
	Formats FormatProvider
}

func (a *Assembler) roles() RoleResolver {
	if a.Roles != nil {
		return a.Roles
	}
	return builtinRoles{}
}

func (a *Assembler) formats() FormatProvider {
	if a.Formats != nil {
		return a.Formats
	}
	return builtinFormats{}
}

// Blocks generates all five blocks for a canonical record. Pure and total:
// every branch has a default.
func (a *Assembler) Blocks(rec schema.InputRecord) Blocks {
	return Blocks{
		Role:         a.roleBlock(rec),
		Objective:    a.objectiveBlock(rec),
		Context:      a.contextBlock(rec),
		Constraints:  a.constraintsBlock(rec),
		OutputFormat: a.outputFormatBlock(rec),
	}
}

// Assemble renders the base prompt: the five blocks joined in fixed order.
func (a *Assembler) Assemble(rec schema.InputRecord) string {
	return a.Blocks(rec).Join()
}

// ResolveRole exposes the effective persona for a record, for callers that
// need it outside block generation (the enterprise template rebuilds the
// role sentence structurally).
func (a *Assembler) ResolveRole(rec schema.InputRecord) string {
	return a.resolveRole(rec)
}
