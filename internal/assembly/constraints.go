package assembly

import (
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// freeTierConstraint is appended for free-tier records only.
const freeTierConstraint = "Provide a straightforward response without advanced techniques"

// constraintsBlock renders the CONSTRAINTS block as a bulleted list, in
// fixed order: tone, optional word-count target, user constraints, the
// free-tier clause, then custom instructions.
func (a *Assembler) constraintsBlock(rec schema.InputRecord) string {
	list := []string{fmt.Sprintf("Maintain a %s tone throughout", rec.Tone)}

	if rec.OutputLengthTarget > 0 {
		list = append(list, fmt.Sprintf("Target approximately %d words", rec.OutputLengthTarget))
	}

	for _, constraint := range rec.Constraints {
		if strings.TrimSpace(constraint) != "" {
			list = append(list, strings.TrimSpace(constraint))
		}
	}

	if rec.ComplexityTier == schema.TierFree {
		list = append(list, freeTierConstraint)
	}

	if strings.TrimSpace(rec.CustomInstructions) != "" {
		list = append(list, strings.TrimSpace(rec.CustomInstructions))
	}

	var b strings.Builder
	b.WriteString("[CONSTRAINTS]")
	for _, entry := range list {
		b.WriteString("\n- ")
		b.WriteString(entry)
	}
	return b.String()
}
