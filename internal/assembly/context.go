package assembly

import (
	"strings"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// contextBlock renders the CONTEXT block. It is the only block allowed to
// render empty: it is skipped when context, audience, and examples are all
// unset (the default audience does not count as set).
func (a *Assembler) contextBlock(rec schema.InputRecord) string {
	var elements []string

	if rec.ContextProvided != "" {
		elements = append(elements, "Context:\n"+rec.ContextProvided)
	}

	audience := strings.TrimSpace(rec.TargetAudience)
	if audience != "" && !strings.EqualFold(audience, schema.DefaultTargetAudience) {
		elements = append(elements, "Target audience: "+audience)
	}

	if rec.ExampleText != "" {
		elements = append(elements, "Reference examples:\n"+rec.ExampleText)
	}

	if len(elements) == 0 {
		return ""
	}

	return "[CONTEXT]\n" + strings.Join(elements, "\n\n")
}
