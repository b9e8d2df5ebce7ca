package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// BatchItem is one input in a batch request. An absent ID is defaulted to
// a generated token.
type BatchItem struct {
	ID    string              `json:"input_id,omitempty"`
	Input schema.PartialInput `json:"input"`
}

// BatchResult pairs a batch item with its outcome. Exactly one of Output
// and Err is set.
type BatchResult struct {
	InputID string        `json:"input_id"`
	Output  *PromptOutput `json:"output,omitempty"`
	Err     error         `json:"-"`
}

// BatchGenerate compiles each item independently. A failing item never
// aborts its siblings; callers get one result per item, failed ones
// carrying the error.
func (g *Generator) BatchGenerate(items []BatchItem) []BatchResult {
	results := make([]BatchResult, 0, len(items))

	for _, item := range items {
		id := item.ID
		if id == "" {
			id = fmt.Sprintf("batch_%s", uuid.NewString()[:8])
		}

		out, err := g.GeneratePrompt(item.Input, "", "")
		results = append(results, BatchResult{
			InputID: id,
			Output:  out,
			Err:     err,
		})
	}

	return results
}
