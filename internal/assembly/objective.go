package assembly

import (
	"strings"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// Objective enhancement clauses, appended in a fixed order after the base
// sentence.
const (
	enhanceComprehensive  = "Provide thorough, detailed analysis covering all relevant aspects."
	enhanceBrief          = "Be concise and focus on the most critical points."
	enhanceExamples       = "Use the provided examples as reference for style and structure."
	enhanceMultiStep      = "Break down the process into clear, sequential steps."
	enhanceChainOfThought = "Show your reasoning process step-by-step before providing the final answer."
)

// objectiveBlock renders the OBJECTIVE block: the base sentence plus
// detail-level, examples, multi-step, and chain-of-thought clauses.
func (a *Assembler) objectiveBlock(rec schema.InputRecord) string {
	base := "Your objective is to " + rec.TaskDescription
	if !strings.HasSuffix(base, ".") {
		base += "."
	}

	parts := []string{base}

	switch rec.DetailLevel {
	case schema.DetailComprehensive:
		parts = append(parts, enhanceComprehensive)
	case schema.DetailBrief:
		parts = append(parts, enhanceBrief)
	}

	if rec.ExamplesIncluded {
		parts = append(parts, enhanceExamples)
	}
	if rec.MultiStepEnabled {
		parts = append(parts, enhanceMultiStep)
	}
	if rec.ChainOfThought {
		parts = append(parts, enhanceChainOfThought)
	}

	return "[OBJECTIVE]\n" + strings.Join(parts, " ")
}
