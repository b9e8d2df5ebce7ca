package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// rawInputSchema structurally validates untrusted JSON before it is decoded
// into a PartialInput. It checks shapes only; vocabulary membership and
// bounds are the canonicalizer's job and are corrective, not rejecting.
const rawInputSchema = `{
	"type": "object",
	"properties": {
		"intent_type":          {"type": "string"},
		"task_domain":          {"type": "string"},
		"output_type":          {"type": "string"},
		"tone":                 {"type": "string"},
		"role":                 {"type": "string"},
		"task_description":     {"type": "string"},
		"context_provided":     {"type": "string"},
		"constraints":          {"type": "array", "items": {"type": "string"}},
		"examples_included":    {"type": "boolean"},
		"example_text":         {"type": "string"},
		"detail_level":         {"type": "string"},
		"target_audience":      {"type": "string"},
		"complexity_tier":      {"type": "string"},
		"custom_instructions":  {"type": "string"},
		"multi_step_enabled":   {"type": "boolean"},
		"chain_of_thought":     {"type": "boolean"},
		"output_length_target": {"type": ["number", "string", "null"]}
	},
	"additionalProperties": true
}`

// InputValidationError reports structural problems in raw JSON input.
type InputValidationError struct {
	Errors []string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("input validation failed: %s", strings.Join(e.Errors, "; "))
}

// ValidateRaw checks a raw JSON document against the input schema.
func ValidateRaw(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(rawInputSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.String())
		}
		return &InputValidationError{Errors: msgs}
	}

	return nil
}
