// Package canon turns arbitrary partial input into a complete,
// vocabulary-valid, normalized InputRecord. The design rule: reject only on
// missing essential intent, auto-correct everything else with a logged
// warning.
package canon

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// MissingRequiredFieldError is the one unrecoverable input error: the task
// description was absent or blank after trimming.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing or blank", e.Field)
}

// VocabSource supplies runtime-extended vocabulary for the fields operators
// can extend. A nil source means the built-in closed vocabularies only.
type VocabSource interface {
	Tones() []string
	OutputTypes() []string
}

// Canonicalizer validates, corrects, and normalizes partial input.
type Canonicalizer struct {
	Sink  events.Sink
	Vocab VocabSource
}

// New creates a Canonicalizer emitting correction warnings to sink.
func New(sink events.Sink) *Canonicalizer {
	return &Canonicalizer{Sink: sink}
}

func (c *Canonicalizer) warn(field string, invalid, corrected any) {
	events.Emit(c.Sink, events.KindInputCorrected, map[string]any{
		"field":           field,
		"invalid_value":   invalid,
		"corrected_value": corrected,
	})
}

// Canonicalize produces a canonical InputRecord from partial input.
//
// Stage order matters: merge over defaults, enum coercion (membership is
// case-insensitive, so it is safe before casing normalization), length
// bounds, constraint hygiene, tier enforcement, then casing normalization.
func (c *Canonicalizer) Canonicalize(p schema.PartialInput) (schema.InputRecord, error) {
	// Critical check before anything else.
	if p.TaskDescription == nil || strings.TrimSpace(*p.TaskDescription) == "" {
		return schema.InputRecord{}, &MissingRequiredFieldError{Field: "task_description"}
	}

	rec := c.merge(p)
	c.coerceEnums(&rec, p)
	c.enforceBounds(&rec, p)
	rec.Constraints = c.cleanConstraints(rec.Constraints)
	c.enforceTierDefaults(&rec)
	normalizeCasing(&rec)

	return rec, nil
}

// merge overlays the supplied fields onto the documented defaults so every
// field is present.
func (c *Canonicalizer) merge(p schema.PartialInput) schema.InputRecord {
	rec := schema.Defaults()

	if p.Role != nil {
		rec.Role = *p.Role
	}
	if p.TaskDescription != nil {
		rec.TaskDescription = *p.TaskDescription
	}
	if p.ContextProvided != nil {
		rec.ContextProvided = *p.ContextProvided
	}
	if p.Constraints != nil {
		rec.Constraints = append([]string(nil), p.Constraints...)
	}
	if p.ExamplesIncluded != nil {
		rec.ExamplesIncluded = *p.ExamplesIncluded
	}
	if p.ExampleText != nil {
		rec.ExampleText = *p.ExampleText
	}
	if p.TargetAudience != nil {
		rec.TargetAudience = *p.TargetAudience
	}
	if p.CustomInstructions != nil {
		rec.CustomInstructions = *p.CustomInstructions
	}
	if p.MultiStepEnabled != nil {
		rec.MultiStepEnabled = *p.MultiStepEnabled
	}
	if p.ChainOfThought != nil {
		rec.ChainOfThought = *p.ChainOfThought
	}

	return rec
}

// coerceEnums checks each enumerated field against its vocabulary and
// substitutes the documented default on a miss, warning either way the
// value changes.
func (c *Canonicalizer) coerceEnums(rec *schema.InputRecord, p schema.PartialInput) {
	if p.IntentType != nil {
		v, ok := schema.CoerceIntentType(*p.IntentType)
		if !ok {
			c.warn("intent_type", *p.IntentType, v)
		}
		rec.IntentType = v
	}
	if p.TaskDomain != nil {
		v, ok := schema.CoerceTaskDomain(*p.TaskDomain)
		if !ok {
			c.warn("task_domain", *p.TaskDomain, v)
		}
		rec.TaskDomain = v
	}
	if p.OutputType != nil {
		v, ok := c.coerceOutputType(*p.OutputType)
		if !ok {
			c.warn("output_type", *p.OutputType, v)
		}
		rec.OutputType = v
	}
	if p.Tone != nil {
		v, ok := c.coerceTone(*p.Tone)
		if !ok {
			c.warn("tone", *p.Tone, v)
		}
		rec.Tone = v
	}
	if p.DetailLevel != nil {
		v, ok := schema.CoerceDetailLevel(*p.DetailLevel)
		if !ok {
			c.warn("detail_level", *p.DetailLevel, v)
		}
		rec.DetailLevel = v
	}
	if p.ComplexityTier != nil {
		v, ok := schema.CoerceTier(*p.ComplexityTier)
		if !ok {
			c.warn("complexity_tier", *p.ComplexityTier, v)
		}
		rec.ComplexityTier = v
	}
}

// coerceTone consults the built-in vocabulary first, then any
// runtime-extended vocabulary.
func (c *Canonicalizer) coerceTone(raw string) (schema.Tone, bool) {
	if v, ok := schema.CoerceTone(raw); ok {
		return v, true
	}
	n := strings.ToLower(strings.TrimSpace(raw))
	if c.Vocab != nil {
		for _, t := range c.Vocab.Tones() {
			if t == n {
				return schema.Tone(n), true
			}
		}
	}
	return schema.DefaultTone, false
}

func (c *Canonicalizer) coerceOutputType(raw string) (schema.OutputType, bool) {
	if v, ok := schema.CoerceOutputType(raw); ok {
		return v, true
	}
	n := strings.ToLower(strings.TrimSpace(raw))
	if c.Vocab != nil {
		for _, t := range c.Vocab.OutputTypes() {
			if t == n {
				return schema.OutputType(n), true
			}
		}
	}
	return schema.DefaultOutputType, false
}

// enforceBounds applies the documented length bounds. Over-length free text
// is truncated, never rejected; an out-of-bounds role is replaced by the
// default role; a bad length target is discarded.
func (c *Canonicalizer) enforceBounds(rec *schema.InputRecord, p schema.PartialInput) {
	desc := strings.TrimSpace(rec.TaskDescription)
	if len(desc) > schema.TaskDescriptionMax {
		c.warn("task_description", fmt.Sprintf("%d chars", len(desc)), fmt.Sprintf("truncated to %d", schema.TaskDescriptionMax))
		desc = cutAtRune(desc, schema.TaskDescriptionMax)
	} else if len(desc) < schema.TaskDescriptionMin {
		// Non-empty but short: kept as-is, a blank one was already rejected.
		c.warn("task_description", fmt.Sprintf("%d chars", len(desc)), fmt.Sprintf("below minimum of %d, kept", schema.TaskDescriptionMin))
	}
	rec.TaskDescription = desc

	role := strings.TrimSpace(rec.Role)
	if role != "" && (len(role) < schema.RoleMin || len(role) > schema.RoleMax) {
		c.warn("role", role, schema.DefaultRole)
		role = schema.DefaultRole
	}
	rec.Role = role

	rec.ContextProvided = c.truncateField("context_provided", rec.ContextProvided, schema.ContextMax)
	rec.ExampleText = c.truncateField("example_text", rec.ExampleText, schema.ExampleTextMax)
	rec.TargetAudience = c.truncateField("target_audience", rec.TargetAudience, schema.TargetAudienceMax)
	rec.CustomInstructions = c.truncateField("custom_instructions", rec.CustomInstructions, schema.CustomInstructionsMax)

	rec.OutputLengthTarget = c.parseLengthTarget(p.OutputLengthTarget)
}

// parseLengthTarget parses the caller-supplied word-count target. Anything
// non-numeric or outside [LengthTargetMin, LengthTargetMax] is discarded.
func (c *Canonicalizer) parseLengthTarget(raw any) int {
	if raw == nil {
		return 0
	}

	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			c.warn("output_length_target", v, nil)
			return 0
		}
		n = parsed
	default:
		c.warn("output_length_target", fmt.Sprintf("%T", raw), nil)
		return 0
	}

	if n < schema.LengthTargetMin || n > schema.LengthTargetMax {
		c.warn("output_length_target", n, nil)
		return 0
	}
	return n
}

// cleanConstraints trims each entry, drops entries outside the per-entry
// bounds, removes exact duplicates, and caps the list.
func (c *Canonicalizer) cleanConstraints(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))

	for _, raw := range in {
		entry := strings.TrimSpace(raw)
		if len(entry) < schema.ConstraintMin || len(entry) > schema.ConstraintMax {
			c.warn("constraints", entry, nil)
			continue
		}
		if seen[entry] {
			c.warn("constraints", entry, "duplicate removed")
			continue
		}
		if len(out) >= schema.ConstraintsCap {
			c.warn("constraints", entry, fmt.Sprintf("over cap of %d", schema.ConstraintsCap))
			break
		}
		seen[entry] = true
		out = append(out, entry)
	}

	return out
}

// enforceTierDefaults applies the canonicalizer's half of the tier
// defense-in-depth: free zeroes every gated field, pro forces
// chain-of-thought off. The tier gate repeats this independently.
func (c *Canonicalizer) enforceTierDefaults(rec *schema.InputRecord) {
	switch rec.ComplexityTier {
	case schema.TierFree:
		if rec.CustomInstructions != "" {
			c.warn("custom_instructions", rec.CustomInstructions, "")
			rec.CustomInstructions = ""
		}
		if rec.MultiStepEnabled {
			c.warn("multi_step_enabled", true, false)
			rec.MultiStepEnabled = false
		}
		if rec.ChainOfThought {
			c.warn("chain_of_thought", true, false)
			rec.ChainOfThought = false
		}
		if rec.OutputLengthTarget != 0 {
			c.warn("output_length_target", rec.OutputLengthTarget, nil)
			rec.OutputLengthTarget = 0
		}
	case schema.TierPro:
		if rec.ChainOfThought {
			c.warn("chain_of_thought", true, false)
			rec.ChainOfThought = false
		}
	}
}

// normalizeCasing applies the final string normalization: enumerated fields
// are already lower-cased by coercion; role and task description are
// sentence-cased; free text is trimmed.
func normalizeCasing(rec *schema.InputRecord) {
	rec.Role = sentenceCase(rec.Role)
	rec.TaskDescription = sentenceCase(rec.TaskDescription)
	rec.ContextProvided = strings.TrimSpace(rec.ContextProvided)
	rec.ExampleText = strings.TrimSpace(rec.ExampleText)
	rec.TargetAudience = strings.TrimSpace(rec.TargetAudience)
	rec.CustomInstructions = strings.TrimSpace(rec.CustomInstructions)
}

// sentenceCase upper-cases the first letter and leaves the rest untouched.
func sentenceCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// truncateField trims s then cuts it at max bytes, warning when it does.
func (c *Canonicalizer) truncateField(field, s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		c.warn(field, fmt.Sprintf("%d chars", len(s)), fmt.Sprintf("truncated to %d", max))
		return cutAtRune(s, max)
	}
	return s
}

// cutAtRune truncates s to at most max bytes without splitting a rune: a
// multibyte rune straddling the cap is dropped whole, so the result is
// always valid UTF-8.
func cutAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
