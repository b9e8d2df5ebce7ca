// Package schema defines the canonical input record, its closed
// vocabularies, documented defaults, and validation bounds.
package schema

// Documented defaults for every field. Any out-of-vocabulary value is
// corrected to these before a record is considered canonical.
const (
	DefaultIntentType  = IntentCreate
	DefaultTaskDomain  = DomainBusiness
	DefaultOutputType  = OutputText
	DefaultTone        = ToneProfessional
	DefaultDetailLevel = DetailStandard
	DefaultTier        = TierFree

	// DefaultRole replaces non-empty roles that fall outside the length
	// bounds. An explicitly empty role is preserved: it triggers
	// auto-derivation from the role matrix at assembly time.
	DefaultRole = "Expert Assistant"

	DefaultTargetAudience = "general audience"
)

// Length and count bounds enforced during canonicalization.
const (
	TaskDescriptionMin = 10
	TaskDescriptionMax = 500

	RoleMin = 3
	RoleMax = 100

	ContextMax            = 1000
	ExampleTextMax        = 2000
	TargetAudienceMax     = 100
	CustomInstructionsMax = 500

	ConstraintMin  = 5
	ConstraintMax  = 200
	ConstraintsCap = 10

	LengthTargetMin = 50
	LengthTargetMax = 5000
)

// InputRecord is the canonical unit of work: complete, vocabulary-valid,
// normalized, and tier-consistent. Only canonical records are accepted by
// the assembler and the versioner.
type InputRecord struct {
	// Primary
	IntentType      IntentType `json:"intent_type"`
	TaskDomain      TaskDomain `json:"task_domain"`
	OutputType      OutputType `json:"output_type"`
	Tone            Tone       `json:"tone"`
	Role            string     `json:"role"`
	TaskDescription string     `json:"task_description"`

	// Secondary
	ContextProvided  string      `json:"context_provided"`
	Constraints      []string    `json:"constraints"`
	ExamplesIncluded bool        `json:"examples_included"`
	ExampleText      string      `json:"example_text"`
	DetailLevel      DetailLevel `json:"detail_level"`
	TargetAudience   string      `json:"target_audience"`

	// Tier-gated
	ComplexityTier     Tier   `json:"complexity_tier"`
	CustomInstructions string `json:"custom_instructions"`
	MultiStepEnabled   bool   `json:"multi_step_enabled"`
	ChainOfThought     bool   `json:"chain_of_thought"`
	// OutputLengthTarget is a word-count target; zero means unset.
	OutputLengthTarget int `json:"output_length_target"`
}

// Clone returns a deep copy; the constraints slice is the only reference
// field.
func (r InputRecord) Clone() InputRecord {
	out := r
	out.Constraints = append([]string(nil), r.Constraints...)
	return out
}

// Defaults returns the documented default record. The task description
// default is intentionally empty: it is the one required field.
func Defaults() InputRecord {
	return InputRecord{
		IntentType:      DefaultIntentType,
		TaskDomain:      DefaultTaskDomain,
		OutputType:      DefaultOutputType,
		Tone:            DefaultTone,
		Role:            DefaultRole,
		TaskDescription: "",

		ContextProvided:  "",
		Constraints:      []string{},
		ExamplesIncluded: false,
		ExampleText:      "",
		DetailLevel:      DefaultDetailLevel,
		TargetAudience:   DefaultTargetAudience,

		ComplexityTier:     DefaultTier,
		CustomInstructions: "",
		MultiStepEnabled:   false,
		ChainOfThought:     false,
		OutputLengthTarget: 0,
	}
}

// PartialInput is the untrusted, possibly-incomplete caller input. Pointer
// fields distinguish "omitted" (nil, merged over the default) from
// "explicitly set" (including explicitly empty, which for Role selects
// matrix auto-derivation). Enumerated fields are raw strings; they are
// coerced during canonicalization, never trusted.
type PartialInput struct {
	IntentType      *string `json:"intent_type,omitempty"`
	TaskDomain      *string `json:"task_domain,omitempty"`
	OutputType      *string `json:"output_type,omitempty"`
	Tone            *string `json:"tone,omitempty"`
	Role            *string `json:"role,omitempty"`
	TaskDescription *string `json:"task_description,omitempty"`

	ContextProvided  *string  `json:"context_provided,omitempty"`
	Constraints      []string `json:"constraints,omitempty"`
	ExamplesIncluded *bool    `json:"examples_included,omitempty"`
	ExampleText      *string  `json:"example_text,omitempty"`
	DetailLevel      *string  `json:"detail_level,omitempty"`
	TargetAudience   *string  `json:"target_audience,omitempty"`

	ComplexityTier     *string `json:"complexity_tier,omitempty"`
	CustomInstructions *string `json:"custom_instructions,omitempty"`
	MultiStepEnabled   *bool   `json:"multi_step_enabled,omitempty"`
	ChainOfThought     *bool   `json:"chain_of_thought,omitempty"`
	// OutputLengthTarget accepts any JSON value; non-numeric or
	// out-of-range values are discarded during canonicalization.
	OutputLengthTarget any `json:"output_length_target,omitempty"`
}

// Partial converts a record back into the partial form, with every field
// explicitly set. Canonicalization of the result is a fixed point.
func (r InputRecord) Partial() PartialInput {
	p := PartialInput{
		IntentType:         String(string(r.IntentType)),
		TaskDomain:         String(string(r.TaskDomain)),
		OutputType:         String(string(r.OutputType)),
		Tone:               String(string(r.Tone)),
		Role:               String(r.Role),
		TaskDescription:    String(r.TaskDescription),
		ContextProvided:    String(r.ContextProvided),
		Constraints:        append([]string(nil), r.Constraints...),
		ExamplesIncluded:   Bool(r.ExamplesIncluded),
		ExampleText:        String(r.ExampleText),
		DetailLevel:        String(string(r.DetailLevel)),
		TargetAudience:     String(r.TargetAudience),
		ComplexityTier:     String(string(r.ComplexityTier)),
		CustomInstructions: String(r.CustomInstructions),
		MultiStepEnabled:   Bool(r.MultiStepEnabled),
		ChainOfThought:     Bool(r.ChainOfThought),
	}
	if r.OutputLengthTarget != 0 {
		p.OutputLengthTarget = r.OutputLengthTarget
	}
	return p
}

// String returns a pointer to s, for building PartialInput literals.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
