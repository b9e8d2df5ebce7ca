package assembly

import (
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// qualityStandards is the fixed enterprise footer.
const qualityStandards = `Quality Standards:
- Ensure accuracy and completeness
- Cross-reference with provided context
- Validate against all constraints before finalizing`

// TemplateAccessError reports a custom template request that could not be
// honored while strict mode is on.
type TemplateAccessError struct {
	Name         string
	RequiredTier schema.Tier
	UserTier     schema.Tier
	NotFound     bool
}

func (e *TemplateAccessError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("custom template %q is not registered", e.Name)
	}
	return fmt.Sprintf("custom template %q requires tier %s, caller has %s", e.Name, e.RequiredTier, e.UserTier)
}

// Selector chooses the tier-specific rendering of a canonical record,
// optionally dispatching to a registered custom template first.
type Selector struct {
	Assembler *Assembler
	Templates *TemplateRegistry
	Sink      events.Sink

	// Strict rejects unknown or under-tiered custom template requests
	// instead of falling back to the standard path.
	Strict bool
}

func NewSelector(asm *Assembler, sink events.Sink) *Selector {
	return &Selector{
		Assembler: asm,
		Templates: NewTemplateRegistry(),
		Sink:      sink,
	}
}

// Select renders the prompt for a canonical record. customName may be
// empty. On a custom-template miss the default behavior is
// warn-and-fallback; strict mode rejects instead.
func (s *Selector) Select(rec schema.InputRecord, customName string) (string, error) {
	if customName != "" {
		prompt, handled, err := s.selectCustom(rec, customName)
		if err != nil {
			return "", err
		}
		if handled {
			return prompt, nil
		}
	}

	switch rec.ComplexityTier {
	case schema.TierEnterprise:
		return s.enterpriseTemplate(rec), nil
	case schema.TierPro:
		return s.advancedTemplate(rec), nil
	default:
		return s.baseTemplate(rec), nil
	}
}

func (s *Selector) selectCustom(rec schema.InputRecord, name string) (string, bool, error) {
	var tmpl *CustomTemplate
	var ok bool
	if s.Templates != nil {
		tmpl, ok = s.Templates.Get(name)
	}

	if !ok {
		if s.Strict {
			return "", false, &TemplateAccessError{Name: name, NotFound: true}
		}
		events.Emit(s.Sink, events.KindTemplateFallback, map[string]any{
			"template": name,
			"reason":   "not_registered",
		})
		return "", false, nil
	}

	if !rec.ComplexityTier.AtLeast(tmpl.Tier) {
		if s.Strict {
			return "", false, &TemplateAccessError{Name: name, RequiredTier: tmpl.Tier, UserTier: rec.ComplexityTier}
		}
		events.Emit(s.Sink, events.KindTemplateFallback, map[string]any{
			"template":      name,
			"reason":        "tier_insufficient",
			"required_tier": string(tmpl.Tier),
			"user_tier":     string(rec.ComplexityTier),
		})
		return "", false, nil
	}

	return tmpl.Render(rec), true, nil
}

// baseTemplate: the free tier gets the assembled blocks verbatim.
func (s *Selector) baseTemplate(rec schema.InputRecord) string {
	return s.Assembler.Assemble(rec)
}

// advancedTemplate: pro adds an Additional Instructions section when custom
// instructions survive gating.
func (s *Selector) advancedTemplate(rec schema.InputRecord) string {
	prompt := s.Assembler.Assemble(rec)
	if instructions := strings.TrimSpace(rec.CustomInstructions); instructions != "" {
		prompt += "\n\nAdditional Instructions:\n" + instructions
	}
	return prompt
}

// enterpriseTemplate: the role sentence is rebuilt structurally (not by
// substring replacement) with the expertise qualifier, then process
// requirements, additional instructions, and the quality footer are
// appended.
func (s *Selector) enterpriseTemplate(rec schema.InputRecord) string {
	blocks := s.Assembler.Blocks(rec)
	blocks.Role = fmt.Sprintf("You are a %s with deep expertise in %s.", s.Assembler.ResolveRole(rec), rec.TaskDomain)
	prompt := blocks.Join()

	var reqs []string
	if rec.ChainOfThought {
		reqs = append(reqs, "- Show reasoning process before final answer (Chain of Thought)")
	}
	if rec.MultiStepEnabled {
		reqs = append(reqs, "- Number each step clearly (Sequential Process)")
	}
	if len(reqs) > 0 {
		prompt += "\n\nProcess Requirements:\n" + strings.Join(reqs, "\n")
	}

	if instructions := strings.TrimSpace(rec.CustomInstructions); instructions != "" {
		prompt += "\n\nAdditional Instructions:\n" + instructions
	}

	prompt += "\n\n" + qualityStandards
	return prompt
}
