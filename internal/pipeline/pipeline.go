// Package pipeline wires the full compilation path: canonicalize, gate,
// version, assemble. It is the module's primary API surface.
package pipeline

import (
	"math/rand"

	"github.com/ChamsBouzaiene/promptstitch/internal/assembly"
	"github.com/ChamsBouzaiene/promptstitch/internal/canon"
	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/gate"
	"github.com/ChamsBouzaiene/promptstitch/internal/mutate"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
	"github.com/ChamsBouzaiene/promptstitch/internal/version"
)

// PromptOutput is the externally visible result bundle. It is immutable
// and re-derivable: re-running the pipeline on Input yields the same
// prompt text and the same input hash (with a fresh version identifier).
type PromptOutput struct {
	Prompt   string             `json:"prompt"`
	Metadata version.Metadata   `json:"metadata"`
	Input    schema.InputRecord `json:"input_used"`
}

// Options configures a Generator. Zero values select the built-in
// vocabulary, a nop sink, and the default version tags.
type Options struct {
	Sink  events.Sink
	Vocab canon.VocabSource

	Roles   assembly.RoleResolver
	Formats assembly.FormatProvider

	// Templates holds custom templates; nil creates an empty registry.
	Templates *assembly.TemplateRegistry
	// StrictTemplates rejects unhonorable custom-template requests
	// instead of falling back to the standard tier path.
	StrictTemplates bool

	TemplateVersion string
	EngineVersion   string

	// Rand seeds variant sampling; nil uses the global source.
	Rand *rand.Rand
}

// Generator runs the compilation pipeline. Each call is an independent,
// synchronous transformation over its own record; a Generator is safe for
// concurrent use.
type Generator struct {
	canon     *canon.Canonicalizer
	gate      *gate.Gate
	selector  *assembly.Selector
	versioner *version.Generator
	variants  *mutate.VariantGenerator
	mutator   *mutate.Engine
	sink      events.Sink
}

// New builds a Generator from options.
func New(opts Options) *Generator {
	sink := opts.Sink
	if sink == nil {
		sink = events.NopSink{}
	}

	canonicalizer := canon.New(sink)
	canonicalizer.Vocab = opts.Vocab

	asm := &assembly.Assembler{Roles: opts.Roles, Formats: opts.Formats}

	templates := opts.Templates
	if templates == nil {
		templates = assembly.NewTemplateRegistry()
	}
	selector := &assembly.Selector{
		Assembler: asm,
		Templates: templates,
		Sink:      sink,
		Strict:    opts.StrictTemplates,
	}

	versioner := version.NewGenerator()
	if opts.TemplateVersion != "" {
		versioner.TemplateVersion = opts.TemplateVersion
	}
	if opts.EngineVersion != "" {
		versioner.EngineVersion = opts.EngineVersion
	}

	tierGate := gate.New(sink)
	mutator := mutate.NewEngine(versioner, sink)
	// Mutation accepts the same extended vocabulary canonicalization does.
	mutator.Vocab = opts.Vocab

	return &Generator{
		canon:     canonicalizer,
		gate:      tierGate,
		selector:  selector,
		versioner: versioner,
		mutator:   mutator,
		variants: &mutate.VariantGenerator{
			Engine:   mutator,
			Gate:     tierGate,
			Selector: selector,
			Rand:     opts.Rand,
		},
		sink: sink,
	}
}

// Templates exposes the custom template registry for registration.
func (g *Generator) Templates() *assembly.TemplateRegistry {
	return g.selector.Templates
}

// GenerateOptions carries per-request context.
type GenerateOptions struct {
	UserID         string
	SessionID      string
	CustomTemplate string
}

// GeneratePrompt compiles partial input into a prompt package, emitting a
// fire-and-forget analytics event. Canonicalization errors propagate
// verbatim; they are the only failure path besides strict-mode template
// rejection.
func (g *Generator) GeneratePrompt(partial schema.PartialInput, userID, sessionID string) (*PromptOutput, error) {
	return g.Generate(partial, GenerateOptions{UserID: userID, SessionID: sessionID})
}

// Generate is GeneratePrompt with an optional custom template.
func (g *Generator) Generate(partial schema.PartialInput, opts GenerateOptions) (*PromptOutput, error) {
	rec, err := g.canon.Canonicalize(partial)
	if err != nil {
		return nil, err
	}

	rec = g.gate.Apply(rec)

	// Identity is computed over the post-gating canonical input, so two
	// requests that gate to the same record share a hash.
	metadata := g.versioner.Version(rec)

	prompt, err := g.selector.Select(rec, opts.CustomTemplate)
	if err != nil {
		return nil, err
	}

	events.Emit(g.sink, events.KindPromptGenerated, map[string]any{
		"user_id":    opts.UserID,
		"session_id": opts.SessionID,
		"version_id": metadata.VersionID,
		"tier":       string(rec.ComplexityTier),
	})

	return &PromptOutput{
		Prompt:   prompt,
		Metadata: metadata,
		Input:    rec,
	}, nil
}

// Mutate applies a single named operator to an already-canonical record.
func (g *Generator) Mutate(rec schema.InputRecord, op mutate.Operator, p mutate.Params) (schema.InputRecord, version.MutationRecord, error) {
	return g.mutator.Mutate(rec, op, p)
}

// GenerateVariants derives lineage-tracked sibling prompts from an
// already-canonicalized, gated record.
func (g *Generator) GenerateVariants(rec schema.InputRecord, count int) ([]mutate.Variant, error) {
	return g.variants.Generate(rec, count)
}
