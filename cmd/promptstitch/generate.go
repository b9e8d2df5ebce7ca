package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/promptstitch/internal/gate"
	"github.com/ChamsBouzaiene/promptstitch/internal/pipeline"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

var (
	genTask        string
	genIntent      string
	genDomain      string
	genOutput      string
	genTone        string
	genRole        string
	genTier        string
	genDetail      string
	genContext     string
	genAudience    string
	genConstraints []string
	genInstr       string
	genMultiStep   bool
	genCoT         bool
	genLength      int
	genInputFile   string
	genTemplate    string
	genJSON        bool
	genSave        string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile input into a prompt package",
	Long: `Compile partial input into a complete prompt.

Input comes from flags, or from a JSON document with --input (use "-" for
stdin). JSON input is schema-checked before decoding; flag input goes
straight into the pipeline. Only task description is required; everything
else is defaulted, corrected, or tier-gated as needed.

Example:
  promptstitch generate --task "Write a launch announcement for our API" \
    --domain marketing --intent create --tier pro
  cat request.json | promptstitch generate --input -`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	registerInputFlags(generateCmd)
	generateCmd.Flags().StringVar(&genTemplate, "template", "", "Custom template name")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Emit the full output package as JSON")
	generateCmd.Flags().StringVar(&genSave, "save", "", "Save the result to the library under this title")
}

// registerInputFlags defines the shared input flags on a command. The
// flags write into one set of variables, so only one command runs per
// process.
func registerInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&genTask, "task", "", "Task description (required unless --input is used)")
	cmd.Flags().StringVar(&genIntent, "intent", "", "Intent type (create, analyze, transform, extract, plan, solve)")
	cmd.Flags().StringVar(&genDomain, "domain", "", "Task domain (business, creative, technical, educational, marketing, personal)")
	cmd.Flags().StringVar(&genOutput, "output", "", "Output type (text, list, table, code, outline, json, markdown, report)")
	cmd.Flags().StringVar(&genTone, "tone", "", "Tone of voice")
	cmd.Flags().StringVar(&genRole, "role", "", "Persona; empty string derives one from intent and domain")
	cmd.Flags().StringVar(&genTier, "tier", "", "Subscription tier (free, pro, enterprise)")
	cmd.Flags().StringVar(&genDetail, "detail", "", "Detail level (brief, standard, comprehensive)")
	cmd.Flags().StringVar(&genContext, "context", "", "Background context")
	cmd.Flags().StringVar(&genAudience, "audience", "", "Target audience")
	cmd.Flags().StringArrayVar(&genConstraints, "constraint", nil, "Constraint (repeatable)")
	cmd.Flags().StringVar(&genInstr, "instructions", "", "Custom instructions (pro and enterprise)")
	cmd.Flags().BoolVar(&genMultiStep, "multi-step", false, "Request multi-step breakdown (pro and enterprise)")
	cmd.Flags().BoolVar(&genCoT, "chain-of-thought", false, "Request explicit reasoning (enterprise)")
	cmd.Flags().IntVar(&genLength, "length", 0, "Output length target in words (pro and enterprise)")
	cmd.Flags().StringVar(&genInputFile, "input", "", "Read a JSON input document instead of flags (\"-\" for stdin)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	partial, err := readPartialInput(cmd)
	if err != nil {
		return err
	}

	out, err := a.generator.Generate(partial, pipeline.GenerateOptions{
		UserID:         flagUserID,
		CustomTemplate: genTemplate,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := a.library(ctx)
	if err != nil {
		return err
	}
	if ok, err := store.CheckQuota(ctx, flagUserID, out.Input.ComplexityTier, gate.QuotaPromptsPerDay); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("daily prompt quota exhausted for tier %s", out.Input.ComplexityTier)
	}
	if err := store.RecordGeneration(ctx, flagUserID); err != nil {
		return err
	}

	if genSave != "" {
		saved, err := store.Save(ctx, flagUserID, genSave, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to library as %s\n", saved.ID)
	}

	return printOutput(out, genJSON)
}

// printOutput writes the prompt (or the whole package as JSON) to stdout.
func printOutput(out *pipeline.PromptOutput, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(out.Prompt)
	fmt.Fprintf(os.Stderr, "\nversion: %s  hash: %s  template: %s\n",
		out.Metadata.VersionID, out.Metadata.InputHash[:12], out.Metadata.TemplateVersion)
	return nil
}

// readPartialInput builds a PartialInput from --input JSON or from flags.
func readPartialInput(cmd *cobra.Command) (schema.PartialInput, error) {
	var partial schema.PartialInput

	if genInputFile != "" {
		var raw []byte
		var err error
		if genInputFile == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(genInputFile)
		}
		if err != nil {
			return partial, fmt.Errorf("failed to read input: %w", err)
		}

		if err := schema.ValidateRaw(raw); err != nil {
			return partial, err
		}
		if err := json.Unmarshal(raw, &partial); err != nil {
			return partial, fmt.Errorf("failed to parse input json: %w", err)
		}
		return partial, nil
	}

	setIf := func(dst **string, v string) {
		if v != "" {
			*dst = schema.String(v)
		}
	}
	setIf(&partial.TaskDescription, genTask)
	setIf(&partial.IntentType, genIntent)
	setIf(&partial.TaskDomain, genDomain)
	setIf(&partial.OutputType, genOutput)
	setIf(&partial.Tone, genTone)
	setIf(&partial.ComplexityTier, genTier)
	setIf(&partial.DetailLevel, genDetail)
	setIf(&partial.ContextProvided, genContext)
	setIf(&partial.TargetAudience, genAudience)
	setIf(&partial.CustomInstructions, genInstr)

	// An empty --role is meaningful: it requests matrix derivation.
	if f := cmd.Flags().Lookup("role"); f != nil && f.Changed {
		partial.Role = schema.String(genRole)
	}
	if genMultiStep {
		partial.MultiStepEnabled = schema.Bool(true)
	}
	if genCoT {
		partial.ChainOfThought = schema.Bool(true)
	}
	if genLength > 0 {
		partial.OutputLengthTarget = genLength
	}
	partial.Constraints = genConstraints

	return partial, nil
}
