package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/promptstitch/internal/pipeline"
)

var (
	variantCount int
	variantJSON  bool
)

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "Generate prompt variants from the same input",
	Long: `Compile the input, then derive lineage-tracked sibling prompts by
mutating one dimension at a time (tone, detail, format, persona focus).
Every variant honors the same tier restrictions as the base prompt.

Takes the same input flags as generate.

Example:
  promptstitch variants --task "Draft a refund policy for a small shop" -n 3`,
	RunE: runVariants,
}

func init() {
	rootCmd.AddCommand(variantsCmd)

	registerInputFlags(variantsCmd)
	variantsCmd.Flags().IntVarP(&variantCount, "count", "n", 3, "Number of variants (2-5)")
	variantsCmd.Flags().BoolVar(&variantJSON, "json", false, "Emit variants as JSON")
}

func runVariants(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	partial, err := readPartialInput(cmd)
	if err != nil {
		return err
	}

	base, err := a.generator.Generate(partial, pipeline.GenerateOptions{UserID: flagUserID})
	if err != nil {
		return err
	}

	variants, err := a.generator.GenerateVariants(base.Input, variantCount)
	if err != nil && len(variants) == 0 {
		return err
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: some variants failed: %v\n", err)
	}

	if variantJSON {
		data, jerr := json.MarshalIndent(variants, "", "  ")
		if jerr != nil {
			return jerr
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("=== base (%s) ===\n%s\n", base.Metadata.VersionID, base.Prompt)
	for _, v := range variants {
		fmt.Printf("\n=== %s (%s, parent %s) ===\n%s\n",
			v.Label, v.Lineage.Operator, v.Lineage.ParentVersionID, v.Prompt)
	}
	return nil
}
