package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/promptstitch/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Compile a batch of inputs from a JSON file",
	Long: `Compile every item in a JSON array of batch items. Items are
processed independently; a failing item reports its error without
aborting the rest.

Each item has an optional "input_id" and an "input" object in the same
shape generate --input accepts. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var raw []byte
	if args[0] == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read batch file: %w", err)
	}

	var items []pipeline.BatchItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to parse batch file: %w", err)
	}

	results := a.generator.BatchGenerate(items)

	type resultView struct {
		InputID string                 `json:"input_id"`
		Output  *pipeline.PromptOutput `json:"output,omitempty"`
		Error   string                 `json:"error,omitempty"`
	}
	views := make([]resultView, 0, len(results))
	failed := 0
	for _, r := range results {
		v := resultView{InputID: r.InputID, Output: r.Output}
		if r.Err != nil {
			v.Error = r.Err.Error()
			failed++
		}
		views = append(views, v)
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d items failed\n", failed, len(results))
	}
	return nil
}
