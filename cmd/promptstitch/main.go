package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagStrict  bool
	flagUserID  string
)

var rootCmd = &cobra.Command{
	Use:   "promptstitch",
	Short: "Compile structured intent into versioned LLM prompts",
	Long: `promptstitch turns partial, untrusted input into a complete,
tier-appropriate prompt with deterministic identity metadata.

Input may come from flags or from a JSON document; either way it is
canonicalized against the closed vocabulary, gated by subscription tier,
assembled into blocks, and stamped with a content hash and version id.`,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log pipeline events to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Fail when a custom template cannot be honored instead of falling back")
	rootCmd.PersistentFlags().StringVar(&flagUserID, "user", "local", "User identity for quotas and the prompt library")
}
