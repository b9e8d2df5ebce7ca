package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/promptstitch/internal/gate"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the saved prompt library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved prompts, newest first",
	RunE:  runLibraryList,
}

var librarySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over saved prompts",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibrarySearch,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a saved prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryDelete,
}

var (
	quotaTier string

	quotaCmd = &cobra.Command{
		Use:   "quota",
		Short: "Show usage against the tier limits",
		RunE:  runQuota,
	}
)

var searchLimit int

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd, librarySearchCmd, libraryShowCmd, libraryDeleteCmd)

	librarySearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum results")

	rootCmd.AddCommand(quotaCmd)
	quotaCmd.Flags().StringVar(&quotaTier, "tier", "free", "Tier to evaluate limits against")
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.library(cmd.Context())
	if err != nil {
		return err
	}

	prompts, err := store.List(cmd.Context(), flagUserID)
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		fmt.Println("No saved prompts")
		return nil
	}

	for _, p := range prompts {
		fmt.Printf("%s  %s  [%s]  %s\n",
			p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.Tier, p.Title)
	}
	return nil
}

func runLibrarySearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.library(cmd.Context())
	if err != nil {
		return err
	}

	results, err := store.Search(args[0], flagUserID, searchLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. %s  [score: %.2f]  %s\n", i+1, r.ID, r.Score, r.Title)
	}
	return nil
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.library(cmd.Context())
	if err != nil {
		return err
	}

	saved, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("# %s\n\n%s\n", saved.Title, saved.Prompt)
	return nil
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.library(cmd.Context())
	if err != nil {
		return err
	}

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted", args[0])
	return nil
}

func runQuota(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.library(cmd.Context())
	if err != nil {
		return err
	}

	tier, ok := schema.CoerceTier(quotaTier)
	if !ok {
		return fmt.Errorf("unknown tier %q", quotaTier)
	}

	for _, kind := range []gate.QuotaKind{gate.QuotaPromptsPerDay, gate.QuotaSavedPrompts, gate.QuotaMaxPromptLength} {
		status, err := store.QuotaStatus(cmd.Context(), flagUserID, tier, kind)
		if err != nil {
			return err
		}
		if status.IsUnlimited {
			fmt.Printf("%-18s unlimited\n", status.QuotaType)
			continue
		}
		fmt.Printf("%-18s %d / %d\n", status.QuotaType, status.CurrentUsage, status.Limit)
	}
	return nil
}
