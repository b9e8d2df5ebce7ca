package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/promptstitch/internal/registry"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the extensible vocabulary",
	Long: `Extend the built-in vocabulary with new personas, tones, and
output types. Additions are format-checked and persisted to the registry
file; the built-in entries cannot be removed.`,
}

var registryAddRoleCmd = &cobra.Command{
	Use:   "add-role <intent> <domain> <name>",
	Short: "Register a persona for an intent and domain pair",
	Args:  cobra.ExactArgs(3),
	RunE:  runRegistryAddRole,
}

var (
	toneDescriptor string

	registryAddToneCmd = &cobra.Command{
		Use:   "add-tone <name>",
		Short: "Register a tone with its descriptor",
		Args:  cobra.ExactArgs(1),
		RunE:  runRegistryAddTone,
	}
)

var (
	formatSpec        string
	formatEnhancement string

	registryAddFormatCmd = &cobra.Command{
		Use:   "add-format <name>",
		Short: "Register an output type with its format specification",
		Args:  cobra.ExactArgs(1),
		RunE:  runRegistryAddFormat,
	}
)

var registryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current vocabulary",
	RunE:  runRegistryShow,
}

var registryWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the registry file whenever it changes on disk",
	RunE:  runRegistryWatch,
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryAddRoleCmd, registryAddToneCmd, registryAddFormatCmd, registryShowCmd, registryWatchCmd)

	registryAddToneCmd.Flags().StringVar(&toneDescriptor, "descriptor", "", "Short description of the tone's voice (required)")
	_ = registryAddToneCmd.MarkFlagRequired("descriptor")

	registryAddFormatCmd.Flags().StringVar(&formatSpec, "spec", "", "Format instruction text (required)")
	registryAddFormatCmd.Flags().StringVar(&formatEnhancement, "enhancement", "", "Extra instruction applied at comprehensive detail")
	_ = registryAddFormatCmd.MarkFlagRequired("spec")
}

func runRegistryAddRole(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	intent := schema.IntentType(args[0])
	domain := schema.TaskDomain(args[1])
	if err := a.registry.Roles.Add(intent, domain, args[2]); err != nil {
		return err
	}
	if err := a.registry.SaveFile(a.cfg.RegistryPath); err != nil {
		return err
	}

	fmt.Printf("Registered role %q for %s/%s (registry v%d)\n",
		args[2], intent, domain, a.registry.Roles.Version())
	return nil
}

func runRegistryAddTone(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.registry.Tones.Add(args[0], toneDescriptor); err != nil {
		return err
	}
	if err := a.registry.SaveFile(a.cfg.RegistryPath); err != nil {
		return err
	}

	fmt.Printf("Registered tone %q\n", args[0])
	return nil
}

func runRegistryAddFormat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.registry.OutputTypes.Add(args[0], formatSpec, formatEnhancement); err != nil {
		return err
	}
	if err := a.registry.SaveFile(a.cfg.RegistryPath); err != nil {
		return err
	}

	fmt.Printf("Registered output type %q\n", args[0])
	return nil
}

func runRegistryWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := registry.NewWatcher(a.cfg.RegistryPath, a.registry, a.sink)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (ctrl-c to stop)\n", a.cfg.RegistryPath)
	<-ctx.Done()
	return nil
}

func runRegistryShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println("Tones:")
	for _, name := range a.registry.Tones.Names() {
		desc, _ := a.registry.Tones.Descriptor(name)
		fmt.Printf("  %-16s %s\n", name, desc)
	}

	fmt.Println("\nOutput types:")
	for _, name := range a.registry.OutputTypes.Names() {
		fmt.Printf("  %s\n", name)
	}

	fmt.Printf("\nRoles (v%d):\n", a.registry.Roles.Version())
	for _, intent := range schema.IntentTypes() {
		for _, domain := range schema.TaskDomains() {
			if role := a.registry.Roles.Role(intent, domain); role != "" {
				fmt.Printf("  %-10s %-12s %s\n", intent, domain, role)
			}
		}
	}
	return nil
}
