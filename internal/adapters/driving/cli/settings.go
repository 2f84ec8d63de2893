package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change persisted settings.

Values resolve as flag > environment (including .env) > config file > default.
COPILOT_API_BASE (or NEXT_PUBLIC_API_BASE) and COPILOT_PRIVACY are read from
the environment.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Persist a setting",
	Long: `Persist a setting to the config file.

Settings:
  api-base           copilot API base URL
  timeout            per-call timeout in seconds (0 = none)
  privacy            strict or standard
  zero-chunk-policy  keep or clear the active document after an empty ingestion
  watch-interval     minimum milliseconds between uploads in watch mode`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <name>",
	Short: "Remove a persisted setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, resolveErr := requireSettings()
	if svc == nil {
		return resolveErr
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	if resolveErr == nil {
		r := svc.Resolved

		cmd.Println("[API]")
		cmd.Printf("  Base URL: %s\n", r.BaseURL)
		cmd.Printf("  Timeout: %s\n", formatTimeout(r.Timeout))
		cmd.Println()

		cmd.Println("[Query]")
		cmd.Printf("  Privacy: %s\n", r.Privacy.Label())
		cmd.Println()

		cmd.Println("[Ingest]")
		cmd.Printf("  Zero-chunk policy: %s\n", r.ZeroChunkPolicy)
		cmd.Println()

		cmd.Println("[Watch]")
		cmd.Printf("  Min interval: %s\n", r.WatchInterval)
		cmd.Println()
	}

	cmd.Printf("Config file: %s\n", svc.Settings.ConfigPath())
	persisted := svc.Settings.Persisted()
	if len(persisted) == 0 {
		cmd.Println("  (no persisted settings)")
	} else {
		names := make([]string, 0, len(persisted))
		for name := range persisted {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cmd.Printf("  %s = %v\n", name, persisted[name])
		}
	}
	cmd.Println()

	if resolveErr != nil {
		cmd.Printf("Warning: %v\n", resolveErr)
		cmd.Println("Run 'copilot settings set <name> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, _ := requireSettings()
	if svc == nil {
		return ErrNotConfigured
	}

	name, value := args[0], args[1]
	if err := svc.Settings.Set(name, value); err != nil {
		return fmt.Errorf("failed to set %s: %w (settings: %s)", name, err, strings.Join(svc.Settings.Names(), ", "))
	}

	cmd.Printf("Set %s to %s\n", name, value)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	svc, _ := requireSettings()
	if svc == nil {
		return ErrNotConfigured
	}

	if err := svc.Settings.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}

	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func formatTimeout(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}
