// Package cli provides the copilot command tree.
package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// version is set at build time.
var version = "dev"

// ErrNotConfigured is returned when a command runs before services are wired.
var ErrNotConfigured = errors.New("cli: services not configured")

// Global flags.
var (
	verbose       bool
	configDir     string
	apiBaseFlag   string
	privacyFlag   string
	zeroChunkFlag string
)

// Options carries global flags to the Builder.
type Options struct {
	// ConfigDir overrides the config directory. Empty means the default.
	ConfigDir string

	// Overrides are flag values; empty fields are unset.
	Overrides driving.SettingOverrides
}

// Services is everything the commands drive.
type Services struct {
	Ingestion driving.IngestionController
	Query     driving.QueryController
	Settings  driving.SettingsService

	// Resolved is the effective configuration.
	Resolved domain.ClientSettings

	// Metrics serves Prometheus metrics. Optional.
	Metrics http.Handler

	// NewQuery builds a query controller scoped to a fixed document source.
	NewQuery func(docs driving.ActiveDocumentSource, privacy domain.PrivacyMode) driving.QueryController
}

// Builder wires Services from the global flags. When settings fail to
// resolve it may return Services holding only Settings together with the
// error, so the settings command can still repair the config.
type Builder func(opts Options) (*Services, error)

var (
	builder     Builder
	services    *Services
	servicesErr error
)

// isTerminal reports whether the process is attached to an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "copilot",
	Short: "Glass-box RAG copilot for compliance documents",
	Long: `Ingest PDFs into the copilot backend and ask questions answered with
verifiable citations, trace ids and groundedness scores.

Run without a subcommand in a terminal to open the interactive UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runRoot,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	flags.StringVar(&configDir, "config-dir", "", "config directory (default ~/.copilot)")
	flags.StringVar(&apiBaseFlag, "api-base", "", "copilot API base URL")
	flags.StringVar(&privacyFlag, "privacy", "", "initial privacy mode: strict or standard")
	flags.StringVar(&zeroChunkFlag, "zero-chunk-policy", "", "active document after an empty ingestion: keep or clear")
}

// SetBuilder sets the function that wires services on first use.
func SetBuilder(b Builder) {
	builder = b
	services = nil
	servicesErr = nil
}

// SetServices injects ready-made services, bypassing the Builder.
func SetServices(s *Services) {
	services = s
	servicesErr = nil
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return cmd.Help()
	}
	return runTUI(cmd, args)
}

// loadServices builds services once per process.
func loadServices() (*Services, error) {
	if services != nil || servicesErr != nil {
		return services, servicesErr
	}
	if builder == nil {
		return nil, ErrNotConfigured
	}

	services, servicesErr = builder(Options{
		ConfigDir: configDir,
		Overrides: driving.SettingOverrides{
			BaseURL:         apiBaseFlag,
			Privacy:         privacyFlag,
			ZeroChunkPolicy: zeroChunkFlag,
		},
	})
	return services, servicesErr
}

// requireServices returns fully wired services or an error.
func requireServices() (*Services, error) {
	s, err := loadServices()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if s == nil || s.Ingestion == nil || s.Query == nil {
		return nil, ErrNotConfigured
	}
	return s, nil
}

// requireSettings returns services with at least Settings wired. A
// resolution error is returned alongside so callers can report it.
func requireSettings() (*Services, error) {
	s, err := loadServices()
	if s == nil || s.Settings == nil {
		if err == nil {
			err = ErrNotConfigured
		}
		return nil, err
	}
	return s, err
}
