package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/tui"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for the copilot.

Select a PDF with the file picker or drop it onto the terminal window,
ingest it, then ask questions. Answers show their citations, trace id
and groundedness.

Controls:
  ctrl+o   - Choose a PDF
  ctrl+u   - Ingest the selected PDF
  enter    - Ask the question
  ctrl+p   - Toggle strict privacy
  ↑/↓      - Scroll citations
  f1       - Help
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	svc, err := requireServices()
	if err != nil {
		return err
	}

	ports := tui.NewPorts(svc.Ingestion, svc.Query)
	ports.Endpoint = svc.Resolved.BaseURL

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	restore := logger.Suspend()
	defer restore()

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
