package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/watch"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

var watchMetricsAddr string

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Ingest PDFs dropped into a folder",
	Long: `Watches a folder and ingests every PDF that appears in it. Each new PDF
becomes the active document once the server reports searchable chunks.
Other files are ignored.

Uploads are spaced by the watch-interval setting.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchMetricsAddr != "" {
		if svc.Metrics == nil {
			return errors.New("metrics not configured")
		}
		go serveMetrics(ctx, watchMetricsAddr, svc.Metrics)
		cmd.Printf("Metrics on http://%s/metrics\n", displayAddr(watchMetricsAddr))
	}

	dir := args[0]
	cmd.Printf("Watching %s for PDFs (ctrl+c to stop)\n", dir)

	w := watch.New(dir, svc.Ingestion, svc.Resolved.WatchInterval)
	return w.Run(ctx, func(e watch.Event) {
		if e.Skipped {
			logger.Debug("Skipped %s", e.Path)
			return
		}
		cmd.Printf("%s: %s\n", filepath.Base(e.Path), e.Status)
	})
}

// serveMetrics runs a metrics-only HTTP server until ctx is done.
func serveMetrics(ctx context.Context, addr string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background()) //nolint:errcheck
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("metrics server: %v", err)
	}
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return fmt.Sprintf("localhost%s", addr)
	}
	return addr
}
