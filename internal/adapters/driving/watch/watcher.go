// Package watch turns a folder into a drop target: PDFs that appear in it
// are selected and ingested through the ingestion controller.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// DefaultSettle is how long a file must be quiet before it is ingested.
const DefaultSettle = 300 * time.Millisecond

// MinSettle is the shortest accepted settle period.
const MinSettle = 2 * time.Millisecond

// ErrNotDirectory is returned when the watched path is not a directory.
var ErrNotDirectory = errors.New("watch: not a directory")

// Event reports one file handled by the watcher.
type Event struct {
	// Path is the file that was handled.
	Path string

	// Skipped is true when the file was not a PDF or an upload was
	// already running.
	Skipped bool

	// Result is the ingestion outcome when the file was uploaded.
	Result driving.IngestResult

	// Status is the status text the ingestion produced.
	Status string
}

// Watcher watches one directory.
type Watcher struct {
	dir       string
	ingestion driving.IngestionController
	limiter   *rate.Limiter
	settle    time.Duration

	pending map[string]time.Time
	seen    map[string]time.Time
}

// New creates a watcher for dir. interval is the minimum time between
// uploads; zero or less means no limit.
func New(dir string, ingestion driving.IngestionController, interval time.Duration) *Watcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Watcher{
		dir:       dir,
		ingestion: ingestion,
		limiter:   rate.NewLimiter(limit, 1),
		settle:    DefaultSettle,
		pending:   make(map[string]time.Time),
		seen:      make(map[string]time.Time),
	}
}

// WithSettle overrides DefaultSettle. Non-positive values are ignored
// and positive values below MinSettle are raised to it.
func (w *Watcher) WithSettle(d time.Duration) *Watcher {
	if d <= 0 {
		return w
	}
	w.settle = max(d, MinSettle)
	return w
}

// Run watches until ctx is cancelled, calling onEvent for every handled
// file. Files already in the directory are ignored.
func (w *Watcher) Run(ctx context.Context, onEvent func(Event)) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", w.dir, ErrNotDirectory)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for PDFs", w.dir)

	tick := time.NewTicker(w.settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.pending[path] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-tick.C:
			for _, path := range w.settled(now) {
				ev, err := w.ingest(ctx, path)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
				if onEvent != nil {
					onEvent(ev)
				}
			}
		}
	}
}

// handleFsEvent returns the path to consider for an event. Hidden files,
// directories, removals and permission changes are ignored.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// settled removes and returns pending paths that have been quiet for the
// settle period.
func (w *Watcher) settled(now time.Time) []string {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

// ingest selects and uploads one file. Only a cancelled context is an error.
func (w *Watcher) ingest(ctx context.Context, path string) (Event, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Event{Path: path, Skipped: true}, nil
	}
	if mod, ok := w.seen[path]; ok && mod.Equal(info.ModTime()) {
		return Event{Path: path, Skipped: true}, nil
	}

	selected, err := w.ingestion.SelectPath(path, domain.OriginWatch)
	if err != nil || !selected {
		logger.Debug("Watch skipped %s", path)
		return Event{Path: path, Skipped: true}, nil
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return Event{}, err
	}

	result, ok := w.ingestion.Ingest(ctx)
	if !ok {
		return Event{Path: path, Skipped: true}, nil
	}
	w.seen[path] = info.ModTime()

	return Event{
		Path:   path,
		Result: result,
		Status: result.Status,
	}, nil
}
