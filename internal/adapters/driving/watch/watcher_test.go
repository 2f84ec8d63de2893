package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/services"
)

// mockAPI implements driven.CopilotAPI for testing.
type mockAPI struct {
	mu      sync.Mutex
	uploads []string
}

func (m *mockAPI) Ingest(_ context.Context, c domain.UploadCandidate) (domain.DocumentRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, c.Name)
	return domain.DocumentRef{ID: "doc-" + c.Name, Chunks: 4}, nil
}

func (m *mockAPI) Query(context.Context, domain.QueryRequest) (domain.QueryOutcome, error) {
	return domain.QueryOutcome{}, nil
}

func (m *mockAPI) BaseURL() string { return "http://localhost:8000" }

func (m *mockAPI) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

// extInspector treats .pdf files as PDFs.
type extInspector struct{}

func (extInspector) Inspect(path string) (domain.UploadCandidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadCandidate{}, err
	}
	mediaType := "text/plain"
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		mediaType = domain.MediaTypePDF
	}
	return domain.UploadCandidate{
		Name:      filepath.Base(path),
		Path:      path,
		MediaType: mediaType,
		Size:      info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func newIngestion(api *mockAPI) *services.IngestionService {
	svc := services.NewIngestionService(api, domain.ZeroChunkKeep)
	svc.SetDocumentInspector(extInspector{})
	return svc
}

func TestRun_IngestsDroppedPDF(t *testing.T) {
	dir := t.TempDir()
	api := &mockAPI{}
	ingestion := newIngestion(api)
	w := New(dir, ingestion, 0).WithSettle(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(e Event) { events <- e })
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policy.pdf"), []byte("%PDF-1.7"), 0o600))

	deadline := time.After(3 * time.Second)
	var ingested *Event
	for ingested == nil {
		select {
		case e := <-events:
			if !e.Skipped {
				ingested = &e
			}
		case <-deadline:
			t.Fatal("timeout waiting for ingestion")
		}
	}

	assert.Equal(t, filepath.Join(dir, "policy.pdf"), ingested.Path)
	assert.True(t, ingested.Result.Activated)
	assert.Equal(t, "Ingested: doc-policy.pdf (chunks: 4, ocr pages: 0)", ingested.Status)
	assert.Equal(t, "doc-policy.pdf", ingestion.ActiveDocument().ID)
	assert.Equal(t, 1, api.count())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	err := New(file, newIngestion(&mockAPI{}), 0).Run(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestRun_MissingDirectory(t *testing.T) {
	err := New(filepath.Join(t.TempDir(), "nope"), newIngestion(&mockAPI{}), 0).Run(context.Background(), nil)

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "policy.pdf")
	hidden := filepath.Join(dir, ".policy.pdf")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(sub, 0o755))

	w := New(dir, newIngestion(&mockAPI{}), 0)

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"create file", file, fsnotify.Create, true},
		{"write file", file, fsnotify.Write, true},
		{"remove file", file, fsnotify.Remove, false},
		{"rename file", file, fsnotify.Rename, false},
		{"chmod file", file, fsnotify.Chmod, false},
		{"hidden file", hidden, fsnotify.Create, false},
		{"directory", sub, fsnotify.Create, false},
		{"vanished file", filepath.Join(dir, "gone.pdf"), fsnotify.Create, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}

func TestSettled(t *testing.T) {
	w := New(t.TempDir(), newIngestion(&mockAPI{}), 0).WithSettle(100 * time.Millisecond)
	now := time.Now()
	w.pending["old.pdf"] = now.Add(-200 * time.Millisecond)
	w.pending["new.pdf"] = now.Add(-10 * time.Millisecond)

	ready := w.settled(now)

	assert.Equal(t, []string{"old.pdf"}, ready)
	assert.Contains(t, w.pending, "new.pdf")
	assert.NotContains(t, w.pending, "old.pdf")
}

func TestIngest_SkipsUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	api := &mockAPI{}
	w := New(dir, newIngestion(api), 0)

	first, err := w.ingest(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, first.Skipped)

	second, err := w.ingest(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, 1, api.count())
}

func TestIngest_NonPDFIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	api := &mockAPI{}
	ev, err := New(dir, newIngestion(api), 0).ingest(context.Background(), path)

	require.NoError(t, err)
	assert.True(t, ev.Skipped)
	assert.Zero(t, api.count())
}

func TestIngest_CancelledWhileRateLimited(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	require.NoError(t, os.WriteFile(a, []byte("%PDF"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("%PDF"), 0o600))

	api := &mockAPI{}
	w := New(dir, newIngestion(api), time.Hour)

	_, err := w.ingest(context.Background(), a)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = w.ingest(ctx, b)

	assert.Error(t, err)
	assert.Equal(t, 1, api.count())
}

func TestWatcher_WithSettle(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"zero keeps default", 0, DefaultSettle},
		{"negative keeps default", -time.Second, DefaultSettle},
		{"below minimum is raised", time.Nanosecond, MinSettle},
		{"regular value", 50 * time.Millisecond, 50 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(t.TempDir(), newIngestion(&mockAPI{}), 0).WithSettle(tt.in)
			assert.Equal(t, tt.want, w.settle)
		})
	}
}

func TestWatcher_Run_TinySettleDoesNotPanic(t *testing.T) {
	for _, d := range []time.Duration{0, time.Nanosecond} {
		w := New(t.TempDir(), newIngestion(&mockAPI{}), 0).WithSettle(d)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.NotPanics(t, func() {
			assert.NoError(t, w.Run(ctx, func(Event) {}))
		})
	}
}
