package services

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCopilotAPI implements driven.CopilotAPI for testing.
type mockCopilotAPI struct {
	mu          sync.Mutex
	ingestCalls []domain.UploadCandidate
	queryCalls  []domain.QueryRequest

	doc       domain.DocumentRef
	ingestErr error
	outcome   domain.QueryOutcome
	queryErr  error
}

func (m *mockCopilotAPI) Ingest(_ context.Context, c domain.UploadCandidate) (domain.DocumentRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestCalls = append(m.ingestCalls, c)
	return m.doc, m.ingestErr
}

func (m *mockCopilotAPI) Query(_ context.Context, req domain.QueryRequest) (domain.QueryOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls = append(m.queryCalls, req)
	return m.outcome, m.queryErr
}

func (m *mockCopilotAPI) BaseURL() string {
	return "http://localhost:8000"
}

// mockMetrics implements driven.MetricsRecorder for testing.
type mockMetrics struct {
	ingests []string
	queries []string
	stale   int
}

func (m *mockMetrics) ObserveIngest(outcome string, _ int, _ time.Duration) {
	m.ingests = append(m.ingests, outcome)
}

func (m *mockMetrics) ObserveQuery(outcome string, _ int, _ time.Duration) {
	m.queries = append(m.queries, outcome)
}

func (m *mockMetrics) ObserveStaleQuery() {
	m.stale++
}

// staticDocs implements driving.ActiveDocumentSource for testing.
type staticDocs struct {
	doc *domain.DocumentRef
}

func (s *staticDocs) ActiveDocument() *domain.DocumentRef {
	return s.doc
}

// mockEnv implements driven.Environment for testing.
type mockEnv map[string]string

func (m mockEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// mockValidator implements driven.SettingsValidator for testing.
type mockValidator struct {
	err   error
	calls int
}

func (m *mockValidator) Validate(_ domain.ClientSettings) error {
	m.calls++
	return m.err
}

var (
	_ driven.CopilotAPI        = (*mockCopilotAPI)(nil)
	_ driven.MetricsRecorder   = (*mockMetrics)(nil)
	_ driven.Environment       = mockEnv(nil)
	_ driven.SettingsValidator = (*mockValidator)(nil)
)

func pdfCandidate(name string) domain.UploadCandidate {
	return domain.UploadCandidate{Name: name, MediaType: domain.MediaTypePDF, Size: 1024}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// mockInspector implements driven.DocumentInspector for testing.
type mockInspector struct {
	candidates map[string]domain.UploadCandidate
	err        error
}

func (m *mockInspector) Inspect(path string) (domain.UploadCandidate, error) {
	if m.err != nil {
		return domain.UploadCandidate{}, m.err
	}
	c, ok := m.candidates[path]
	if !ok {
		return domain.UploadCandidate{}, os.ErrNotExist
	}
	return c, nil
}

var _ driven.DocumentInspector = (*mockInspector)(nil)
