package mcp

import (
	"context"
	"io"
	"math"
	"os"
	"strings"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/services"
)

// mockCopilotAPI implements driven.CopilotAPI for testing.
type mockCopilotAPI struct {
	doc       domain.DocumentRef
	ingestErr error
	outcome   domain.QueryOutcome
	queryErr  error
	requests  []domain.QueryRequest
}

func (m *mockCopilotAPI) Ingest(_ context.Context, _ domain.UploadCandidate) (domain.DocumentRef, error) {
	return m.doc, m.ingestErr
}

func (m *mockCopilotAPI) Query(_ context.Context, req domain.QueryRequest) (domain.QueryOutcome, error) {
	m.requests = append(m.requests, req)
	return m.outcome, m.queryErr
}

func (m *mockCopilotAPI) BaseURL() string {
	return "http://localhost:8000"
}

// mockInspector implements driven.DocumentInspector for testing.
// Paths ending in .pdf are PDFs; /missing paths do not exist.
type mockInspector struct{}

func (mockInspector) Inspect(path string) (domain.UploadCandidate, error) {
	if strings.HasPrefix(path, "/missing") {
		return domain.UploadCandidate{}, os.ErrNotExist
	}
	mediaType := "text/plain"
	if strings.HasSuffix(path, ".pdf") {
		mediaType = domain.MediaTypePDF
	}
	return domain.UploadCandidate{
		Name:      path[strings.LastIndex(path, "/")+1:],
		Path:      path,
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("%PDF")), nil
		},
	}, nil
}

func newTestPorts(api *mockCopilotAPI) *Ports {
	ingestion := services.NewIngestionService(api, domain.ZeroChunkKeep)
	ingestion.SetDocumentInspector(mockInspector{})
	return &Ports{
		Ingestion: ingestion,
		Query:     services.NewQueryService(api, ingestion, domain.PrivacyStrict),
	}
}

func exampleOutcome() domain.QueryOutcome {
	trace := "tr-42"
	g := 0.88
	return domain.QueryOutcome{
		Answer: "Records are kept for seven years.",
		Citations: []domain.Citation{
			{Source: "policy.pdf", PageNumber: 4, Text: "seven years", Score: 0.91},
			{Source: "policy.pdf", PageNumber: 9, Text: "retention", Score: math.NaN()},
		},
		TraceID:      &trace,
		Groundedness: &g,
	}
}
