package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/services"
)

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("activates ingested document", func(t *testing.T) {
		api := &mockCopilotAPI{doc: domain.DocumentRef{ID: "doc-1", Chunks: 12, OCRPages: 2}}
		server, err := NewServer(newTestPorts(api))
		require.NoError(t, err)

		_, out, err := server.handleIngest(ctx, nil, IngestInput{Path: "/docs/policy.pdf"})

		require.NoError(t, err)
		assert.Equal(t, "doc-1", out.DocumentID)
		assert.Equal(t, 12, out.Chunks)
		assert.Equal(t, 2, out.OCRPages)
		assert.True(t, out.Activated)
		assert.Equal(t, "Ingested: doc-1 (chunks: 12, ocr pages: 2)", out.Status)
	})

	t.Run("zero chunks is not activated", func(t *testing.T) {
		api := &mockCopilotAPI{doc: domain.DocumentRef{ID: "doc-2"}}
		server, err := NewServer(newTestPorts(api))
		require.NoError(t, err)

		_, out, err := server.handleIngest(ctx, nil, IngestInput{Path: "/docs/scan.pdf"})

		require.NoError(t, err)
		assert.False(t, out.Activated)
		assert.Contains(t, out.Status, "not activated")
	})

	t.Run("non-pdf is rejected", func(t *testing.T) {
		server, err := NewServer(newTestPorts(&mockCopilotAPI{}))
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: "/docs/notes.txt"})

		assert.ErrorIs(t, err, domain.ErrNotPDF)
	})

	t.Run("empty path is invalid", func(t *testing.T) {
		server, err := NewServer(newTestPorts(&mockCopilotAPI{}))
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("server error surfaces status", func(t *testing.T) {
		api := &mockCopilotAPI{ingestErr: &domain.APIError{Operation: "ingest", StatusCode: 413, Detail: "file too large"}}
		server, err := NewServer(newTestPorts(api))
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: "/docs/big.pdf"})

		require.Error(t, err)
		assert.Equal(t, "Error: file too large", err.Error())
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with citations", func(t *testing.T) {
		api := &mockCopilotAPI{
			doc:     domain.DocumentRef{ID: "doc-1", Chunks: 3},
			outcome: exampleOutcome(),
		}
		server, err := NewServer(newTestPorts(api))
		require.NoError(t, err)
		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: "/docs/policy.pdf"})
		require.NoError(t, err)

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "How long?"})

		require.NoError(t, err)
		assert.Equal(t, "Records are kept for seven years.", out.Answer)
		assert.Equal(t, "tr-42", out.TraceID)
		require.NotNil(t, out.Groundedness)
		assert.InDelta(t, 0.88, *out.Groundedness, 1e-9)
		assert.Equal(t, "doc-1", out.Source)
		assert.Equal(t, "Strict", out.Privacy)
		assert.Equal(t, "Answered", out.Status)

		require.Len(t, out.Citations, 2)
		assert.Equal(t, 4, out.Citations[0].PageNumber)
		require.NotNil(t, out.Citations[0].Score)
		assert.InDelta(t, 0.91, *out.Citations[0].Score, 1e-9)
		assert.Nil(t, out.Citations[1].Score)

		require.Len(t, api.requests, 1)
		require.NotNil(t, api.requests[0].Source)
		assert.Equal(t, "doc-1", *api.requests[0].Source)
	})

	t.Run("privacy override applies to the request", func(t *testing.T) {
		api := &mockCopilotAPI{outcome: domain.QueryOutcome{Answer: "ok"}}
		server, err := NewServer(newTestPorts(api))
		require.NoError(t, err)

		strict := false
		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "q", StrictPrivacy: &strict})

		require.NoError(t, err)
		assert.Equal(t, "Standard", out.Privacy)
		require.Len(t, api.requests, 1)
		assert.Equal(t, domain.PrivacyStandard, api.requests[0].Privacy)
		assert.Nil(t, api.requests[0].Source)
	})

	t.Run("empty question", func(t *testing.T) {
		api := &mockCopilotAPI{}
		server, err := NewServer(newTestPorts(api))
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "   "})

		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
		assert.Empty(t, api.requests)
	})

	t.Run("server error is verbatim", func(t *testing.T) {
		api := &mockCopilotAPI{queryErr: &domain.APIError{Operation: "query", StatusCode: 500, Detail: "index unavailable"}}
		server, err := NewServer(newTestPorts(api))
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.Error(t, err)
		assert.Equal(t, "Error: index unavailable", err.Error())
	})

	t.Run("source is the document the request was scoped to", func(t *testing.T) {
		api := newGatedAPI(domain.DocumentRef{ID: "doc-1", Chunks: 3})
		server, err := NewServer(newGatedPorts(api))
		require.NoError(t, err)
		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: "/docs/first.pdf"})
		require.NoError(t, err)

		done := askAsync(server, AskInput{Question: "q"})
		require.Equal(t, "q", <-api.started)

		api.doc = domain.DocumentRef{ID: "doc-2", Chunks: 5}
		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: "/docs/second.pdf"})
		require.NoError(t, err)
		close(api.release["q"])

		res := <-done
		require.NoError(t, res.err)
		assert.Equal(t, "doc-1", res.out.Source)
	})

	t.Run("superseded question reports an error", func(t *testing.T) {
		api := newGatedAPI(domain.DocumentRef{})
		server, err := NewServer(newGatedPorts(api))
		require.NoError(t, err)

		doneA := askAsync(server, AskInput{Question: "A"})
		require.Equal(t, "A", <-api.started)
		standard := false
		doneB := askAsync(server, AskInput{Question: "B", StrictPrivacy: &standard})
		require.Equal(t, "B", <-api.started)

		close(api.release["B"])
		resB := <-doneB
		close(api.release["A"])
		resA := <-doneA

		require.NoError(t, resB.err)
		assert.Equal(t, "answer to B", resB.out.Answer)
		assert.Equal(t, "Standard", resB.out.Privacy)

		assert.ErrorIs(t, resA.err, domain.ErrQuerySuperseded)
		assert.Empty(t, resA.out.Answer)
	})
}

// gatedAPI holds each query until the test releases it by question.
type gatedAPI struct {
	*mockCopilotAPI

	started chan string
	release map[string]chan struct{}
}

func newGatedAPI(doc domain.DocumentRef) *gatedAPI {
	return &gatedAPI{
		mockCopilotAPI: &mockCopilotAPI{doc: doc},
		started:        make(chan string),
		release: map[string]chan struct{}{
			"q": make(chan struct{}),
			"A": make(chan struct{}),
			"B": make(chan struct{}),
		},
	}
}

func (g *gatedAPI) Query(_ context.Context, req domain.QueryRequest) (domain.QueryOutcome, error) {
	g.started <- req.Question
	<-g.release[req.Question]
	return domain.QueryOutcome{Answer: "answer to " + req.Question}, nil
}

func newGatedPorts(api *gatedAPI) *Ports {
	ingestion := services.NewIngestionService(api, domain.ZeroChunkKeep)
	ingestion.SetDocumentInspector(mockInspector{})
	return &Ports{
		Ingestion: ingestion,
		Query:     services.NewQueryService(api, ingestion, domain.PrivacyStrict),
	}
}

type askResult struct {
	out AskOutput
	err error
}

func askAsync(server *Server, input AskInput) <-chan askResult {
	done := make(chan askResult, 1)
	go func() {
		_, out, err := server.handleAsk(context.Background(), nil, input)
		done <- askResult{out: out, err: err}
	}()
	return done
}

func TestServer_handleSetPrivacy(t *testing.T) {
	ports := newTestPorts(&mockCopilotAPI{})
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, out, err := server.handleSetPrivacy(context.Background(), nil, PrivacyInput{Strict: false})
	require.NoError(t, err)
	assert.False(t, out.Strict)
	assert.Equal(t, domain.PrivacyStandard, ports.Query.Privacy())

	_, out, err = server.handleSetPrivacy(context.Background(), nil, PrivacyInput{Strict: true})
	require.NoError(t, err)
	assert.True(t, out.Strict)
	assert.Equal(t, "Strict", out.Privacy)
}

func TestServer_handleSessionState(t *testing.T) {
	api := &mockCopilotAPI{doc: domain.DocumentRef{ID: "doc-9", Chunks: 1}}
	server, err := NewServer(newTestPorts(api))
	require.NoError(t, err)

	_, out, err := server.handleSessionState(context.Background(), nil, SessionInput{})
	require.NoError(t, err)
	assert.Equal(t, "None", out.ActiveDocument)
	assert.False(t, out.HasActive)

	_, _, err = server.handleIngest(context.Background(), nil, IngestInput{Path: "/docs/a.pdf"})
	require.NoError(t, err)

	_, out, err = server.handleSessionState(context.Background(), nil, SessionInput{})
	require.NoError(t, err)
	assert.Equal(t, "doc-9", out.ActiveDocument)
	assert.True(t, out.HasActive)
	assert.Equal(t, "Strict", out.Privacy)
}
