package copilotapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
)

func pdfCandidate(content string) domain.UploadCandidate {
	return domain.UploadCandidate{
		Name:      "policy.pdf",
		MediaType: domain.MediaTypePDF,
		Size:      int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})
	assert.Equal(t, "http://localhost:8000", client.BaseURL())

	client = NewClient(Config{BaseURL: "http://api.test/"})
	assert.Equal(t, "http://api.test", client.BaseURL())
}

func TestClient_Ingest_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, IngestPath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.7 body", string(data))
		assert.Equal(t, "policy.pdf", header.Filename)
		assert.Equal(t, domain.MediaTypePDF, header.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"document_id":"doc-7","chunks_count":12,"ocr_pages_count":2}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	doc, err := client.Ingest(context.Background(), pdfCandidate("%PDF-1.7 body"))

	require.NoError(t, err)
	assert.Equal(t, domain.DocumentRef{ID: "doc-7", Chunks: 12, OCRPages: 2}, doc)
}

func TestClient_Ingest_ResponseVariants(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected domain.DocumentRef
	}{
		{"bare field names", `{"document_id":"d","chunks":3,"ocr_pages":1}`, domain.DocumentRef{ID: "d", Chunks: 3, OCRPages: 1}},
		{"count fields win", `{"document_id":"d","chunks_count":5,"chunks":3}`, domain.DocumentRef{ID: "d", Chunks: 5}},
		{"missing counts are zero", `{"document_id":"d"}`, domain.DocumentRef{ID: "d"}},
		{"wrong-typed counts are zero", `{"document_id":"d","chunks_count":"7"}`, domain.DocumentRef{ID: "d"}},
		{"missing id", `{"chunks_count":2}`, domain.DocumentRef{Chunks: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			doc, err := NewClient(Config{BaseURL: server.URL}).Ingest(context.Background(), pdfCandidate("x"))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, doc)
		})
	}
}

func TestClient_Ingest_NonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("PDF is encrypted"))
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL}).Ingest(context.Background(), pdfCandidate("x"))

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "ingest", apiErr.Operation)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "PDF is encrypted", apiErr.Detail)
}

func TestClient_Ingest_OpenError(t *testing.T) {
	candidate := pdfCandidate("x")
	candidate.Open = func() (io.ReadCloser, error) { return nil, errors.New("permission denied") }

	_, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"}).Ingest(context.Background(), candidate)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestClient_Ingest_NoContent(t *testing.T) {
	_, err := NewClient(Config{}).Ingest(context.Background(), domain.UploadCandidate{Name: "a.pdf"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_Query_RequestBody(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, QueryPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"answer":"ok","citations":[]}`))
	}))
	defer server.Close()
	client := NewClient(Config{BaseURL: server.URL})

	source := "doc-7"
	_, err := client.Query(context.Background(), domain.QueryRequest{
		Question: "What is the retention period?",
		Source:   &source,
		Privacy:  domain.PrivacyStrict,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"query":          "What is the retention period?",
		"source":         "doc-7",
		"strict_privacy": true,
	}, got)

	_, err = client.Query(context.Background(), domain.QueryRequest{Question: "q", Privacy: domain.PrivacyStandard})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "q", "source": nil, "strict_privacy": false}, got)
}

func TestClient_Query_Response(t *testing.T) {
	body := `{
		"answer": "Retention is 7 years.",
		"citations": [
			{"source": "doc-7", "page_number": 4, "text": "Records shall be retained for seven years.", "score": 0.91},
			{"source": "doc-7", "page_number": 5, "text": "Retention applies to all ledgers.", "score": 0.87}
		],
		"trace_id": "tr-42",
		"groundedness": 0.88
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	outcome, err := NewClient(Config{BaseURL: server.URL}).Query(context.Background(), domain.QueryRequest{Question: "q"})

	require.NoError(t, err)
	assert.Equal(t, "Retention is 7 years.", outcome.Answer)
	require.Len(t, outcome.Citations, 2)
	assert.Equal(t, domain.Citation{Source: "doc-7", PageNumber: 4, Text: "Records shall be retained for seven years.", Score: 0.91}, outcome.Citations[0])
	assert.Equal(t, 5, outcome.Citations[1].PageNumber)
	require.NotNil(t, outcome.TraceID)
	assert.Equal(t, "tr-42", *outcome.TraceID)
	require.NotNil(t, outcome.Groundedness)
	assert.InDelta(t, 0.88, *outcome.Groundedness, 1e-9)
}

func TestClient_Query_TolerantParsing(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, o domain.QueryOutcome)
	}{
		{
			name: "wrong-typed trust metadata is absent",
			body: `{"answer":"a","citations":[],"trace_id":42,"groundedness":"high"}`,
			check: func(t *testing.T, o domain.QueryOutcome) {
				assert.Nil(t, o.TraceID)
				assert.Nil(t, o.Groundedness)
				assert.False(t, o.HasTrust())
			},
		},
		{
			name: "missing citations are empty",
			body: `{"answer":"a"}`,
			check: func(t *testing.T, o domain.QueryOutcome) {
				assert.NotNil(t, o.Citations)
				assert.Empty(t, o.Citations)
			},
		},
		{
			name: "wrong-typed citations are empty",
			body: `{"answer":"a","citations":"none"}`,
			check: func(t *testing.T, o domain.QueryOutcome) {
				assert.Empty(t, o.Citations)
			},
		},
		{
			name: "missing score is not finite",
			body: `{"answer":"a","citations":[{"source":"s","page_number":1,"text":"t"}]}`,
			check: func(t *testing.T, o domain.QueryOutcome) {
				require.Len(t, o.Citations, 1)
				assert.True(t, math.IsNaN(o.Citations[0].Score))
			},
		},
		{
			name: "zero groundedness is present",
			body: `{"answer":"a","groundedness":0}`,
			check: func(t *testing.T, o domain.QueryOutcome) {
				require.NotNil(t, o.Groundedness)
				assert.Equal(t, 0.0, *o.Groundedness)
			},
		},
		{
			name: "citation order preserved",
			body: `{"answer":"a","citations":[{"page_number":9,"score":0.1},{"page_number":2,"score":0.9}]}`,
			check: func(t *testing.T, o domain.QueryOutcome) {
				require.Len(t, o.Citations, 2)
				assert.Equal(t, 9, o.Citations[0].PageNumber)
				assert.Equal(t, 2, o.Citations[1].PageNumber)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			outcome, err := NewClient(Config{BaseURL: server.URL}).Query(context.Background(), domain.QueryRequest{Question: "q"})

			require.NoError(t, err)
			tt.check(t, outcome)
		})
	}
}

func TestClient_Query_MalformedResponse(t *testing.T) {
	for _, body := range []string{"not json", "[1,2]", "null"} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		_, err := NewClient(Config{BaseURL: server.URL}).Query(context.Background(), domain.QueryRequest{Question: "q"})
		server.Close()

		assert.ErrorIs(t, err, domain.ErrMalformedResponse, body)
	}
}

func TestClient_Query_ErrorBodyVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("index unavailable"))
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL}).Query(context.Background(), domain.QueryRequest{Question: "q"})

	require.Error(t, err)
	assert.Equal(t, "index unavailable", domain.ErrorDetail(err, "query failed"))
}

func TestClient_Query_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(Config{BaseURL: url}).Query(context.Background(), domain.QueryRequest{Question: "q"})

	require.Error(t, err)
	var apiErr *domain.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_Query_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"answer":"a"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(Config{BaseURL: server.URL}).Query(ctx, domain.QueryRequest{Question: "q"})

	assert.ErrorIs(t, err, context.Canceled)
}
