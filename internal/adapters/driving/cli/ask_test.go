package cli

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
)

func answeringAPI() *MockCopilotAPI {
	trace := "tr-42"
	g := 0.93
	return &MockCopilotAPI{
		QueryFunc: func(context.Context, domain.QueryRequest) (domain.QueryOutcome, error) {
			return domain.QueryOutcome{
				Answer: "Records are kept for seven years.",
				Citations: []domain.Citation{
					{Source: "policy.pdf", PageNumber: 4, Text: "kept seven years", Score: 0.91},
					{Source: "policy.pdf", PageNumber: 9, Text: "retention table", Score: math.NaN()},
				},
				TraceID:      &trace,
				Groundedness: &g,
			}, nil
		},
	}
}

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask <question>", askCmd.Use)
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	setupTestServices(t, &MockCopilotAPI{})

	_, err := execute(t, "ask")

	assert.Error(t, err)
}

func TestAskCmd_PrintsAnswerAndCitations(t *testing.T) {
	api := answeringAPI()
	setupTestServices(t, api)

	out, err := execute(t, "ask", "How", "long", "are", "records", "kept?")

	require.NoError(t, err)
	assert.Contains(t, out, "Records are kept for seven years.")
	assert.Contains(t, out, "Trace: tr-42")
	assert.Contains(t, out, "Groundedness: 0.930")
	assert.Contains(t, out, "Citations (2)")
	assert.Contains(t, out, "[1] policy.pdf · Page 4 · score 0.910")
	assert.Contains(t, out, "[2] policy.pdf · Page 9 · score —")

	require.Len(t, api.Requests, 1)
	assert.Equal(t, "How long are records kept?", api.Requests[0].Question)
	assert.Nil(t, api.Requests[0].Source)
	assert.Equal(t, domain.PrivacyStrict, api.Requests[0].Privacy)
}

func TestAskCmd_Standard(t *testing.T) {
	api := &MockCopilotAPI{}
	setupTestServices(t, api)

	_, err := execute(t, "ask", "--standard", "q")

	require.NoError(t, err)
	require.Len(t, api.Requests, 1)
	assert.Equal(t, domain.PrivacyStandard, api.Requests[0].Privacy)
}

func TestAskCmd_Document(t *testing.T) {
	api := &MockCopilotAPI{}
	setupTestServices(t, api)

	_, err := execute(t, "ask", "--document", "doc-42", "q")

	require.NoError(t, err)
	require.Len(t, api.Requests, 1)
	require.NotNil(t, api.Requests[0].Source)
	assert.Equal(t, "doc-42", *api.Requests[0].Source)
}

func TestAskCmd_FileIngestsFirst(t *testing.T) {
	api := &MockCopilotAPI{
		IngestFunc: func(context.Context, domain.UploadCandidate) (domain.DocumentRef, error) {
			return domain.DocumentRef{ID: "doc-5", Chunks: 2}, nil
		},
	}
	setupTestServices(t, api)

	out, err := execute(t, "ask", "--file", "/docs/policy.pdf", "q")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested: doc-5")
	require.Len(t, api.Requests, 1)
	require.NotNil(t, api.Requests[0].Source)
	assert.Equal(t, "doc-5", *api.Requests[0].Source)
}

func TestAskCmd_FileAndDocumentAreExclusive(t *testing.T) {
	setupTestServices(t, &MockCopilotAPI{})

	_, err := execute(t, "ask", "--file", "/docs/a.pdf", "--document", "doc-1", "q")

	assert.Error(t, err)
}

func TestAskCmd_JSON(t *testing.T) {
	setupTestServices(t, answeringAPI())

	out, err := execute(t, "ask", "--json", "--document", "doc-3", "q")
	require.NoError(t, err)

	var got answerOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Records are kept for seven years.", got.Answer)
	require.NotNil(t, got.TraceID)
	assert.Equal(t, "tr-42", *got.TraceID)
	require.NotNil(t, got.Source)
	assert.Equal(t, "doc-3", *got.Source)
	assert.Equal(t, "Strict", got.Privacy)
	require.Len(t, got.Citations, 2)
	require.NotNil(t, got.Citations[0].Score)
	assert.InDelta(t, 0.91, *got.Citations[0].Score, 1e-9)
	assert.Nil(t, got.Citations[1].Score)
}

func TestAskCmd_EmptyQuestion(t *testing.T) {
	api := &MockCopilotAPI{}
	setupTestServices(t, api)

	_, err := execute(t, "ask", "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	assert.Empty(t, api.Requests)
}

func TestAskCmd_ServerError(t *testing.T) {
	api := &MockCopilotAPI{
		QueryFunc: func(context.Context, domain.QueryRequest) (domain.QueryOutcome, error) {
			return domain.QueryOutcome{}, &domain.APIError{Operation: "query", StatusCode: 500, Detail: "index unavailable"}
		},
	}
	setupTestServices(t, api)

	out, err := execute(t, "ask", "q")

	require.Error(t, err)
	assert.Equal(t, "index unavailable", err.Error())
	assert.Contains(t, out, "Error: index unavailable")
	assert.NotContains(t, out, "Error: Error:")
}

func TestAskCmd_NoCitations(t *testing.T) {
	setupTestServices(t, &MockCopilotAPI{})

	out, err := execute(t, "ask", "q")

	require.NoError(t, err)
	assert.Contains(t, out, "No citations returned.")
}
