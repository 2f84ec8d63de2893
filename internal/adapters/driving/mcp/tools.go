package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/viewmodel"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
)

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"absolute path of the PDF to ingest"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
	OCRPages   int    `json:"ocr_pages"`
	Activated  bool   `json:"activated"`
	Status     string `json:"status"`
}

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question      string `json:"question" jsonschema:"the question to answer from the ingested documents"`
	StrictPrivacy *bool  `json:"strict_privacy,omitempty" jsonschema:"override the privacy mode before asking"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Answer       string           `json:"answer"`
	Citations    []CitationOutput `json:"citations"`
	TraceID      string           `json:"trace_id,omitempty"`
	Groundedness *float64         `json:"groundedness,omitempty"`
	Source       string           `json:"source,omitempty"`
	Privacy      string           `json:"privacy"`
	Status       string           `json:"status"`
}

// CitationOutput is one citation. Score is omitted when the server sent none.
type CitationOutput struct {
	Source     string   `json:"source"`
	PageNumber int      `json:"page_number"`
	Text       string   `json:"text"`
	Score      *float64 `json:"score,omitempty"`
}

// PrivacyInput is the input schema for the set_privacy tool.
type PrivacyInput struct {
	Strict bool `json:"strict" jsonschema:"true to redact personal data before retrieval"`
}

// PrivacyOutput is the output schema for the set_privacy tool.
type PrivacyOutput struct {
	Privacy string `json:"privacy"`
	Strict  bool   `json:"strict"`
}

// SessionInput is the empty input schema for the session_state tool.
type SessionInput struct{}

// SessionOutput describes both controllers.
type SessionOutput struct {
	ActiveDocument string `json:"active_document"`
	HasActive      bool   `json:"has_active_document"`
	Privacy        string `json:"privacy"`
	SelectedFile   string `json:"selected_file,omitempty"`
	IngestStatus   string `json:"ingest_status,omitempty"`
	QueryStatus    string `json:"query_status,omitempty"`
	Uploading      bool   `json:"uploading"`
	Searching      bool   `json:"searching"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Upload a PDF to the copilot backend and make it the active document",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Ask a question scoped to the active document; returns the answer with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_privacy",
		Description: "Turn strict privacy (PII redaction) on or off for later questions",
	}, s.handleSetPrivacy)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "session_state",
		Description: "Report the active document, privacy mode and last statuses",
	}, s.handleSessionState)
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if input.Path == "" {
		return nil, IngestOutput{}, fmt.Errorf("path: %w", domain.ErrInvalidInput)
	}

	if _, err := s.ports.Ingestion.SelectPath(input.Path, domain.OriginArgument); err != nil {
		return nil, IngestOutput{}, err
	}

	result, ok := s.ports.Ingestion.Ingest(ctx)
	if !ok {
		return nil, IngestOutput{}, domain.ErrIngestInProgress
	}

	if !result.Succeeded {
		return nil, IngestOutput{}, errors.New(result.Status)
	}

	return nil, IngestOutput{
		DocumentID: result.Document.ID,
		Chunks:     result.Document.Chunks,
		OCRPages:   result.Document.OCRPages,
		Activated:  result.Activated,
		Status:     result.Status,
	}, nil
}

// handleAsk handles the ask_question tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	var (
		result driving.QueryResult
		ok     bool
	)
	if input.StrictPrivacy != nil {
		result, ok = s.ports.Query.SubmitWithPrivacy(ctx, input.Question, privacyFor(*input.StrictPrivacy))
	} else {
		result, ok = s.ports.Query.Submit(ctx, input.Question)
	}
	if !ok {
		return nil, AskOutput{}, domain.ErrEmptyQuestion
	}
	if result.Superseded {
		return nil, AskOutput{}, domain.ErrQuerySuperseded
	}
	if result.Outcome == nil {
		return nil, AskOutput{}, errors.New(result.Status)
	}

	o := result.Outcome
	out := AskOutput{
		Answer:       o.Answer,
		Citations:    make([]CitationOutput, len(o.Citations)),
		Groundedness: o.Groundedness,
		Privacy:      result.Request.Privacy.Label(),
		Status:       result.Status,
	}
	if o.TraceID != nil {
		out.TraceID = *o.TraceID
	}
	if result.Request.Source != nil {
		out.Source = *result.Request.Source
	}

	for i, c := range o.Citations {
		out.Citations[i] = CitationOutput{
			Source:     c.Source,
			PageNumber: c.PageNumber,
			Text:       c.Text,
		}
		if !math.IsNaN(c.Score) && !math.IsInf(c.Score, 0) {
			score := c.Score
			out.Citations[i].Score = &score
		}
	}

	return nil, out, nil
}

// handleSetPrivacy handles the set_privacy tool invocation.
func (s *Server) handleSetPrivacy(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PrivacyInput,
) (*mcp.CallToolResult, PrivacyOutput, error) {
	s.ports.Query.SetPrivacy(privacyFor(input.Strict))
	mode := s.ports.Query.Privacy()
	return nil, PrivacyOutput{Privacy: mode.Label(), Strict: mode.Strict()}, nil
}

// handleSessionState handles the session_state tool invocation.
func (s *Server) handleSessionState(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ SessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	return nil, s.session(), nil
}

func (s *Server) session() SessionOutput {
	vm := viewmodel.Present(s.ports.Ingestion.State(), s.ports.Query.State(), s.ports.Query.Privacy())
	return SessionOutput{
		ActiveDocument: vm.ActiveDocument,
		HasActive:      vm.HasActiveDocument,
		Privacy:        vm.Privacy.Label,
		SelectedFile:   vm.SelectedFile,
		IngestStatus:   vm.IngestStatus,
		QueryStatus:    vm.QueryStatus,
		Uploading:      vm.Uploading,
		Searching:      vm.Searching,
	}
}

func privacyFor(strict bool) domain.PrivacyMode {
	if strict {
		return domain.PrivacyStrict
	}
	return domain.PrivacyStandard
}
