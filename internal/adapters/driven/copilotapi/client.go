// Package copilotapi provides the CopilotAPI adapter over HTTP.
package copilotapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CopilotAPI = (*Client)(nil)

// API paths relative to the base URL.
const (
	IngestPath = "/api/v1/ingest"
	QueryPath  = "/api/v1/query"
)

// RequestIDHeader carries a per-call identifier for server-side log correlation.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a non-2xx body is kept as error detail.
const maxErrorBody = 64 << 10

// Config holds configuration for the copilot API client.
type Config struct {
	// BaseURL is the API base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout bounds a single call. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the underlying client. Optional.
	HTTPClient *http.Client
}

// Client talks to the copilot backend.
type Client struct {
	client  *http.Client
	baseURL string
}

// queryRequest is the /api/v1/query request format.
type queryRequest struct {
	Query         string  `json:"query"`
	Source        *string `json:"source"`
	StrictPrivacy bool    `json:"strict_privacy"`
}

// NewClient creates a new copilot API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ingest uploads a PDF as the single multipart file field.
func (c *Client) Ingest(ctx context.Context, candidate domain.UploadCandidate) (domain.DocumentRef, error) {
	if candidate.Open == nil {
		return domain.DocumentRef{}, fmt.Errorf("ingest %s: %w: no content", candidate.DisplayName(), domain.ErrInvalidInput)
	}

	body, contentType, err := encodeUpload(candidate)
	if err != nil {
		return domain.DocumentRef{}, fmt.Errorf("encode upload: %w", err)
	}

	payload, err := c.post(ctx, "ingest", IngestPath, contentType, body)
	if err != nil {
		return domain.DocumentRef{}, err
	}

	return parseIngestResponse(payload)
}

// Query asks a question scoped to the request's source and privacy mode.
func (c *Client) Query(ctx context.Context, req domain.QueryRequest) (domain.QueryOutcome, error) {
	jsonBody, err := json.Marshal(queryRequest{
		Query:         req.Question,
		Source:        req.Source,
		StrictPrivacy: req.Privacy.Strict(),
	})
	if err != nil {
		return domain.QueryOutcome{}, fmt.Errorf("marshal request: %w", err)
	}

	payload, err := c.post(ctx, "query", QueryPath, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return domain.QueryOutcome{}, err
	}

	return parseQueryResponse(payload)
}

// post sends one request and returns the decoded JSON object of a 2xx response.
func (c *Client) post(ctx context.Context, operation, path, contentType string, body io.Reader) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger.Debug("POST %s (request %s)", req.URL, requestID)
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("%s %d in %s (request %s)", operation, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &domain.APIError{Operation: operation, StatusCode: resp.StatusCode}
		if readErr == nil {
			apiErr.Detail = string(raw)
		}
		return nil, apiErr
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", operation, domain.ErrMalformedResponse)
	}
	if payload == nil {
		return nil, fmt.Errorf("decode %s response: %w", operation, domain.ErrMalformedResponse)
	}

	return payload, nil
}

func encodeUpload(candidate domain.UploadCandidate) (io.Reader, string, error) {
	f, err := candidate.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", candidate.DisplayName(), err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, candidate.DisplayName()))
	header.Set("Content-Type", domain.MediaTypePDF)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy %s: %w", candidate.DisplayName(), err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
