package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionController = (*IngestionService)(nil)

// Status texts shown by the ingestion panel.
const (
	StatusUploading       = "Uploading…"
	fallbackUploadFailure = "upload failed"
	zeroChunkSuffix       = " - not activated (no searchable chunks)"
	missingIDSuffix       = " - not activated (no document id)"
)

// IngestionService is the Ingestion Controller.
type IngestionService struct {
	api       driven.CopilotAPI
	inspector driven.DocumentInspector
	metrics   driven.MetricsRecorder
	policy    domain.ZeroChunkPolicy

	mu        sync.Mutex
	phase     domain.IngestionPhase
	candidate *domain.UploadCandidate
	active    *domain.DocumentRef
	last      *domain.DocumentRef
	status    string
	seq       uint64
	startedAt time.Time
}

// NewIngestionService creates a new ingestion controller in the Idle state.
func NewIngestionService(api driven.CopilotAPI, policy domain.ZeroChunkPolicy) *IngestionService {
	if !policy.IsValid() {
		policy = domain.ZeroChunkKeep
	}
	return &IngestionService{
		api:    api,
		policy: policy,
		phase:  domain.IngestIdle,
	}
}

// SetMetricsRecorder sets the optional metrics recorder.
func (s *IngestionService) SetMetricsRecorder(m driven.MetricsRecorder) {
	s.metrics = m
}

// SetDocumentInspector sets the inspector used by SelectPath.
func (s *IngestionService) SetDocumentInspector(i driven.DocumentInspector) {
	s.inspector = i
}

// SelectPath inspects the file at path and selects it.
func (s *IngestionService) SelectPath(path string, origin domain.SelectionOrigin) (bool, error) {
	if s.inspector == nil {
		return false, ErrNoInspector
	}
	candidate, err := s.inspector.Inspect(path)
	if err != nil {
		if origin.IgnoresInvalid() {
			logger.Debug("Ignoring %s of %q: %v", origin, path, err)
			return false, nil
		}
		return false, err
	}
	return s.SelectFile(candidate, origin)
}

// SelectFile replaces the selected file.
func (s *IngestionService) SelectFile(candidate domain.UploadCandidate, origin domain.SelectionOrigin) (bool, error) {
	if !candidate.IsPDF() {
		logger.Debug("Rejected %s selection %q (media type %q)", origin, candidate.DisplayName(), candidate.MediaType)
		if origin.IgnoresInvalid() {
			return false, nil
		}
		return false, fmt.Errorf("select %s: %w", candidate.DisplayName(), domain.ErrNotPDF)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := candidate
	s.candidate = &c
	// An upload in flight keeps its phase; the new file is ingested next.
	if s.phase != domain.IngestUploading {
		s.phase = domain.IngestFileSelected
	}
	logger.Debug("Selected %q via %s (%d bytes, %d pages)", c.DisplayName(), origin, c.Size, c.Pages)
	return true, nil
}

// BeginIngest transitions to Uploading.
func (s *IngestionService) BeginIngest() (driving.IngestTicket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidate == nil {
		logger.Debug("Ingest ignored: %v", domain.ErrNoFileSelected)
		return driving.IngestTicket{}, false
	}
	if s.phase.InFlight() {
		logger.Debug("Ingest ignored: %v", domain.ErrIngestInProgress)
		return driving.IngestTicket{}, false
	}

	s.seq++
	s.phase = domain.IngestUploading
	s.status = StatusUploading
	s.startedAt = time.Now()

	logger.Section("Ingestion")
	logger.Info("Uploading %q (call %d)", s.candidate.DisplayName(), s.seq)

	return driving.IngestTicket{Seq: s.seq, Candidate: *s.candidate}, true
}

// RunIngest performs the upload call.
func (s *IngestionService) RunIngest(ctx context.Context, ticket driving.IngestTicket) driving.IngestCompletion {
	doc, err := s.api.Ingest(ctx, ticket.Candidate)
	return driving.IngestCompletion{Ticket: ticket, Document: doc, Err: err}
}

// CompleteIngest applies a finished call.
func (s *IngestionService) CompleteIngest(c driving.IngestCompletion) driving.IngestResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Ticket.Seq != s.seq || !s.phase.InFlight() {
		logger.Warn("Discarding ingestion completion %d (current %d)", c.Ticket.Seq, s.seq)
		result := driving.IngestResult{Err: c.Err, Document: c.Document, Status: s.status}
		if c.Err != nil {
			result.Detail = domain.ErrorDetail(c.Err, fallbackUploadFailure)
		}
		return result
	}

	elapsed := time.Since(s.startedAt)

	if c.Err != nil {
		s.phase = domain.IngestFailed
		s.status = "Error: " + domain.ErrorDetail(c.Err, fallbackUploadFailure)
		logger.Warn("Ingestion failed: %v", c.Err)
		s.observe(driven.OutcomeFailure, 0, elapsed)
		return driving.IngestResult{
			Err:    c.Err,
			Detail: domain.ErrorDetail(c.Err, fallbackUploadFailure),
			Status: s.status,
		}
	}

	doc := c.Document
	s.last = &doc
	s.phase = domain.IngestSucceeded
	s.status = fmt.Sprintf("Ingested: %s (chunks: %d, ocr pages: %d)", doc.ID, doc.Chunks, doc.OCRPages)

	activated := doc.Activatable()
	switch {
	case activated:
		active := doc
		s.active = &active
		s.observe(driven.OutcomeSuccess, doc.Chunks, elapsed)
		logger.Info("Active document is now %q", doc.ID)
	case doc.ID == "" && doc.Chunks > 0:
		s.status += missingIDSuffix
		s.observe(driven.OutcomeEmpty, doc.Chunks, elapsed)
		logger.Warn("Server returned %d chunks without a document id", doc.Chunks)
	case s.policy == domain.ZeroChunkClear:
		s.active = nil
		s.status += zeroChunkSuffix
		s.observe(driven.OutcomeEmpty, doc.Chunks, elapsed)
		logger.Info("Document %q has no chunks; active document cleared", doc.ID)
	default:
		s.status += zeroChunkSuffix
		s.observe(driven.OutcomeEmpty, doc.Chunks, elapsed)
		logger.Info("Document %q has no chunks; active document unchanged", doc.ID)
	}

	return driving.IngestResult{Succeeded: true, Activated: activated, Document: doc, Status: s.status}
}

// Ingest runs a full ingestion synchronously.
func (s *IngestionService) Ingest(ctx context.Context) (driving.IngestResult, bool) {
	ticket, ok := s.BeginIngest()
	if !ok {
		return driving.IngestResult{}, false
	}
	return s.CompleteIngest(s.RunIngest(ctx, ticket)), true
}

// ActiveDocument returns a copy of the active document, or nil.
func (s *IngestionService) ActiveDocument() *domain.DocumentRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDocument(s.active)
}

// State returns a snapshot of the controller.
func (s *IngestionService) State() domain.IngestionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := domain.IngestionState{
		Phase:  s.phase,
		Active: copyDocument(s.active),
		Last:   copyDocument(s.last),
		Status: s.status,
	}
	if s.candidate != nil {
		c := *s.candidate
		state.Candidate = &c
	}
	return state
}

func (s *IngestionService) observe(outcome string, chunks int, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveIngest(outcome, chunks, elapsed)
	}
}

func copyDocument(d *domain.DocumentRef) *domain.DocumentRef {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
