package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryController = (*QueryService)(nil)

// Status texts shown by the query panel.
const (
	StatusSearching      = "Searching…"
	StatusAnswered       = "Answered"
	fallbackQueryFailure = "query failed"
)

// QueryService is the Query Controller.
type QueryService struct {
	api     driven.CopilotAPI
	docs    driving.ActiveDocumentSource
	metrics driven.MetricsRecorder

	mu        sync.Mutex
	privacy   domain.PrivacyMode
	phase     domain.QueryPhase
	question  string
	outcome   *domain.QueryOutcome
	status    string
	seq       uint64
	startedAt time.Time
}

// NewQueryService creates a new query controller.
// Queries are scoped to whatever docs reports as active at submission.
func NewQueryService(api driven.CopilotAPI, docs driving.ActiveDocumentSource, privacy domain.PrivacyMode) *QueryService {
	if !privacy.IsValid() {
		privacy = domain.DefaultPrivacyMode
	}
	return &QueryService{
		api:     api,
		docs:    docs,
		privacy: privacy,
		phase:   domain.QueryIdle,
	}
}

// SetMetricsRecorder sets the optional metrics recorder.
func (s *QueryService) SetMetricsRecorder(m driven.MetricsRecorder) {
	s.metrics = m
}

// BeginSubmit clears the previous outcome and issues a new ticket.
func (s *QueryService) BeginSubmit(question string) (driving.QueryTicket, bool) {
	return s.begin(question, nil)
}

// begin issues a ticket. A non-nil mode replaces the privacy mode under
// the same lock that snapshots it into the request.
func (s *QueryService) begin(question string, mode *domain.PrivacyMode) (driving.QueryTicket, bool) {
	if strings.TrimSpace(question) == "" {
		logger.Debug("Submit ignored: %v", domain.ErrEmptyQuestion)
		return driving.QueryTicket{}, false
	}

	var source *string
	if doc := s.docs.ActiveDocument(); doc != nil {
		id := doc.ID
		source = &id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.InFlight() {
		logger.Debug("Superseding query %d", s.seq)
	}
	if mode != nil {
		s.privacy = *mode
		if !s.privacy.IsValid() {
			s.privacy = domain.DefaultPrivacyMode
		}
	}

	s.seq++
	s.phase = domain.QuerySubmitting
	s.question = question
	s.outcome = nil
	s.status = StatusSearching
	s.startedAt = time.Now()

	req := domain.QueryRequest{
		Question: question,
		Source:   source,
		Privacy:  s.privacy,
	}

	logger.Section("Query")
	if source != nil {
		logger.Info("Query %d scoped to %q (privacy: %s)", s.seq, *source, req.Privacy)
	} else {
		logger.Info("Query %d across all documents (privacy: %s)", s.seq, req.Privacy)
	}

	return driving.QueryTicket{Seq: s.seq, Request: req}, true
}

// RunQuery performs the query call.
func (s *QueryService) RunQuery(ctx context.Context, ticket driving.QueryTicket) driving.QueryCompletion {
	outcome, err := s.api.Query(ctx, ticket.Request)
	return driving.QueryCompletion{Ticket: ticket, Outcome: outcome, Err: err}
}

// CompleteQuery applies a finished call unless it was superseded.
func (s *QueryService) CompleteQuery(c driving.QueryCompletion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Ticket.Seq != s.seq || !s.phase.InFlight() {
		logger.Debug("Discarding stale query response %d (latest %d)", c.Ticket.Seq, s.seq)
		if s.metrics != nil {
			s.metrics.ObserveStaleQuery()
		}
		return false
	}

	elapsed := time.Since(s.startedAt)

	if c.Err != nil {
		s.phase = domain.QueryFailed
		s.outcome = nil
		s.status = "Error: " + domain.ErrorDetail(c.Err, fallbackQueryFailure)
		logger.Warn("Query %d failed: %v", c.Ticket.Seq, c.Err)
		s.observe(driven.OutcomeFailure, 0, elapsed)
		return true
	}

	outcome := c.Outcome
	outcome.Citations = append([]domain.Citation(nil), c.Outcome.Citations...)
	s.phase = domain.QueryAnswered
	s.outcome = &outcome
	s.status = StatusAnswered

	result := driven.OutcomeSuccess
	if len(outcome.Citations) == 0 {
		result = driven.OutcomeEmpty
	}
	s.observe(result, len(outcome.Citations), elapsed)
	logger.Info("Query %d answered with %d citations in %s", c.Ticket.Seq, len(outcome.Citations), elapsed.Round(time.Millisecond))

	return true
}

// Submit runs a full query synchronously.
func (s *QueryService) Submit(ctx context.Context, question string) (driving.QueryResult, bool) {
	ticket, ok := s.begin(question, nil)
	if !ok {
		return driving.QueryResult{}, false
	}
	return s.finish(ctx, ticket), true
}

// SubmitWithPrivacy runs a full query synchronously under the given mode.
// The mode stays in effect for later submissions.
func (s *QueryService) SubmitWithPrivacy(
	ctx context.Context,
	question string,
	mode domain.PrivacyMode,
) (driving.QueryResult, bool) {
	ticket, ok := s.begin(question, &mode)
	if !ok {
		return driving.QueryResult{}, false
	}
	return s.finish(ctx, ticket), true
}

// finish runs and applies one call and reports its own result.
func (s *QueryService) finish(ctx context.Context, ticket driving.QueryTicket) driving.QueryResult {
	c := s.RunQuery(ctx, ticket)
	applied := s.CompleteQuery(c)

	result := driving.QueryResult{
		Request:    c.Ticket.Request,
		Superseded: !applied,
	}
	if c.Err != nil {
		result.Err = c.Err
		result.Detail = domain.ErrorDetail(c.Err, fallbackQueryFailure)
		result.Status = "Error: " + result.Detail
		return result
	}

	outcome := c.Outcome
	outcome.Citations = append([]domain.Citation(nil), c.Outcome.Citations...)
	result.Outcome = &outcome
	result.Status = StatusAnswered
	return result
}

// Privacy returns the current privacy mode.
func (s *QueryService) Privacy() domain.PrivacyMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.privacy
}

// SetPrivacy changes the mode used by the next submission.
func (s *QueryService) SetPrivacy(mode domain.PrivacyMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !mode.IsValid() {
		mode = domain.DefaultPrivacyMode
	}
	s.privacy = mode
}

// TogglePrivacy flips the privacy mode.
func (s *QueryService) TogglePrivacy() domain.PrivacyMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.privacy = s.privacy.Toggle()
	logger.Debug("Privacy mode set to %s", s.privacy)
	return s.privacy
}

// State returns a snapshot of the controller.
func (s *QueryService) State() domain.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := domain.QueryState{
		Phase:    s.phase,
		Question: s.question,
		Status:   s.status,
		Seq:      s.seq,
	}
	if s.outcome != nil {
		o := *s.outcome
		o.Citations = append([]domain.Citation(nil), s.outcome.Citations...)
		state.Outcome = &o
	}
	return state
}

func (s *QueryService) observe(outcome string, citations int, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveQuery(outcome, citations, elapsed)
	}
}
