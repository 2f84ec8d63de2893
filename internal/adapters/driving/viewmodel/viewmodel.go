// Package viewmodel maps controller snapshots to display-ready values.
// Every front end (TUI, CLI, MCP) renders from a ViewModel so they agree
// on labels, enablement and number formatting.
package viewmodel

import (
	"fmt"
	"math"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
)

// Display constants.
const (
	NoDocument     = "None"
	UnknownScore   = "—"
	Title          = "AI Compliance Copilot"
	Tagline        = "Glass-Box RAG with citations, privacy controls, and evaluation."
	Footer         = "Glass-Box RAG • verifiable citations • privacy by default"
	IngestLabel    = "Ingest"
	UploadingLabel = "Uploading…"
	SearchLabel    = "Search"
	SearchingLabel = "Searching…"
)

// ViewModel is everything a front end needs to draw one frame.
type ViewModel struct {
	// ActiveDocument is the active document id or NoDocument.
	ActiveDocument    string
	HasActiveDocument bool

	// Privacy is the toggle state.
	Privacy PrivacyView

	// SelectedFile labels the pending upload; empty when none.
	SelectedFile string

	CanIngest    bool
	IngestButton string
	IngestStatus string
	Uploading    bool

	CanSearch    bool
	SearchButton string
	QueryStatus  string
	Searching    bool

	// Answer is nil unless the query controller holds an outcome.
	Answer *AnswerView
}

// PrivacyView is the privacy toggle.
type PrivacyView struct {
	Strict bool
	Label  string
}

// AnswerView renders one QueryOutcome. Its fields always come from the
// same outcome.
type AnswerView struct {
	Text string

	TraceID    string
	HasTraceID bool

	Groundedness    string
	HasGroundedness bool

	Citations []CitationView
}

// CitationView is one citation card.
type CitationView struct {
	Source     string
	PageNumber int
	Page       string
	Text       string
	Score      string
}

// Present builds the view model. It performs no I/O.
func Present(ingest domain.IngestionState, query domain.QueryState, privacy domain.PrivacyMode) ViewModel {
	vm := ViewModel{
		ActiveDocument: NoDocument,
		Privacy: PrivacyView{
			Strict: privacy.Strict(),
			Label:  privacy.Label(),
		},
		Uploading:    ingest.Phase.InFlight(),
		IngestStatus: ingest.Status,
		Searching:    query.Phase.InFlight(),
		QueryStatus:  query.Status,
	}

	if ingest.Active != nil {
		vm.ActiveDocument = ingest.Active.ID
		vm.HasActiveDocument = true
	}

	if ingest.Candidate != nil {
		vm.SelectedFile = fileLabel(*ingest.Candidate)
	}

	vm.CanIngest = ingest.Candidate != nil && !vm.Uploading
	vm.IngestButton = IngestLabel
	if vm.Uploading {
		vm.IngestButton = UploadingLabel
	}

	vm.CanSearch = !vm.Searching
	vm.SearchButton = SearchLabel
	if vm.Searching {
		vm.SearchButton = SearchingLabel
	}

	if query.Outcome != nil {
		vm.Answer = PresentAnswer(*query.Outcome)
	}

	return vm
}

// PresentAnswer builds the answer block for one outcome.
func PresentAnswer(o domain.QueryOutcome) *AnswerView {
	av := &AnswerView{
		Text:      o.Answer,
		Citations: make([]CitationView, 0, len(o.Citations)),
	}
	if o.TraceID != nil {
		av.TraceID = *o.TraceID
		av.HasTraceID = true
	}
	if o.Groundedness != nil {
		av.Groundedness = FormatScore(*o.Groundedness)
		av.HasGroundedness = true
	}
	for _, c := range o.Citations {
		av.Citations = append(av.Citations, CitationView{
			Source:     c.Source,
			PageNumber: c.PageNumber,
			Page:       fmt.Sprintf("Page %d", c.PageNumber),
			Text:       c.Text,
			Score:      FormatScore(c.Score),
		})
	}
	return av
}

// FormatScore renders a score with three decimals, or UnknownScore when
// it is not finite.
func FormatScore(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return UnknownScore
	}
	return fmt.Sprintf("%.3f", score)
}

func fileLabel(c domain.UploadCandidate) string {
	name := c.DisplayName()
	switch {
	case c.Pages == 1:
		return name + " (1 page)"
	case c.Pages > 1:
		return fmt.Sprintf("%s (%d pages)", name, c.Pages)
	default:
		return name
	}
}
