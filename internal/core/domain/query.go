package domain

import "strings"

// Citation is one supporting excerpt for an answer.
type Citation struct {
	// Source identifies the cited document.
	Source string `json:"source"`

	// PageNumber is the 1-based page the excerpt came from.
	PageNumber int `json:"page_number"`

	// Text is the excerpt.
	Text string `json:"text"`

	// Score is the relevance score. Higher is more relevant; it is not
	// bounded and may be non-finite when the server omitted it.
	Score float64 `json:"score"`
}

// QueryOutcome is the result of one question.
type QueryOutcome struct {
	// Answer is the generated answer text.
	Answer string

	// Citations are in server order and must not be re-sorted.
	Citations []Citation

	// TraceID is present only if the server returned a string trace id.
	TraceID *string

	// Groundedness is present only if the server returned a numeric score.
	Groundedness *float64
}

// HasTrust returns true if any trust metadata is present.
func (o QueryOutcome) HasTrust() bool {
	return o.TraceID != nil || o.Groundedness != nil
}

// PrivacyMode is attached to every query request.
type PrivacyMode string

// Available privacy modes.
const (
	// PrivacyStrict asks the server to apply stricter data handling.
	PrivacyStrict PrivacyMode = "strict"

	// PrivacyStandard applies the server's default policy.
	PrivacyStandard PrivacyMode = "standard"
)

// DefaultPrivacyMode is the in-session default.
const DefaultPrivacyMode = PrivacyStrict

// Strict returns true for strict mode.
func (m PrivacyMode) Strict() bool {
	return m != PrivacyStandard
}

// Toggle returns the other mode.
func (m PrivacyMode) Toggle() PrivacyMode {
	if m.Strict() {
		return PrivacyStandard
	}
	return PrivacyStrict
}

// Label returns the display label.
func (m PrivacyMode) Label() string {
	if m.Strict() {
		return "Strict"
	}
	return "Standard"
}

// String returns the string representation.
func (m PrivacyMode) String() string {
	if m.Strict() {
		return string(PrivacyStrict)
	}
	return string(PrivacyStandard)
}

// IsValid returns true if the mode is recognised.
func (m PrivacyMode) IsValid() bool {
	return m == PrivacyStrict || m == PrivacyStandard
}

// ParsePrivacyMode parses a mode name, case-insensitively.
func ParsePrivacyMode(s string) (PrivacyMode, bool) {
	m := PrivacyMode(strings.ToLower(strings.TrimSpace(s)))
	return m, m.IsValid()
}

// QueryRequest is the payload of one query call, captured at submission time.
type QueryRequest struct {
	// Question is the user's question, as typed.
	Question string

	// Source is the active document id at submission, or nil if none.
	Source *string

	// Privacy is the privacy mode at submission.
	Privacy PrivacyMode
}
