package driven

import "github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"

// DocumentInspector turns a local path into an upload candidate.
type DocumentInspector interface {
	// Inspect detects the media type, size and (for PDFs) page count of
	// the file at path. It does not reject non-PDFs; callers decide.
	Inspect(path string) (domain.UploadCandidate, error)
}
