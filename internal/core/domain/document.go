package domain

import (
	"io"
	"path/filepath"
	"strings"
)

// MediaTypePDF is the only media type accepted for ingestion.
const MediaTypePDF = "application/pdf"

// DocumentRef identifies a document ingested by the server.
type DocumentRef struct {
	// ID is the opaque, server-assigned document identifier.
	ID string

	// Chunks is the number of searchable chunks produced by ingestion.
	Chunks int

	// OCRPages is the number of pages that required OCR.
	OCRPages int
}

// Activatable reports whether this document may become the active document.
// A document with no chunks, or without an identifier, cannot be queried.
func (d DocumentRef) Activatable() bool {
	return d.Chunks > 0 && d.ID != ""
}

// UploadCandidate is a locally selected file pending ingestion.
type UploadCandidate struct {
	// Name is the display file name.
	Name string

	// Path is the local filesystem path, if the candidate came from disk.
	Path string

	// MediaType is the detected media type.
	MediaType string

	// Size is the file size in bytes.
	Size int64

	// Pages is the PDF page count, or 0 when unknown.
	Pages int

	// Open returns a fresh reader over the file content.
	Open func() (io.ReadCloser, error)
}

// IsPDF returns true if the candidate's media type is exactly application/pdf.
func (c UploadCandidate) IsPDF() bool {
	return c.MediaType == MediaTypePDF
}

// DisplayName returns the name shown to the user.
func (c UploadCandidate) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Path != "" {
		return filepath.Base(c.Path)
	}
	return "(unnamed)"
}

// SelectionOrigin records how a file was selected.
type SelectionOrigin string

// Available selection origins.
const (
	// OriginPicker is a file-picker selection; the picker filters to PDFs.
	OriginPicker SelectionOrigin = "picker"

	// OriginDrop is a drag-and-drop selection; non-PDFs are silently ignored.
	OriginDrop SelectionOrigin = "drop"

	// OriginArgument is a path given on the command line.
	OriginArgument SelectionOrigin = "argument"

	// OriginWatch is a file that appeared in a watched drop folder.
	OriginWatch SelectionOrigin = "watch"
)

// IgnoresInvalid reports whether non-PDF selections from this origin are
// dropped without surfacing an error.
func (o SelectionOrigin) IgnoresInvalid() bool {
	return o == OriginDrop || o == OriginWatch
}

// ZeroChunkPolicy decides what happens to the active document when an
// ingestion succeeds but produces no chunks.
type ZeroChunkPolicy string

// Available zero-chunk policies.
const (
	// ZeroChunkKeep leaves the previously active document in place.
	ZeroChunkKeep ZeroChunkPolicy = "keep"

	// ZeroChunkClear clears the active document, forcing re-ingestion.
	ZeroChunkClear ZeroChunkPolicy = "clear"
)

// IsValid returns true if the policy is recognised.
func (p ZeroChunkPolicy) IsValid() bool {
	return p == ZeroChunkKeep || p == ZeroChunkClear
}

// ParseZeroChunkPolicy parses a policy name, case-insensitively.
func ParseZeroChunkPolicy(s string) (ZeroChunkPolicy, bool) {
	p := ZeroChunkPolicy(strings.ToLower(strings.TrimSpace(s)))
	return p, p.IsValid()
}
