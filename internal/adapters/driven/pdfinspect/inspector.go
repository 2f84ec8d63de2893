// Package pdfinspect provides a DocumentInspector for local files.
package pdfinspect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driven.DocumentInspector = (*Inspector)(nil)

// Inspector detects a file's media type from its content and, for PDFs,
// reads the page count.
type Inspector struct{}

// NewInspector creates a new inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect builds an upload candidate for the file at path.
// The media type is sniffed from content, never taken from the extension.
func (i *Inspector) Inspect(path string) (domain.UploadCandidate, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.UploadCandidate{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return domain.UploadCandidate{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.UploadCandidate{}, fmt.Errorf("%s: %w: is a directory", path, domain.ErrInvalidInput)
	}

	mtype, err := mimetype.DetectFile(abs)
	if err != nil {
		return domain.UploadCandidate{}, fmt.Errorf("detect type of %s: %w", path, err)
	}

	candidate := domain.UploadCandidate{
		Name:      filepath.Base(abs),
		Path:      abs,
		MediaType: mediaType(mtype),
		Size:      info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(abs)
		},
	}

	if candidate.IsPDF() {
		candidate.Pages = pageCount(abs)
	}

	return candidate, nil
}

// mediaType strips parameters so only an exact PDF type compares equal.
func mediaType(m *mimetype.MIME) string {
	if m.Is(domain.MediaTypePDF) {
		return domain.MediaTypePDF
	}
	return m.String()
}

// pageCount returns 0 when pdfcpu cannot read the document.
func pageCount(path string) (n int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("Page count of %s panicked: %v", path, r)
			n = 0
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	n, err = api.PageCount(f, nil)
	if err != nil {
		logger.Debug("Failed to read page count of %s: %v", path, err)
		return 0
	}
	return n
}
