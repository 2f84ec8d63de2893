package copilotapi

import (
	"math"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
)

// parseIngestResponse reads the ingestion metrics. Counts may arrive as
// "chunks_count"/"ocr_pages_count" or the older "chunks"/"ocr_pages".
func parseIngestResponse(payload map[string]any) (domain.DocumentRef, error) {
	id, _ := payload["document_id"].(string)
	return domain.DocumentRef{
		ID:       id,
		Chunks:   count(payload, "chunks_count", "chunks"),
		OCRPages: count(payload, "ocr_pages_count", "ocr_pages"),
	}, nil
}

// parseQueryResponse keeps fields of the expected type and treats anything
// else as absent.
func parseQueryResponse(payload map[string]any) (domain.QueryOutcome, error) {
	outcome := domain.QueryOutcome{Citations: []domain.Citation{}}
	outcome.Answer, _ = payload["answer"].(string)

	if raw, ok := payload["citations"].([]any); ok {
		for _, item := range raw {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			outcome.Citations = append(outcome.Citations, parseCitation(fields))
		}
	}

	if traceID, ok := payload["trace_id"].(string); ok {
		outcome.TraceID = &traceID
	}
	if g, ok := payload["groundedness"].(float64); ok {
		outcome.Groundedness = &g
	}

	return outcome, nil
}

func parseCitation(fields map[string]any) domain.Citation {
	c := domain.Citation{Score: math.NaN()}
	c.Source, _ = fields["source"].(string)
	c.Text, _ = fields["text"].(string)
	if page, ok := fields["page_number"].(float64); ok {
		c.PageNumber = int(page)
	}
	if score, ok := fields["score"].(float64); ok {
		c.Score = score
	}
	return c
}

func count(payload map[string]any, keys ...string) int {
	for _, key := range keys {
		if n, ok := payload[key].(float64); ok {
			return int(n)
		}
	}
	return 0
}
