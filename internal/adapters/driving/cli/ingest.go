package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.pdf>",
	Short: "Upload a PDF to the copilot backend",
	Long: `Uploads a PDF for chunking, OCR and indexing. The server reports how many
searchable chunks it produced and how many pages needed OCR.

A document with zero chunks is not activated.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

// ingestOutput is the JSON shape of a finished ingestion.
type ingestOutput struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
	OCRPages   int    `json:"ocr_pages"`
	Activated  bool   `json:"activated"`
	Status     string `json:"status"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}

	result, err := ingestPath(cmd.Context(), svc.Ingestion, args[0])
	if err != nil {
		return err
	}
	status := result.Status

	if ingestJSON {
		data, err := json.MarshalIndent(ingestOutput{
			DocumentID: result.Document.ID,
			Chunks:     result.Document.Chunks,
			OCRPages:   result.Document.OCRPages,
			Activated:  result.Activated,
			Status:     status,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(status)
	return nil
}

// ingestPath selects path as a command-line argument and uploads it.
// A failed upload returns the failure detail as the error.
func ingestPath(ctx context.Context, ingestion driving.IngestionController, path string) (driving.IngestResult, error) {
	if _, err := ingestion.SelectPath(path, domain.OriginArgument); err != nil {
		return driving.IngestResult{}, err
	}

	result, ok := ingestion.Ingest(ctx)
	if !ok {
		return driving.IngestResult{}, domain.ErrIngestInProgress
	}
	if !result.Succeeded {
		return result, errors.New(result.Detail)
	}
	return result, nil
}
