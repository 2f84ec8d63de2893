package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/viewmodel"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
)

var (
	askDocument string
	askFile     string
	askStandard bool
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and print the cited answer",
	Long: `Asks the copilot a question. The answer is printed with its citations
(source, page, excerpt, relevance score) and, when the server provides them,
a trace id and groundedness score.

Scope the question with --file (ingest a PDF first) or --document (an id
returned by a previous ingest). Without either, the whole index is searched.
Strict privacy is on unless --standard is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDocument, "document", "d", "", "scope to an existing document id")
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "ingest this PDF first and scope to it")
	askCmd.Flags().BoolVar(&askStandard, "standard", false, "turn strict privacy off for this question")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.MarkFlagsMutuallyExclusive("document", "file")
	rootCmd.AddCommand(askCmd)
}

// fixedDocument scopes a query to a known document id.
type fixedDocument string

func (d fixedDocument) ActiveDocument() *domain.DocumentRef {
	return &domain.DocumentRef{ID: string(d)}
}

// answerOutput is the JSON shape of an answer.
type answerOutput struct {
	Question     string           `json:"question"`
	Answer       string           `json:"answer"`
	Citations    []citationOutput `json:"citations"`
	TraceID      *string          `json:"trace_id,omitempty"`
	Groundedness *float64         `json:"groundedness,omitempty"`
	Source       *string          `json:"source"`
	Privacy      string           `json:"privacy"`
}

type citationOutput struct {
	Source     string   `json:"source"`
	PageNumber int      `json:"page_number"`
	Text       string   `json:"text"`
	Score      *float64 `json:"score"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	if askFile != "" {
		ingested, err := ingestPath(ctx, svc.Ingestion, askFile)
		if err != nil {
			return err
		}
		if !askJSON {
			cmd.Println(ingested.Status)
		}
	}

	query := svc.Query
	if askDocument != "" {
		if svc.NewQuery == nil {
			return ErrNotConfigured
		}
		query = svc.NewQuery(fixedDocument(askDocument), query.Privacy())
	}
	var (
		result driving.QueryResult
		ok     bool
	)
	if askStandard {
		result, ok = query.SubmitWithPrivacy(ctx, question, domain.PrivacyStandard)
	} else {
		result, ok = query.Submit(ctx, question)
	}
	if !ok {
		return domain.ErrEmptyQuestion
	}
	if result.Superseded {
		return domain.ErrQuerySuperseded
	}
	if result.Outcome == nil {
		return errors.New(result.Detail)
	}

	if askJSON {
		return outputAnswerJSON(cmd, question, result.Outcome, result.Request.Source, result.Request.Privacy)
	}

	outputAnswerText(cmd, viewmodel.PresentAnswer(*result.Outcome))
	return nil
}

func outputAnswerJSON(
	cmd *cobra.Command,
	question string,
	o *domain.QueryOutcome,
	source *string,
	privacy domain.PrivacyMode,
) error {
	out := answerOutput{
		Question:     question,
		Answer:       o.Answer,
		Citations:    make([]citationOutput, len(o.Citations)),
		TraceID:      o.TraceID,
		Groundedness: o.Groundedness,
		Source:       source,
		Privacy:      privacy.Label(),
	}
	for i, c := range o.Citations {
		out.Citations[i] = citationOutput{Source: c.Source, PageNumber: c.PageNumber, Text: c.Text}
		if !math.IsNaN(c.Score) && !math.IsInf(c.Score, 0) {
			score := c.Score
			out.Citations[i].Score = &score
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, a *viewmodel.AnswerView) {
	if a == nil {
		return
	}

	cmd.Println("Answer:")
	cmd.Println()
	cmd.Printf("  %s\n", a.Text)
	cmd.Println()

	var trust []string
	if a.HasTraceID {
		trust = append(trust, "Trace: "+a.TraceID)
	}
	if a.HasGroundedness {
		trust = append(trust, "Groundedness: "+a.Groundedness)
	}
	if len(trust) > 0 {
		cmd.Println(strings.Join(trust, "  "))
		cmd.Println()
	}

	if len(a.Citations) == 0 {
		cmd.Println("No citations returned.")
		return
	}

	cmd.Printf("Citations (%d):\n", len(a.Citations))
	cmd.Println()
	for i, c := range a.Citations {
		cmd.Printf("  [%d] %s · %s · score %s\n", i+1, c.Source, c.Page, c.Score)
		if c.Text != "" {
			cmd.Printf("      %s\n", c.Text)
		}
		cmd.Println()
	}
}
