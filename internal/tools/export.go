package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tgt/internal/survey"
)

// ExportScoresTool handles the tgt_export_scores MCP tool.
type ExportScoresTool struct {
	survey Survey
}

// NewExportScoresTool creates an ExportScoresTool.
func NewExportScoresTool(survey Survey) *ExportScoresTool {
	return &ExportScoresTool{survey: survey}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportScoresTool) Definition() mcp.Tool {
	return mcp.NewTool("tgt_export_scores",
		mcp.WithDescription(
			"Export the three category scores of a submission as CSV "+
				"(temporal_focus_results.csv). Works even if saving the result failed.",
		),
		mcp.WithString("submission_id",
			mcp.Required(),
			mcp.Description("Submission id returned by tgt_submit"),
		),
	)
}

// Handle processes the tgt_export_scores tool call.
func (t *ExportScoresTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("submission_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'submission_id' is required"), nil
	}

	a, err := t.survey.ExportScores(id)
	if err != nil {
		if errors.Is(err, survey.ErrUnknownSubmission) {
			return mcp.NewToolResultError(fmt.Sprintf("no submission %q in this session: submit the questionnaire first", id)), nil
		}
		return nil, fmt.Errorf("exporting scores: %w", err)
	}
	return mcp.NewToolResultText(formatArtifact("Score Export", a)), nil
}

// ExportJournalTool handles the tgt_export_journal MCP tool.
type ExportJournalTool struct {
	survey Survey
}

// NewExportJournalTool creates an ExportJournalTool.
func NewExportJournalTool(survey Survey) *ExportJournalTool {
	return &ExportJournalTool{survey: survey}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportJournalTool) Definition() mcp.Tool {
	return mcp.NewTool("tgt_export_journal",
		mcp.WithDescription(
			"Attach a free-text reflection to a submission and export it as "+
				"<user_id>_TGT_Journal.csv. The journal is not stored.",
		),
		mcp.WithString("submission_id",
			mcp.Required(),
			mcp.Description("Submission id returned by tgt_submit"),
		),
		mcp.WithString("journal",
			mcp.Required(),
			mcp.Description("The user's reflection on their result"),
		),
	)
}

// Handle processes the tgt_export_journal tool call.
func (t *ExportJournalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("submission_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'submission_id' is required"), nil
	}
	text := strings.TrimSpace(req.GetString("journal", ""))
	if text == "" {
		return mcp.NewToolResultError("'journal' is required"), nil
	}

	a, err := t.survey.Journal(id, text)
	if err != nil {
		if errors.Is(err, survey.ErrUnknownSubmission) {
			return mcp.NewToolResultError(fmt.Sprintf("no submission %q in this session: submit the questionnaire first", id)), nil
		}
		return nil, fmt.Errorf("exporting journal: %w", err)
	}
	return mcp.NewToolResultText(formatArtifact("Journal Export", a)), nil
}
