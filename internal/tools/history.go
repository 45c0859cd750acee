package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/templates"
)

// HistoryTool handles the tgt_history MCP tool.
type HistoryTool struct {
	survey   Survey
	renderer templates.Renderer
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(survey Survey, renderer templates.Renderer) *HistoryTool {
	return &HistoryTool{survey: survey, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("tgt_history",
		mcp.WithDescription("Show every past assessment result for one user, newest first."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Respondent identifier used when submitting"),
		),
	)
}

// Handle processes the tgt_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := assessment.NormalizeUserID(req.GetString("user_id", ""))
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}

	records, err := t.survey.History(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %v", err)), nil
	}

	text, err := t.renderer.Render(templates.History, templates.NewHistoryData(userID, records, timeNow()))
	if err != nil {
		return nil, fmt.Errorf("rendering history: %w", err)
	}
	return mcp.NewToolResultText(text), nil
}
