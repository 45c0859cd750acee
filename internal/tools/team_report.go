package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tgt/internal/templates"
)

// TeamReportTool handles the tgt_team_report MCP tool.
type TeamReportTool struct {
	survey   Survey
	renderer templates.Renderer
}

// NewTeamReportTool creates a TeamReportTool.
func NewTeamReportTool(survey Survey, renderer templates.Renderer) *TeamReportTool {
	return &TeamReportTool{survey: survey, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *TeamReportTool) Definition() mcp.Tool {
	return mcp.NewTool("tgt_team_report",
		mcp.WithDescription(
			"Aggregate every stored result: mean Past, Present, and Future scores "+
				"and how many respondents fall into each archetype.",
		),
	)
}

// Handle processes the tgt_team_report tool call.
func (t *TeamReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := t.survey.TeamReport(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read results: %v", err)), nil
	}

	text, err := t.renderer.Render(templates.TeamReport, templates.NewTeamReportData(rep))
	if err != nil {
		return nil, fmt.Errorf("rendering team report: %w", err)
	}
	return mcp.NewToolResultText(text), nil
}
