package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tgt/internal/templates"
)

// QuestionsTool handles the tgt_questions MCP tool.
type QuestionsTool struct {
	survey   Survey
	renderer templates.Renderer
}

// NewQuestionsTool creates a QuestionsTool.
func NewQuestionsTool(survey Survey, renderer templates.Renderer) *QuestionsTool {
	return &QuestionsTool{survey: survey, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *QuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("tgt_questions",
		mcp.WithDescription(
			"List the Temporal Focus Assessment statements. "+
				"Ask the user to rate each one from 1 (strongly disagree) to 7 (strongly agree), "+
				"then call tgt_submit with their user id and answers.",
		),
	)
}

// Handle processes the tgt_questions tool call.
func (t *QuestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := t.renderer.Render(templates.Questions, templates.NewQuestionsData(t.survey.Bank()))
	if err != nil {
		return nil, fmt.Errorf("rendering questions: %w", err)
	}
	return mcp.NewToolResultText(out), nil
}
