package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/tgt/internal/assessment"
	"github.com/HendryAvila/tgt/internal/templates"
)

// SubmitTool handles the tgt_submit MCP tool.
// It scores one questionnaire, stores the result, and renders the profile.
type SubmitTool struct {
	survey   Survey
	renderer templates.Renderer
}

// NewSubmitTool creates a SubmitTool.
func NewSubmitTool(survey Survey, renderer templates.Renderer) *SubmitTool {
	return &SubmitTool{survey: survey, renderer: renderer}
}

// Definition returns the MCP tool definition. Each question becomes a
// number argument named by its id.
func (t *SubmitTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Submit a completed Temporal Focus Assessment. Scores Past, Present, and Future focus, " +
				"assigns an archetype, and appends the result to the shared results store. " +
				"Every statement must be answered with a whole number from 1 to 7, either as " +
				"one argument per question id or via 'responses'.",
		),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Respondent identifier (name or email). Used for history lookups."),
		),
		mcp.WithString("responses",
			mcp.Description(`All answers at once: a JSON object like {"P1": 4, "PR1": 6} or pairs like "P1=4, PR1=6".`),
		),
	}
	for _, q := range t.survey.Bank().Questions() {
		opts = append(opts, mcp.WithNumber(q.ID,
			mcp.Description(fmt.Sprintf("[%s] %s (1-7)", q.Category, q.Text)),
		))
	}
	return mcp.NewTool("tgt_submit", opts...)
}

// Handle processes the tgt_submit tool call.
func (t *SubmitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := strings.TrimSpace(req.GetString("user_id", ""))
	if userID == "" {
		return mcp.NewToolResultError("'user_id' is required: please enter your name or email before submitting"), nil
	}

	rs, err := parseResponses(req, t.survey.Bank())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := t.survey.Submit(ctx, userID, rs)
	if err != nil {
		var verr *assessment.ValidationError
		if errors.Is(err, assessment.ErrMissingUserID) || errors.As(err, &verr) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("submitting: %w", err)
	}

	data := templates.NewResultData(assessment.Submitted{Submission: out.Submission}, out.SaveErr)
	text, err := t.renderer.Render(templates.Result, data)
	if err != nil {
		return nil, fmt.Errorf("rendering result: %w", err)
	}
	return mcp.NewToolResultText(text), nil
}
