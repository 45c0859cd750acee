// Package prompts implements MCP prompt handlers for the questionnaire.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a sequence of tool calls. Unlike tools, which
// the AI calls, prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the tgt-start MCP prompt.
// It walks the AI through collecting answers and submitting them.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tgt-start",
		mcp.WithPromptDescription(
			"Take the Temporal Focus Assessment: rate 15 statements and "+
				"discover whether you lean toward the Past, Present, or Future.",
		),
		mcp.WithArgument("user_id",
			mcp.ArgumentDescription("Your name or email, used to keep your history"),
		),
	)
}

// Handle processes the tgt-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	userID := ""
	if args := req.Params.Arguments; args != nil {
		userID = strings.TrimSpace(args["user_id"])
	}

	identify := "1. Ask me for my name or email first. Do not submit without it.\n"
	if userID != "" {
		identify = fmt.Sprintf("1. My user id is '%s'.\n", userID)
	}

	return &mcp.GetPromptResult{
		Description: "Start the Temporal Focus Assessment",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to take the Temporal Focus Assessment.\n\n" +
						"Please:\n" +
						identify +
						"2. Run `tgt_questions` and show me the statements a few at a time\n" +
						"3. Collect a rating from 1 (strongly disagree) to 7 (strongly agree) for every statement; 4 is neutral\n" +
						"4. Run `tgt_submit` with my user id and all 15 answers\n" +
						"5. Explain my dominant focus and archetype, and offer `tgt_export_scores` and `tgt_history`",
				),
			},
		},
	}, nil
}
