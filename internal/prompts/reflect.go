package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReflectPrompt handles the tgt-reflect MCP prompt.
// It guides a short journaling exercise on a submitted result.
type ReflectPrompt struct{}

// NewReflectPrompt creates a ReflectPrompt.
func NewReflectPrompt() *ReflectPrompt {
	return &ReflectPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReflectPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tgt-reflect",
		mcp.WithPromptDescription(
			"Reflect on your assessment result and export a journal entry.",
		),
		mcp.WithArgument("submission_id",
			mcp.ArgumentDescription("Submission id from tgt_submit"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the tgt-reflect prompt request.
func (p *ReflectPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := ""
	if args := req.Params.Arguments; args != nil {
		id = strings.TrimSpace(args["submission_id"])
	}
	if id == "" {
		return nil, fmt.Errorf("submission_id is required")
	}

	return &mcp.GetPromptResult{
		Description: "Reflect on assessment " + id,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I'd like to reflect on my Temporal Focus result (submission '%s').\n\n"+
						"Please:\n"+
						"1. Remind me of my archetype and its tips\n"+
						"2. Ask me two or three short questions about how that focus shows up in my week\n"+
						"3. Summarize my answers into a short journal entry and confirm it with me\n"+
						"4. Run `tgt_export_journal` with submission_id='%s' and the confirmed entry",
					id, id,
				)),
			},
		},
	}, nil
}
