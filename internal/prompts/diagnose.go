package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// DiagnosePrompt handles the diagnose-kb MCP prompt.
// It walks the AI from unsatisfiable classes to the axioms causing them.
type DiagnosePrompt struct{}

// NewDiagnosePrompt creates a DiagnosePrompt.
func NewDiagnosePrompt() *DiagnosePrompt {
	return &DiagnosePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *DiagnosePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("diagnose-kb",
		mcp.WithPromptDescription(
			"Find unsatisfiable classes in the knowledge base and the axioms responsible for them.",
		),
	)
}

// Handle processes the diagnose-kb prompt request.
func (p *DiagnosePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Diagnose the knowledge base",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `unsatisfiable_classes`.\n\n" +
						"Then:\n" +
						"1. If every class is satisfiable, say so and stop\n" +
						"2. For each root class R, run `justify` with entailment `R SubClassOf Nothing`\n" +
						"3. Show the laconic form of each justification with `laconic_justification`\n" +
						"4. Suggest the smallest edit that repairs each root, and note which derived classes it also repairs",
				),
			},
		},
	}, nil
}
