// Package prompts implements the MCP prompts of the justification server.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
)

// ExplainPrompt handles the explain-entailment MCP prompt.
// It asks the AI to justify an entailment and walk the user through it.
type ExplainPrompt struct{}

// NewExplainPrompt creates an ExplainPrompt.
func NewExplainPrompt() *ExplainPrompt {
	return &ExplainPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ExplainPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("explain-entailment",
		mcp.WithPromptDescription(
			"Explain why an axiom follows from the knowledge base, "+
				"using regular and laconic justifications.",
		),
		mcp.WithArgument("entailment",
			mcp.ArgumentDescription("Axiom to explain, e.g. 'Cat SubClassOf Animal'"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("kind",
			mcp.ArgumentDescription("regular (default) or laconic"),
		),
	)
}

// Handle processes the explain-entailment prompt request.
func (p *ExplainPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	entailment := strings.TrimSpace(req.Params.Arguments["entailment"])
	if entailment == "" {
		return nil, errors.New("argument 'entailment' is required")
	}
	kind := req.Params.Arguments["kind"]
	if kind == "" {
		kind = "regular"
	}

	return &mcp.GetPromptResult{
		Description: "Explain an entailment",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please run `justify` with entailment `%s` and kind `%s`.\n\n"+
						"Then:\n"+
						"1. If no justification was found, say the axiom does not follow and stop\n"+
						"2. For each justification, explain step by step how its axioms lead to the entailment\n"+
						"3. Run `laconic_justification` and point out which parts of each axiom were not needed\n"+
						"4. If the knowledge base is inconsistent, say so: the justifications then explain the inconsistency",
					entailment, kind,
				)),
			},
		},
	}, nil
}
