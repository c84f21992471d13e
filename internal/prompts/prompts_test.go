package prompts

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, r.Messages, 1)
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestExplainPrompt(t *testing.T) {
	p := NewExplainPrompt()
	assert.Equal(t, "explain-entailment", p.Definition().Name)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"entailment": "Cat SubClassOf Animal"}
	res, err := p.Handle(context.Background(), req)
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, "`Cat SubClassOf Animal`")
	assert.Contains(t, text, "kind `regular`")
}

func TestExplainPrompt_RequiresEntailment(t *testing.T) {
	_, err := NewExplainPrompt().Handle(context.Background(), mcp.GetPromptRequest{})
	assert.Error(t, err)
}

func TestDiagnosePrompt(t *testing.T) {
	p := NewDiagnosePrompt()
	assert.Equal(t, "diagnose-kb", p.Definition().Name)

	res, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	require.NoError(t, err)
	assert.Contains(t, promptText(t, res), "unsatisfiable_classes")
}
