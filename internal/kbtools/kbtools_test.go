package kbtools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/kb"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func call(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	res, err := handle(context.Background(), makeReq(args))
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

type recorder struct{ batches int }

func (r *recorder) AxiomsChanged([]axiom.Change) { r.batches++ }

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	base := kb.New()
	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewAddAxiomTool(base).Definition(), "kb_add_axiom", []string{"unit", "axioms"}},
		{NewRemoveAxiomTool(base).Definition(), "kb_remove_axiom", []string{"unit"}},
		{NewActivateTool(base).Definition(), "kb_activate", []string{"unit"}},
		{NewListTool(base).Definition(), "kb_list", nil},
		{NewImportTool(base).Definition(), "kb_import", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.def.Name)
			assert.ElementsMatch(t, tt.required, tt.def.InputSchema.Required)
		})
	}
}

// ─── Add / Remove ────────────────────────────────────────────────────────────

func TestAddAxiomTool(t *testing.T) {
	base := kb.New()
	rec := &recorder{}
	base.AddChangeListener(rec)
	tool := NewAddAxiomTool(base)

	res := call(t, tool.Handle, map[string]interface{}{
		"unit":   "pets",
		"axioms": []interface{}{"Cat SubClassOf Animal", "tom Type Cat"},
	})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "2 change(s)")
	assert.Contains(t, resultText(res), "- add [pets] tom Type Cat")
	assert.Equal(t, 1, rec.batches)

	res = call(t, tool.Handle, map[string]interface{}{"unit": "pets", "axioms": "Cat SubClassOf Animal\n"})
	assert.Equal(t, "No changes.", resultText(res))
	assert.Equal(t, 1, rec.batches)
}

func TestAddAxiomTool_Errors(t *testing.T) {
	tool := NewAddAxiomTool(kb.New())

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing unit", map[string]interface{}{"axioms": []interface{}{"A SubClassOf B"}}, "'unit' is required"},
		{"missing axioms", map[string]interface{}{"unit": "u"}, "'axioms' is required"},
		{"non-string axiom", map[string]interface{}{"unit": "u", "axioms": []interface{}{3.0}}, "expected a string"},
		{"bad axiom", map[string]interface{}{"unit": "u", "axioms": []interface{}{"A Likes B"}}, "syntax"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, tool.Handle, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(res), tt.want)
		})
	}
}

func TestRemoveAxiomTool(t *testing.T) {
	base := kb.New()
	_, err := base.AddAxioms("pets", axiom.MustParse("Cat SubClassOf Animal"), axiom.MustParse("Dog SubClassOf Animal"))
	require.NoError(t, err)
	tool := NewRemoveAxiomTool(base)

	res := call(t, tool.Handle, map[string]interface{}{"unit": "pets", "axioms": []interface{}{"Dog SubClassOf Animal"}})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "- remove [pets] Dog SubClassOf Animal")

	res = call(t, tool.Handle, map[string]interface{}{"unit": "pets"})
	assert.True(t, res.IsError)

	res = call(t, tool.Handle, map[string]interface{}{"unit": "pets", "remove_unit": true})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), `Unit "pets" removed`)
	assert.Empty(t, base.Units())

	res = call(t, tool.Handle, map[string]interface{}{"unit": "pets", "remove_unit": true})
	assert.True(t, res.IsError)
}

// ─── Activate ────────────────────────────────────────────────────────────────

func TestActivateTool(t *testing.T) {
	base := kb.New()
	_, err := base.AddAxioms("drafts", axiom.MustParse("A SubClassOf B"))
	require.NoError(t, err)
	tool := NewActivateTool(base)

	res := call(t, tool.Handle, map[string]interface{}{"unit": "drafts", "active": false})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "is inactive")
	assert.Contains(t, resultText(res), "- remove [drafts] A SubClassOf B")
	assert.Empty(t, base.Axioms())

	res = call(t, tool.Handle, map[string]interface{}{"unit": "drafts"})
	assert.Contains(t, resultText(res), "is active")
	assert.Len(t, base.Axioms(), 1)

	res = call(t, tool.Handle, map[string]interface{}{"unit": "nope"})
	assert.True(t, res.IsError)
}

// ─── List ────────────────────────────────────────────────────────────────────

func TestListTool(t *testing.T) {
	base := kb.New()
	_, _ = base.AddAxioms("pets", axiom.MustParse("Cat SubClassOf Animal"))
	_, _ = base.AddAxioms("drafts", axiom.MustParse("Cat DisjointWith Animal"))
	_, _ = base.SetActive("drafts", false)
	tool := NewListTool(base)

	text := resultText(call(t, tool.Handle, map[string]interface{}{}))
	assert.Contains(t, text, "**Units**: 2 (1 active)")
	assert.Contains(t, text, "### pets (active, 1 axioms)")
	assert.Contains(t, text, "### drafts (inactive, 1 axioms)")

	text = resultText(call(t, tool.Handle, map[string]interface{}{"unit": "pets"}))
	assert.NotContains(t, text, "### drafts")

	res := call(t, tool.Handle, map[string]interface{}{"unit": "nope"})
	assert.True(t, res.IsError)

	text = resultText(call(t, tool.Handle, map[string]interface{}{"yaml": true}))
	doc, err := kb.ParseDocument([]byte(text))
	require.NoError(t, err)
	assert.Len(t, doc.Units, 2)
}

// ─── Import ──────────────────────────────────────────────────────────────────

func TestImportTool_Document(t *testing.T) {
	base := kb.New()
	tool := NewImportTool(base)

	res := call(t, tool.Handle, map[string]interface{}{
		"document": "units:\n  - name: pets\n    axioms: [Cat SubClassOf Animal, tom Type Cat]\n",
	})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "2 change(s)")
	assert.Len(t, base.Axioms(), 2)
}

func TestImportTool_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units:\n  - name: u\n    axioms: [A SubClassOf B]\n"), 0o644))
	base := kb.New()

	res := call(t, NewImportTool(base).Handle, map[string]interface{}{"path": path})
	require.False(t, res.IsError, resultText(res))
	assert.Len(t, base.Axioms(), 1)
}

func TestImportTool_Errors(t *testing.T) {
	tool := NewImportTool(kb.New())

	for name, args := range map[string]map[string]interface{}{
		"neither":      {},
		"both":         {"path": "x.yaml", "document": "units: []"},
		"missing file": {"path": filepath.Join(t.TempDir(), "nope.yaml")},
		"bad axiom":    {"document": "units:\n  - name: u\n    axioms: [A Likes B]\n"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, call(t, tool.Handle, args).IsError)
		})
	}
}
