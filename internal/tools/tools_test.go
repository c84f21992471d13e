package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/blackbox"
	"github.com/HendryAvila/justifier/internal/justification"
	"github.com/HendryAvila/justifier/internal/kb"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

type env struct {
	kb       *kb.KnowledgeBase
	manager  *justification.Manager
	resolver *Resolver
}

func newEnv(t *testing.T, axioms ...string) *env {
	t.Helper()
	base := kb.New()
	for _, a := range axioms {
		_, err := base.AddAxioms("main", axiom.MustParse(a))
		require.NoError(t, err)
	}
	m := justification.NewManager(base,
		reasoner.New(base, reasoner.NewSATFactory(0), nil),
		blackbox.New(blackbox.WithWorkers(2)),
		justification.WithResultCaching(true),
	)
	sessions := justification.NewSessions()
	t.Cleanup(sessions.CloseAll)
	id := sessions.Open(m)
	return &env{kb: base, manager: m, resolver: NewResolver(sessions, id)}
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
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

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewJustifyTool(e.resolver).Definition(), "justify", []string{"entailment"}},
		{NewLaconicTool(e.resolver).Definition(), "laconic_justification", []string{"entailment"}},
		{NewCountTool(e.resolver).Definition(), "explanation_count", []string{"entailment"}},
		{NewSettingsTool(e.resolver).Definition(), "explanation_settings", nil},
		{NewUnsatTool(e.resolver).Definition(), "unsatisfiable_classes", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.def.Name)
			assert.ElementsMatch(t, tt.required, tt.def.InputSchema.Required)
			assert.Contains(t, tt.def.InputSchema.Properties, "session")
		})
	}
}

// ─── JustifyTool ─────────────────────────────────────────────────────────────

func TestJustifyTool_Chain(t *testing.T) {
	e := newEnv(t, "Cat SubClassOf Mammal", "Mammal SubClassOf Animal")
	res := call(t, NewJustifyTool(e.resolver).Handle, map[string]interface{}{"entailment": "Cat SubClassOf Animal"})

	require.False(t, res.IsError, resultText(res))
	text := resultText(res)
	assert.Contains(t, text, "**Found**: 1")
	assert.Contains(t, text, "- Cat SubClassOf Mammal")
	assert.Contains(t, text, "- Mammal SubClassOf Animal")
}

func TestJustifyTool_NotEntailed(t *testing.T) {
	e := newEnv(t, "Cat SubClassOf Mammal")
	res := call(t, NewJustifyTool(e.resolver).Handle, map[string]interface{}{"entailment": "Cat SubClassOf Animal"})

	require.False(t, res.IsError)
	assert.Contains(t, resultText(res), "No justifications")
}

func TestJustifyTool_Errors(t *testing.T) {
	e := newEnv(t)
	tool := NewJustifyTool(e.resolver)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing entailment", map[string]interface{}{}, "'entailment' is required"},
		{"bad syntax", map[string]interface{}{"entailment": "Cat Likes Fish"}, "syntax"},
		{"bad kind", map[string]interface{}{"entailment": "A SubClassOf B", "kind": "verbose"}, "kind"},
		{"bad session", map[string]interface{}{"entailment": "A SubClassOf B", "session": "nope"}, "unknown justification session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, tool.Handle, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(res), tt.want)
		})
	}
}

func TestEntailmentArg(t *testing.T) {
	_, err := entailmentArg(makeReq(map[string]interface{}{"entailment": "  "}))
	assert.True(t, errors.Is(err, errMissingEntailment))

	_, err = entailmentArg(makeReq(map[string]interface{}{"entailment": "Cat Likes Fish"}))
	assert.True(t, errors.Is(err, axiom.ErrSyntax))

	e, err := entailmentArg(makeReq(map[string]interface{}{"entailment": "Cat SubClassOf Animal"}))
	require.NoError(t, err)
	assert.Equal(t, "Cat SubClassOf Animal", e.Key())
}

func TestJustifyTool_Monitor(t *testing.T) {
	e := newEnv(t, "A SubClassOf B", "B SubClassOf C")
	tool := NewJustifyTool(e.resolver)
	var found int
	tool.SetMonitor(justification.MonitorFunc(func(justification.Explanation) { found++ }))

	res := call(t, tool.Handle, map[string]interface{}{"entailment": "A SubClassOf C", "timeout_ms": float64(10000)})
	require.False(t, res.IsError, resultText(res))
	assert.Equal(t, 1, found)
}

// ─── LaconicTool ─────────────────────────────────────────────────────────────

func TestLaconicTool_FromAxioms(t *testing.T) {
	e := newEnv(t)
	res := call(t, NewLaconicTool(e.resolver).Handle, map[string]interface{}{
		"entailment": "Cat SubClassOf Animal",
		"axioms":     []interface{}{"Cat SubClassOf Mammal and Pet", "Mammal SubClassOf Animal"},
	})

	require.False(t, res.IsError, resultText(res))
	text := resultText(res)
	assert.Contains(t, text, "- Cat SubClassOf Mammal\n")
	assert.NotContains(t, text, "Pet")
}

func TestLaconicTool_FromRegular(t *testing.T) {
	e := newEnv(t, "Cat SubClassOf Mammal and Pet", "Mammal SubClassOf Animal")
	res := call(t, NewLaconicTool(e.resolver).Handle, map[string]interface{}{"entailment": "Cat SubClassOf Animal"})

	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "**Found**: 1")
	assert.NotContains(t, resultText(res), "Pet")
}

func TestLaconicTool_BadAxiom(t *testing.T) {
	e := newEnv(t)
	res := call(t, NewLaconicTool(e.resolver).Handle, map[string]interface{}{
		"entailment": "Cat SubClassOf Animal",
		"axioms":     []interface{}{"Cat IsA Animal"},
	})
	assert.True(t, res.IsError)
}

// ─── CountTool ───────────────────────────────────────────────────────────────

func TestCountTool(t *testing.T) {
	e := newEnv(t, "A SubClassOf B", "B SubClassOf C")
	count := NewCountTool(e.resolver)
	args := map[string]interface{}{"entailment": "A SubClassOf C"}

	assert.True(t, strings.HasPrefix(resultText(call(t, count.Handle, args)), "-1"))

	call(t, NewJustifyTool(e.resolver).Handle, args)
	assert.True(t, strings.HasPrefix(resultText(call(t, count.Handle, args)), "1 cached regular"))

	_, err := e.kb.AddAxioms("other", axiom.MustParse("X SubClassOf Y"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resultText(call(t, count.Handle, args)), "-1"))
}

// ─── SettingsTool ────────────────────────────────────────────────────────────

func TestSettingsTool(t *testing.T) {
	e := newEnv(t)
	var changes int
	e.manager.AddListener(&justification.ListenerFuncs{OnLimitChanged: func(*justification.Manager) { changes++ }})
	tool := NewSettingsTool(e.resolver)

	text := resultText(call(t, tool.Handle, map[string]interface{}{}))
	assert.Contains(t, text, "**Limit**: 2")
	assert.Contains(t, text, "**Find all**: true")
	assert.Equal(t, 0, changes)

	text = resultText(call(t, tool.Handle, map[string]interface{}{"limit": float64(0), "find_all": false}))
	assert.Contains(t, text, "**Limit**: unlimited")
	assert.Contains(t, text, "**Find all**: false")
	assert.Contains(t, text, "**Result caching**: true")
	assert.Equal(t, 2, changes)
	assert.Equal(t, 0, e.manager.ExplanationLimit())
	assert.False(t, e.manager.FindAllExplanations())
}

// ─── UnsatTool ───────────────────────────────────────────────────────────────

func TestUnsatTool(t *testing.T) {
	e := newEnv(t, "Root SubClassOf P and not P", "Child SubClassOf Root")
	text := resultText(call(t, NewUnsatTool(e.resolver).Handle, map[string]interface{}{}))

	assert.Contains(t, text, "### Roots (1)\n- Root")
	assert.Contains(t, text, "- Child (from Root)")
}

func TestUnsatTool_AllSatisfiable(t *testing.T) {
	e := newEnv(t, "A SubClassOf B")
	text := resultText(call(t, NewUnsatTool(e.resolver).Handle, map[string]interface{}{}))
	assert.Equal(t, "Every class is satisfiable.", text)
}
