package resources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/blackbox"
	"github.com/HendryAvila/justifier/internal/justification"
	"github.com/HendryAvila/justifier/internal/kb"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

func newHandler(t *testing.T) (*Handler, *kb.KnowledgeBase, *justification.Manager) {
	t.Helper()
	base := kb.New()
	m := justification.NewManager(base,
		reasoner.New(base, reasoner.NewSATFactory(0), nil),
		blackbox.New(),
		justification.WithResultCaching(true),
	)
	t.Cleanup(m.Dispose)
	return NewHandler(m, base), base, m
}

func read(t *testing.T, handle func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := handle(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	return tc
}

func TestHandleSettings(t *testing.T) {
	h, base, m := newHandler(t)
	assert.Equal(t, "justifier://settings", h.SettingsResource().URI)

	_, err := base.AddAxioms("u", axiom.MustParse("A SubClassOf B"), axiom.MustParse("B SubClassOf C"))
	require.NoError(t, err)
	m.SetExplanationLimit(3)
	_, err = m.ComputeJustifications(context.Background(), axiom.Subsumption("A", "C"), justification.KindRegular, nil)
	require.NoError(t, err)

	tc := read(t, h.HandleSettings, "justifier://settings")
	assert.Equal(t, "application/json", tc.MIMEType)

	var s Settings
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &s))
	assert.Equal(t, 3, s.ExplanationLimit)
	assert.True(t, s.FindAll)
	assert.True(t, s.ResultCaching)
	assert.Equal(t, map[string]int{"regular": 1, "laconic": 0}, s.Cached)
	assert.Equal(t, kb.Stats{Units: 1, ActiveUnits: 1, Axioms: 2, ActiveAxioms: 2}, s.KB)
}

func TestHandleKB(t *testing.T) {
	h, base, _ := newHandler(t)
	_, err := base.AddAxioms("pets", axiom.MustParse("Cat SubClassOf Animal"))
	require.NoError(t, err)

	tc := read(t, h.HandleKB, "justifier://kb")
	doc, err := kb.ParseDocument([]byte(tc.Text))
	require.NoError(t, err)
	require.Len(t, doc.Units, 1)
	assert.Equal(t, "pets", doc.Units[0].Name)
}
