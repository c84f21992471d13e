// Package tools implements the MCP tool handlers of the justification
// engine.
//
// Each tool follows the same shape:
//   - a struct with its dependencies injected through the constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() processes the request and returns a result
//
// Domain failures are reported as tool errors (mcp.NewToolResultError),
// never as Go errors, so the client sees them as regular tool output.
package tools

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/justification"
)

// Resolver maps the optional "session" argument of a request to the
// manager serving it.
type Resolver struct {
	sessions  *justification.Sessions
	defaultID string
}

// NewResolver returns a resolver that falls back to defaultID when a
// request names no session.
func NewResolver(sessions *justification.Sessions, defaultID string) *Resolver {
	return &Resolver{sessions: sessions, defaultID: defaultID}
}

// Manager returns the manager for req's session.
func (r *Resolver) Manager(req mcp.CallToolRequest) (*justification.Manager, error) {
	return r.sessions.Lookup(req.GetString("session", r.defaultID))
}

func withSession() mcp.ToolOption {
	return mcp.WithString("session",
		mcp.Description("Justification session id (default: the server's session)"),
	)
}

func withKind() mcp.ToolOption {
	return mcp.WithString("kind",
		mcp.Description("Justification kind: regular (default) or laconic"),
		mcp.Enum(justification.Kinds()...),
	)
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// stringsArg extracts a string array argument. Non-string items are skipped.
func stringsArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// hasArg reports whether the request carries key at all.
func hasArg(req mcp.CallToolRequest, key string) bool {
	_, ok := req.GetArguments()[key]
	return ok
}

var errMissingEntailment = errors.New("'entailment' is required")

// entailmentArg parses the required "entailment" argument.
func entailmentArg(req mcp.CallToolRequest) (axiom.Axiom, error) {
	text := strings.TrimSpace(req.GetString("entailment", ""))
	if text == "" {
		return axiom.Axiom{}, errMissingEntailment
	}
	return axiom.Parse(text)
}

// formatResult renders a result as markdown, one section per explanation.
func formatResult(title string, kind justification.Kind, r *justification.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s for `%s`\n\n", title, r.Entailment())
	fmt.Fprintf(&sb, "- **Kind**: %s\n- **Found**: %d\n", kind, r.Len())

	if r.Len() == 0 {
		sb.WriteString("\nNo justifications: the entailment does not follow from the axioms searched.\n")
		return sb.String()
	}
	for i, x := range r.Explanations() {
		fmt.Fprintf(&sb, "\n### %d. (%d axioms)\n", i+1, x.Size())
		writeAxioms(&sb, x.Axioms())
	}
	return sb.String()
}

func writeAxioms(sb *strings.Builder, axs []axiom.Axiom) {
	for _, a := range axs {
		fmt.Fprintf(sb, "- %s\n", a)
	}
}
