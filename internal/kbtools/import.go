package kbtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/kb"
)

// ImportTool handles the kb_import MCP tool.
type ImportTool struct {
	kb *kb.KnowledgeBase
}

// NewImportTool creates an ImportTool.
func NewImportTool(base *kb.KnowledgeBase) *ImportTool {
	return &ImportTool{kb: base}
}

// Definition returns the MCP tool definition for kb_import.
func (t *ImportTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_import",
		mcp.WithDescription(
			"Import a YAML knowledge-base document. Each unit in the document replaces the unit of the same name; "+
				"other units are left alone. Pass either a file path or the document itself.",
		),
		mcp.WithString("path",
			mcp.Description("Path of a YAML document on the server's filesystem"),
		),
		mcp.WithString("document",
			mcp.Description("YAML document content, e.g. 'units: [{name: pets, axioms: [Cat SubClassOf Animal]}]'"),
		),
	)
}

// Handle processes the kb_import tool call.
func (t *ImportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	content := req.GetString("document", "")

	var (
		changes []axiom.Change
		err     error
	)
	switch {
	case path != "" && content != "":
		return mcp.NewToolResultError("pass either 'path' or 'document', not both"), nil
	case path != "":
		changes, err = t.kb.ImportFile(path)
	case content != "":
		var doc *kb.Document
		doc, err = kb.ParseDocument([]byte(content))
		if err == nil {
			changes, err = t.kb.Import(doc)
		}
	default:
		return mcp.NewToolResultError("'path' or 'document' is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatChanges(changes)), nil
}
