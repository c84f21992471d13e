package kbtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/kb"
)

// AddAxiomTool handles the kb_add_axiom MCP tool.
type AddAxiomTool struct {
	kb *kb.KnowledgeBase
}

// NewAddAxiomTool creates an AddAxiomTool.
func NewAddAxiomTool(base *kb.KnowledgeBase) *AddAxiomTool {
	return &AddAxiomTool{kb: base}
}

// Definition returns the MCP tool definition for kb_add_axiom.
func (t *AddAxiomTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_add_axiom",
		mcp.WithDescription(
			"Add axioms to a unit of the knowledge base, creating an active unit if it does not exist. "+
				"Axioms already present are ignored.",
		),
		mcp.WithString("unit",
			mcp.Required(),
			mcp.Description("Unit name"),
		),
		withAxioms(),
	)
}

// Handle processes the kb_add_axiom tool call.
func (t *AddAxiomTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	unit := req.GetString("unit", "")
	if unit == "" {
		return mcp.NewToolResultError("'unit' is required"), nil
	}
	axs, err := axiomsArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(axs) == 0 {
		return mcp.NewToolResultError("'axioms' is required"), nil
	}

	changes, err := t.kb.AddAxioms(unit, axs...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add axioms: %v", err)), nil
	}
	return mcp.NewToolResultText(formatChanges(changes)), nil
}

// ─── RemoveAxiomTool ────────────────────────────────────────────────────────

// RemoveAxiomTool handles the kb_remove_axiom MCP tool.
type RemoveAxiomTool struct {
	kb *kb.KnowledgeBase
}

// NewRemoveAxiomTool creates a RemoveAxiomTool.
func NewRemoveAxiomTool(base *kb.KnowledgeBase) *RemoveAxiomTool {
	return &RemoveAxiomTool{kb: base}
}

// Definition returns the MCP tool definition for kb_remove_axiom.
func (t *RemoveAxiomTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_remove_axiom",
		mcp.WithDescription(
			"Remove axioms from a unit. Axioms the unit does not hold are ignored. "+
				"Pass remove_unit=true without axioms to delete the whole unit.",
		),
		mcp.WithString("unit",
			mcp.Required(),
			mcp.Description("Unit name"),
		),
		mcp.WithArray("axioms",
			mcp.Description("Axioms to remove"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("remove_unit",
			mcp.Description("Delete the unit and all its axioms (default: false)"),
		),
	)
}

// Handle processes the kb_remove_axiom tool call.
func (t *RemoveAxiomTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	unit := req.GetString("unit", "")
	if unit == "" {
		return mcp.NewToolResultError("'unit' is required"), nil
	}

	if boolArg(req, "remove_unit", false) {
		changes, err := t.kb.RemoveUnit(unit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to remove unit: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Unit %q removed. %s", unit, formatChanges(changes))), nil
	}

	axs, err := axiomsArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(axs) == 0 {
		return mcp.NewToolResultError("'axioms' is required unless remove_unit is set"), nil
	}
	changes, err := t.kb.RemoveAxioms(unit, axs...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove axioms: %v", err)), nil
	}
	return mcp.NewToolResultText(formatChanges(changes)), nil
}

// ─── ActivateTool ───────────────────────────────────────────────────────────

// ActivateTool handles the kb_activate MCP tool.
type ActivateTool struct {
	kb *kb.KnowledgeBase
}

// NewActivateTool creates an ActivateTool.
func NewActivateTool(base *kb.KnowledgeBase) *ActivateTool {
	return &ActivateTool{kb: base}
}

// Definition returns the MCP tool definition for kb_activate.
func (t *ActivateTool) Definition() mcp.Tool {
	return mcp.NewTool("kb_activate",
		mcp.WithDescription(
			"Switch a unit on or off. Only active units take part in reasoning and justification.",
		),
		mcp.WithString("unit",
			mcp.Required(),
			mcp.Description("Unit name"),
		),
		mcp.WithBoolean("active",
			mcp.Description("New state (default: true)"),
		),
	)
}

// Handle processes the kb_activate tool call.
func (t *ActivateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	unit := req.GetString("unit", "")
	if unit == "" {
		return mcp.NewToolResultError("'unit' is required"), nil
	}
	active := boolArg(req, "active", true)

	changes, err := t.kb.SetActive(unit, active)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update unit: %v", err)), nil
	}
	state := "active"
	if !active {
		state = "inactive"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Unit %q is %s. %s", unit, state, formatChanges(changes))), nil
}
