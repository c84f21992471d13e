// Package resources implements MCP resource handlers of the justification
// server.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (justifier://...).
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/justifier/internal/justification"
	"github.com/HendryAvila/justifier/internal/kb"
)

// Handler manages justifier resource endpoints.
type Handler struct {
	manager *justification.Manager
	kb      *kb.KnowledgeBase
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(m *justification.Manager, base *kb.KnowledgeBase) *Handler {
	return &Handler{manager: m, kb: base}
}

// Settings is the JSON body of justifier://settings.
type Settings struct {
	ExplanationLimit int            `json:"explanation_limit"`
	FindAll          bool           `json:"find_all"`
	ResultCaching    bool           `json:"result_caching"`
	Cached           map[string]int `json:"cached"`
	KB               kb.Stats       `json:"kb"`
}

// SettingsResource returns the MCP resource definition for the settings.
func (h *Handler) SettingsResource() mcp.Resource {
	return mcp.NewResource(
		"justifier://settings",
		"Justification Settings",
		mcp.WithResourceDescription("Explanation limit, find-all and caching flags, cache sizes and knowledge-base statistics"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSettings returns the current settings as JSON.
func (h *Handler) HandleSettings(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s := Settings{
		ExplanationLimit: h.manager.ExplanationLimit(),
		FindAll:          h.manager.FindAllExplanations(),
		ResultCaching:    h.manager.ResultCaching(),
		Cached:           make(map[string]int),
		KB:               h.kb.Stats(),
	}
	for _, k := range justification.Kinds() {
		s.Cached[k] = h.manager.Caches().Cache(justification.Kind(k)).Len()
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling settings")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// KBResource returns the MCP resource definition for the knowledge base
// document.
func (h *Handler) KBResource() mcp.Resource {
	return mcp.NewResource(
		"justifier://kb",
		"Knowledge Base",
		mcp.WithResourceDescription("Every unit of the knowledge base as an importable YAML document"),
		mcp.WithMIMEType("application/yaml"),
	)
}

// HandleKB returns the knowledge base as YAML.
func (h *Handler) HandleKB(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := h.kb.Export().Marshal()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/yaml",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
