// Package server wires all components and creates the MCP server instance.
//
// This is the composition root: it creates the knowledge base, the reasoner,
// the search service and the justification manager, and injects them into
// the tools, prompts and resources that depend on them. No business logic
// lives here, only wiring.
package server

import (
	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/blackbox"
	"github.com/HendryAvila/justifier/internal/config"
	"github.com/HendryAvila/justifier/internal/justification"
	"github.com/HendryAvila/justifier/internal/kb"
	"github.com/HendryAvila/justifier/internal/kbtools"
	"github.com/HendryAvila/justifier/internal/logging"
	"github.com/HendryAvila/justifier/internal/metrics"
	"github.com/HendryAvila/justifier/internal/prompts"
	"github.com/HendryAvila/justifier/internal/reasoner"
	"github.com/HendryAvila/justifier/internal/resources"
	"github.com/HendryAvila/justifier/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App is everything New builds. The command layer starts Watcher and serves
// Metrics; the rest is reachable through MCP.
type App struct {
	MCP       *server.MCPServer
	KB        *kb.KnowledgeBase
	Manager   *justification.Manager
	Sessions  *justification.Sessions
	SessionID string
	Metrics   *metrics.Collector
	// Watcher is nil when no KB files are configured.
	Watcher *kb.Watcher
}

// NewEngine builds a justification manager over base configured from cfg.
func NewEngine(cfg *config.Config, base *kb.KnowledgeBase, logger *zap.SugaredLogger) *justification.Manager {
	r := reasoner.New(base, reasoner.NewSATFactory(cfg.Search.PollInterval), logging.Component(logger, "reasoner"))
	svc := blackbox.New(
		blackbox.WithWorkers(cfg.Search.Workers),
		blackbox.WithLogger(logging.Component(logger, "search")),
	)
	return justification.NewManager(base, r, svc,
		justification.WithLogger(logging.Component(logger, "justification")),
		justification.WithExplanationLimit(cfg.Explanation.Limit),
		justification.WithFindAll(cfg.Explanation.FindAll),
		justification.WithResultCaching(cfg.Explanation.CacheResults),
	)
}

// New creates the server with all tools, prompts and resources registered.
// This is the single place where all dependencies are resolved.
//
// The returned cleanup function disposes the manager, stops the watcher and
// closes the store. It is always non-nil and safe to call even if New
// failed.
func New(cfg *config.Config, logger *zap.SugaredLogger) (*App, func(), error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// --- Knowledge base ---

	store, err := kb.NewStore(kb.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, noop, errors.Wrap(err, "creating kb store")
	}
	kbLogger := logging.Component(logger, "kb")
	base, err := kb.Open(store, kb.WithLogger(kbLogger))
	if err != nil {
		_ = store.Close()
		return nil, noop, errors.Wrap(err, "loading knowledge base")
	}
	for _, path := range cfg.KB.Files {
		changes, err := base.ImportFile(path)
		if err != nil {
			_ = store.Close()
			return nil, noop, errors.Wrapf(err, "importing %s", path)
		}
		kbLogger.Infow("Imported knowledge-base file", logging.FieldFile, path, logging.FieldCount, len(changes))
	}

	collector := metrics.New()
	base.AddChangeListener(collector)

	// --- Justification engine ---

	m := NewEngine(cfg, base, logger)
	m.AddListener(collector)
	sessions := justification.NewSessions()
	sessionID := sessions.Open(m)

	app := &App{
		KB:        base,
		Manager:   m,
		Sessions:  sessions,
		SessionID: sessionID,
		Metrics:   collector,
	}

	if len(cfg.KB.Files) > 0 {
		app.Watcher, err = kb.NewWatcher(base, cfg.KB.Files, kbLogger)
		if err != nil {
			sessions.CloseAll()
			_ = store.Close()
			return nil, noop, errors.Wrap(err, "creating kb watcher")
		}
	}

	cleanup := func() {
		if app.Watcher != nil {
			app.Watcher.Stop()
		}
		sessions.CloseAll()
		if err := store.Close(); err != nil {
			logger.Warnw("kb store close", "error", err)
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"justifier",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)
	app.MCP = s

	registerJustificationTools(s, tools.NewResolver(sessions, sessionID), collector)
	registerKBTools(s, base)

	// --- Register prompts ---

	explainPrompt := prompts.NewExplainPrompt()
	s.AddPrompt(explainPrompt.Definition(), explainPrompt.Handle)

	diagnosePrompt := prompts.NewDiagnosePrompt()
	s.AddPrompt(diagnosePrompt.Definition(), diagnosePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(m, base)
	s.AddResource(resourceHandler.SettingsResource(), resourceHandler.HandleSettings)
	s.AddResource(resourceHandler.KBResource(), resourceHandler.HandleKB)

	logger.Infow("Justifier ready",
		logging.FieldSession, sessionID,
		"units", base.Stats().Units,
		"limit", m.ExplanationLimit(),
		"find_all", m.FindAllExplanations(),
	)
	return app, cleanup, nil
}

// noop is the cleanup returned when New fails.
func noop() {}

// registerJustificationTools registers the 5 justification MCP tools.
func registerJustificationTools(s *server.MCPServer, r *tools.Resolver, collector *metrics.Collector) {
	justifyTool := tools.NewJustifyTool(r)
	justifyTool.SetMonitor(collector.Monitor(nil))
	s.AddTool(justifyTool.Definition(), justifyTool.Handle)

	laconicTool := tools.NewLaconicTool(r)
	s.AddTool(laconicTool.Definition(), laconicTool.Handle)

	countTool := tools.NewCountTool(r)
	s.AddTool(countTool.Definition(), countTool.Handle)

	settingsTool := tools.NewSettingsTool(r)
	s.AddTool(settingsTool.Definition(), settingsTool.Handle)

	unsatTool := tools.NewUnsatTool(r)
	s.AddTool(unsatTool.Definition(), unsatTool.Handle)
}

// registerKBTools registers the 5 knowledge-base MCP tools.
func registerKBTools(s *server.MCPServer, base *kb.KnowledgeBase) {
	addTool := kbtools.NewAddAxiomTool(base)
	s.AddTool(addTool.Definition(), addTool.Handle)

	removeTool := kbtools.NewRemoveAxiomTool(base)
	s.AddTool(removeTool.Definition(), removeTool.Handle)

	listTool := kbtools.NewListTool(base)
	s.AddTool(listTool.Definition(), listTool.Handle)

	importTool := kbtools.NewImportTool(base)
	s.AddTool(importTool.Definition(), importTool.Handle)

	activateTool := kbtools.NewActivateTool(base)
	s.AddTool(activateTool.Definition(), activateTool.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use the server.
func serverInstructions() string {
	return `You have access to Justifier, an MCP server that explains why axioms follow from a knowledge base.

## AXIOM SYNTAX

One axiom per string:
- Cat SubClassOf Animal
- Cat or Dog SubClassOf Pet and not Wild
- Cat DisjointWith Dog
- tom Type Cat and not Dog

Thing and Nothing are the top and bottom classes. "X SubClassOf Nothing" says X is unsatisfiable.

## TOOLS

Knowledge base:
- kb_add_axiom / kb_remove_axiom: edit a named unit
- kb_activate: switch a unit on or off; only active units are reasoned over
- kb_import: load a YAML document (units: [{name, active, axioms}])
- kb_list: inspect units, or export them as YAML

Justifications:
- justify: minimal axiom sets from which an entailment follows
- laconic_justification: the same, trimmed to the parts of each axiom that matter
- unsatisfiable_classes: root and derived unsatisfiable classes
- explanation_settings: view or change the explanation limit and find-all flag
- explanation_count: cached justification count, -1 when not cached

If the knowledge base is inconsistent every entailment holds trivially; justify then
explains the inconsistency itself. Tell the user when that happens.

Every knowledge-base edit drops cached justifications.`
}
