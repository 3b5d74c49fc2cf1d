// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/hooks"
	"github.com/otk-tools/otk/internal/index"
	"github.com/otk-tools/otk/internal/logging"
	"github.com/otk-tools/otk/internal/mcptools"
	"github.com/otk-tools/otk/internal/owner"
	"github.com/otk-tools/otk/internal/prompts"
	"github.com/otk-tools/otk/internal/resources"
	"github.com/otk-tools/otk/internal/settings"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function flushes the logger and must be called
// on shutdown (typically via defer). It is always non-nil.
func New() (*server.MCPServer, func(), error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, noop, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := settings.Load(cwd)
	if err != nil {
		return nil, noop, fmt.Errorf("loading settings: %w", err)
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, noop, fmt.Errorf("creating logger: %w", err)
	}
	cleanup := func() { _ = log.Sync() }

	// The index is best-effort: artifact creation works without it,
	// lookups just fall back to filesystem scans.
	idx, err := index.NewManager(filepath.Join(cfg.Artifacts.Root, index.FileName), log)
	if err != nil {
		log.Warn("index unavailable", zap.Error(err))
		idx = nil
	}

	store, err := artifact.NewFileStore(cfg, idx, log)
	if err != nil {
		return nil, cleanup, fmt.Errorf("creating artifact store: %w", err)
	}

	deps := &mcptools.Deps{
		Store: store,
		Hooks: hooks.NewManager(cfg, cfg.Artifacts.Root),
		Owner: owner.NewResolver(cwd),
	}

	s := server.NewMCPServer(
		"otk",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register workflow tools ---

	newTool := mcptools.NewNewTool(deps)
	s.AddTool(newTool.Definition(), newTool.Handle)

	planTool := mcptools.NewPlanTool(deps)
	s.AddTool(planTool.Definition(), planTool.Handle)

	specTool := mcptools.NewSpecTool(deps)
	s.AddTool(specTool.Definition(), specTool.Handle)

	execTool := mcptools.NewExecTool(deps)
	s.AddTool(execTool.Definition(), execTool.Handle)

	readyTool := mcptools.NewReadyTool(deps)
	s.AddTool(readyTool.Definition(), readyTool.Handle)

	statusTool := mcptools.NewStatusTool(deps)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	// --- Register prompts ---

	workflowPrompt := prompts.NewWorkflowPrompt()
	s.AddPrompt(workflowPrompt.Definition(), workflowPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store, idx)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)
	s.AddResource(resourceHandler.IndexResource(), resourceHandler.HandleIndex)

	return s, cleanup, nil
}

// noop is the default cleanup before the logger exists.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the workflow effectively.
func serverInstructions() string {
	return `You have access to otk, a local artifact workflow server.

## What otk does

otk scaffolds and tracks Markdown workflow artifacts in the repository:
- PLAN: the what and why of a piece of work (status: draft → ready →
  in-progress → complete)
- SPEC: the how — objective, approach, implementation steps, acceptance
  criteria (status: draft → planning → implementation → testing → done)
- Exec logs: timestamped records of actual execution runs

Artifacts live under the configured artifact root (default .ai_docs) and
carry YAML front matter with sortable IDs like
PLAN-20250101-ABC123-fix-auth-bug.

## The workflow

1. otk_plan — create a PLAN for the work; write the plan body yourself
2. otk_ready — when the user approves the plan, mark it ready
3. otk_spec — create a SPEC linked to the plan; fill in the sections
4. otk_exec — start an execution log before implementing
5. otk_status — check where everything stands

otk_new accepts free-form text and routes it to the right action:
"spec out caching for plan-7", "ready PLAN-…", "exec spec-3", anything
else becomes a plan.

## Rules

- Tools are STORAGE tools: they scaffold files, YOU write the content
- Never pass placeholder text — generate real plan and spec content
- Keep one artifact per piece of work; link specs to their plans
- Update the exec log as you work so runs are auditable
- Read otk://workflow/status before suggesting next steps`
}
