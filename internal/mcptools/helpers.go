// Package mcptools implements MCP tool handlers for the artifact
// workflow.
//
// Each tool is a struct that receives its dependencies at construction
// and exposes Definition/Handle in the shape mcp-go expects. One file
// per tool.
package mcptools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/hooks"
	"github.com/otk-tools/otk/internal/owner"
)

// Deps bundles what every tool needs: the artifact store, the hook
// dispatcher (may be nil when hooks are disabled), and the owner
// resolver.
type Deps struct {
	Store artifact.Store
	Hooks *hooks.Manager
	Owner *owner.Resolver
}

// resolveOwner prefers an explicit owner argument over the cascade.
func (d *Deps) resolveOwner(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if d.Owner != nil {
		return d.Owner.Resolve()
	}
	return owner.Unknown
}

// specStem turns a spec file path into its ID stem.
func specStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}

// artifactSummary is the shared response block naming a created file.
func artifactSummary(kind string, art *artifact.Artifact) string {
	return fmt.Sprintf(
		"# %s Created\n\n"+
			"**ID:** `%s`\n"+
			"**Title:** %s\n"+
			"**Path:** `%s`\n",
		kind, art.ID, art.Title, art.Path,
	)
}
