// Package resources implements MCP resource handlers for the artifact
// workflow.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (otk://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/index"
)

// Handler manages workflow resource endpoints.
type Handler struct {
	store artifact.Store
	idx   *index.Manager
}

// NewHandler creates a resource Handler with its dependencies. idx may
// be nil when no index is maintained.
func NewHandler(store artifact.Store, idx *index.Manager) *Handler {
	return &Handler{store: store, idx: idx}
}

// StatusResource returns the MCP resource definition for workflow
// status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"otk://workflow/status",
		"Workflow Status",
		mcp.WithResourceDescription("All plans and specs with their current statuses"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the plan and spec listings as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plans, err := h.store.ListPlans()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	specs, err := h.store.ListSpecs()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	status := struct {
		Plans []artifact.Summary `json:"plans"`
		Specs []artifact.Summary `json:"specs"`
	}{Plans: plans, Specs: specs}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// IndexResource returns the MCP resource definition for the artifact
// index.
func (h *Handler) IndexResource() mcp.Resource {
	return mcp.NewResource(
		"otk://workflow/index",
		"Artifact Index",
		mcp.WithResourceDescription("The append-only ULI index mapping artifact IDs to paths"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleIndex returns all index records as JSON.
func (h *Handler) HandleIndex(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.idx == nil {
		return errorResource(req.Params.URI, "no index configured"), nil
	}
	if err := h.idx.Refresh(); err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(h.idx.All(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling index: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}
