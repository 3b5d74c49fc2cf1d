package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ArchonClient posts task and event updates to an Archon server.
type ArchonClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewArchonClient builds a client for the given base URL and key.
func NewArchonClient(baseURL, apiKey string) *ArchonClient {
	return &ArchonClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    http.DefaultClient,
	}
}

// TasksUpsert creates or updates a task record.
func (c *ArchonClient) TasksUpsert(ctx context.Context, task map[string]any) error {
	return c.post(ctx, "/tasks.upsert", task)
}

// TasksStatus reports a status change for a task.
func (c *ArchonClient) TasksStatus(ctx context.Context, taskID, status string) error {
	return c.post(ctx, "/tasks.status", map[string]any{"id": taskID, "status": status})
}

// EventsCreate records a freeform event.
func (c *ArchonClient) EventsCreate(ctx context.Context, kind, message string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	return c.post(ctx, "/events.create", map[string]any{
		"kind":    kind,
		"message": message,
		"meta":    meta,
	})
}

func (c *ArchonClient) post(ctx context.Context, path string, payload any) error {
	return postJSON(ctx, c.HTTP, c.BaseURL+path, c.APIKey, payload)
}

// Mem0Client writes workflow memories to a Mem0 server.
type Mem0Client struct {
	APIURL  string
	APIKey  string
	Project string
	Org     string
	HTTP    *http.Client
}

// NewMem0Client builds a client for the given API URL and key.
func NewMem0Client(apiURL, apiKey, project, org string) *Mem0Client {
	return &Mem0Client{
		APIURL:  strings.TrimRight(apiURL, "/"),
		APIKey:  apiKey,
		Project: project,
		Org:     org,
		HTTP:    http.DefaultClient,
	}
}

// AddMemory stores content with optional metadata.
func (c *Mem0Client) AddMemory(ctx context.Context, content string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return postJSON(ctx, c.HTTP, c.APIURL+"/memories", c.APIKey, map[string]any{
		"project":  c.Project,
		"org":      c.Org,
		"content":  content,
		"metadata": metadata,
	})
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request to %s returned %s", url, resp.Status)
	}
	return nil
}
