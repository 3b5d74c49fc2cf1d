package main

import (
	"os"
	"strings"
	"testing"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/hooks"
	"github.com/otk-tools/otk/internal/logging"
	"github.com/otk-tools/otk/internal/owner"
	"github.com/otk-tools/otk/internal/settings"
)

// testApp wires an app over a temp directory, skipping the index.
func testApp(t *testing.T) *app {
	t.Helper()
	dir := t.TempDir()

	cfg, err := settings.Load(dir)
	if err != nil {
		t.Fatalf("loading settings: %v", err)
	}
	store, err := artifact.NewFileStore(cfg, nil, logging.Nop())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return &app{
		cwd:   dir,
		cfg:   cfg,
		log:   logging.Nop(),
		store: store,
		hooks: hooks.NewManager(cfg, cfg.Artifacts.Root),
		owner: owner.NewResolver(dir),
	}
}

func TestCreatePlanWithReadyStatus(t *testing.T) {
	a := testApp(t)

	if err := createPlan(a, "Ship payment retries", "alex", artifact.PlanReady); err != nil {
		t.Fatalf("createPlan failed: %v", err)
	}

	plans, err := a.store.ListPlans()
	if err != nil {
		t.Fatalf("listing plans: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}
	if plans[0].Status != string(artifact.PlanReady) {
		t.Errorf("status = %q, want %q", plans[0].Status, artifact.PlanReady)
	}

	data, err := os.ReadFile(plans[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "status: ready") {
		t.Errorf("plan file missing ready status:\n%s", data)
	}
}

func TestCreatePlanDefaultsToDraft(t *testing.T) {
	a := testApp(t)

	if err := createPlan(a, "Cache eviction", "alex", artifact.PlanDraft); err != nil {
		t.Fatalf("createPlan failed: %v", err)
	}

	plans, err := a.store.ListPlans()
	if err != nil {
		t.Fatalf("listing plans: %v", err)
	}
	if len(plans) != 1 || plans[0].Status != string(artifact.PlanDraft) {
		t.Errorf("plans = %+v, want one draft plan", plans)
	}
}

func TestExecNeedsSpecListsAvailableSpecs(t *testing.T) {
	a := testApp(t)

	spec, err := a.store.CreateSpec("Retry budget", "alex", "")
	if err != nil {
		t.Fatalf("creating spec: %v", err)
	}

	err = execNeedsSpec(a)
	if err == nil {
		t.Fatal("expected an error when the spec argument is missing")
	}
	if !strings.Contains(err.Error(), spec.ID) {
		t.Errorf("error does not mention %s:\n%s", spec.ID, err)
	}
	if !strings.Contains(err.Error(), "spec reference required") {
		t.Errorf("error missing guidance:\n%s", err)
	}
}

func TestExecNeedsSpecWithoutSpecs(t *testing.T) {
	a := testApp(t)

	err := execNeedsSpec(a)
	if err == nil {
		t.Fatal("expected an error when the spec argument is missing")
	}
	if !strings.Contains(err.Error(), "otk exec SPEC-") {
		t.Errorf("error missing example usage:\n%s", err)
	}
}
