package scout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/settings"
)

const sampleSpec = `---
id: SPEC-20260829-ABC123-payment-retries
title: Payment retries
status: draft
created: 2026-08-29T10:00:00Z
---

# SPEC: Payment retries

## Objective

Retry failed payment captures automatically.

## Approach

Queue failed captures and retry with backoff.

### Technical Design

Expose a retry API endpoint backed by a database schema for attempts.

### Implementation Steps

1. [ ] Create retry queue table
2. [ ] Implement backoff scheduler
3. [ ] Test retry exhaustion path

## Acceptance Criteria

- [ ] Failed captures retry at most three times
- [x] Retries stop after a successful capture

## Risk Assessment

Duplicate captures if idempotency keys are missing.
`

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSpecSections(t *testing.T) {
	path := writeSpec(t, t.TempDir(), "SPEC-test.md", sampleSpec)

	spec, err := ParseSpec(path)
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if spec.Front.Title != "Payment retries" {
		t.Errorf("front matter title = %q", spec.Front.Title)
	}
	if spec.Objective != "Retry failed payment captures automatically." {
		t.Errorf("objective = %q", spec.Objective)
	}
	if !strings.Contains(spec.TechnicalDesign, "retry API endpoint") {
		t.Errorf("technical design = %q", spec.TechnicalDesign)
	}
	if !strings.Contains(spec.ImplementationSteps, "backoff scheduler") {
		t.Errorf("implementation steps = %q", spec.ImplementationSteps)
	}
	if !strings.Contains(spec.RiskAssessment, "idempotency") {
		t.Errorf("risk assessment = %q", spec.RiskAssessment)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want TaskType
	}{
		{"Create retry queue table", TypeDevelopment},
		{"Add a scheduler", TypeDevelopment},
		{"Test retry exhaustion path", TypeTesting},
		{"Verify backoff timing", TypeTesting},
		{"Document the retry policy", TypeDocumentation},
		{"Update README", TypeDocumentation},
		{"Wire the queue into dispatch", TypeImplementation},
	}
	for _, tt := range tests {
		if got := categorize(tt.text); got != tt.want {
			t.Errorf("categorize(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestAnalyzeTasks(t *testing.T) {
	spec := &Sections{
		TechnicalDesign: "REST API over a database schema",
		ImplementationSteps: "1. [ ] Create retry table\n" +
			"2. [ ] Implement scheduler\n",
		AcceptanceCriteria: "- [ ] Retries are capped\n",
	}

	tasks := AnalyzeTasks(spec)

	var steps, criteria, inferred, standard int
	for _, task := range tasks {
		switch task.Source {
		case "implementation_steps":
			steps++
		case "acceptance_criteria":
			criteria++
			if !strings.HasPrefix(task.Description, "Ensure: ") {
				t.Errorf("criterion description = %q", task.Description)
			}
		case "inferred_from_design":
			inferred++
		case "standard_requirement":
			standard++
		}
	}
	if steps != 2 {
		t.Errorf("implementation_steps tasks = %d, want 2", steps)
	}
	if criteria != 1 {
		t.Errorf("acceptance_criteria tasks = %d, want 1", criteria)
	}
	if inferred != 2 {
		t.Errorf("inferred tasks = %d, want 2 (api + database)", inferred)
	}
	// No testing or documentation tasks present, both fallbacks fire.
	if standard != 2 {
		t.Errorf("standard_requirement tasks = %d, want 2", standard)
	}
}

func TestAnalyzeTasksSkipsFallbacksWhenCovered(t *testing.T) {
	spec := &Sections{
		ImplementationSteps: "1. [ ] Test the scheduler\n" +
			"2. [ ] Document the retry policy\n",
	}

	for _, task := range AnalyzeTasks(spec) {
		if task.Source == "standard_requirement" {
			t.Errorf("unexpected fallback task %q", task.Description)
		}
	}
}

func TestInferFromDesign(t *testing.T) {
	tasks := inferFromDesign("A frontend component calling a test harness")

	var descs []string
	for _, task := range tasks {
		descs = append(descs, task.Description)
	}
	want := []string{"Build frontend components", "Write comprehensive tests"}
	if len(descs) != len(want) {
		t.Fatalf("inferred = %v, want %v", descs, want)
	}
	for i := range want {
		if descs[i] != want[i] {
			t.Errorf("inferred[%d] = %q, want %q", i, descs[i], want[i])
		}
	}
}

func TestGenerateChecklist(t *testing.T) {
	tasks := []Task{
		{TypeTesting, "Write unit tests for new functionality", "standard_requirement"},
		{TypeDevelopment, "Create retry table", "implementation_steps"},
		{TypeValidation, "Ensure: Retries are capped", "acceptance_criteria"},
	}

	out := GenerateChecklist("SPEC-001-retries", tasks)

	if !strings.Contains(out, "# Scout Report: SPEC-001-retries") {
		t.Error("missing report header")
	}
	devIdx := strings.Index(out, "### 🔨 Development")
	testIdx := strings.Index(out, "### 🧪 Testing")
	valIdx := strings.Index(out, "### ✅ Validation")
	if devIdx < 0 || testIdx < 0 || valIdx < 0 {
		t.Fatalf("missing group headers in:\n%s", out)
	}
	if !(devIdx < testIdx && testIdx < valIdx) {
		t.Error("groups out of order")
	}
	if !strings.Contains(out, "*(from: implementation_steps)*") {
		t.Error("missing source annotation")
	}
	if strings.Contains(out, "*(from: standard_requirement)*") {
		t.Error("standard requirements should not carry source annotations")
	}
	if !strings.Contains(out, "## Execution Guidance") {
		t.Error("missing execution guidance")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg, err := settings.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	store, err := artifact.NewFileStore(cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	writeSpec(t, cfg.SpecsDir, "SPEC-20260829-ABC123-payment-retries.md", sampleSpec)

	report, err := Run(cfg, store, "SPEC-20260829", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Tasks) == 0 {
		t.Error("no tasks derived")
	}

	wantReport := filepath.Join(cfg.ScoutDir, "SPEC-20260829-ABC123-payment-retries-scout.md")
	if report.Path != wantReport {
		t.Errorf("report path = %q, want %q", report.Path, wantReport)
	}
	data, err := os.ReadFile(report.Path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "Implementation Checklist") {
		t.Error("report missing checklist section")
	}
}

func TestRunMissingSpec(t *testing.T) {
	dir := t.TempDir()
	cfg, err := settings.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	store, err := artifact.NewFileStore(cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Run(cfg, store, "SPEC-nope", nil); err == nil {
		t.Error("expected error for missing spec")
	}
}
