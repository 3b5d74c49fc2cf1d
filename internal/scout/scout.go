// Package scout derives implementation checklists from spec files.
//
// A scout pass parses the spec's sections, extracts checkbox items,
// infers work from the technical design, backfills standard test and
// documentation tasks, and writes a grouped Markdown report to
// scout_reports/.
package scout

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/logging"
	"github.com/otk-tools/otk/internal/settings"
)

// TaskType categorizes a derived checklist item.
type TaskType string

const (
	TypeDevelopment    TaskType = "development"
	TypeImplementation TaskType = "implementation"
	TypeTesting        TaskType = "testing"
	TypeValidation     TaskType = "validation"
	TypeDocumentation  TaskType = "documentation"
)

// Task is one derived checklist item.
type Task struct {
	Type        TaskType
	Description string
	// Source names where the task came from: implementation_steps,
	// acceptance_criteria, inferred_from_design, or
	// standard_requirement.
	Source string
}

// Sections is the parsed content of a spec file.
type Sections struct {
	Front               artifact.FrontMatter
	Objective           string
	Approach            string
	TechnicalDesign     string
	ImplementationSteps string
	AcceptanceCriteria  string
	RiskAssessment      string
}

var sectionPatterns = map[string]*regexp.Regexp{
	"objective":            regexp.MustCompile(`(?s)## Objective\s*\n(.*?)(?:\n##|\z)`),
	"approach":             regexp.MustCompile(`(?s)## Approach\s*\n(.*?)(?:\n##|\z)`),
	"technical_design":     regexp.MustCompile(`(?s)### Technical Design\s*\n(.*?)(?:\n###|\n##|\z)`),
	"implementation_steps": regexp.MustCompile(`(?s)### Implementation Steps\s*\n(.*?)(?:\n###|\n##|\z)`),
	"acceptance_criteria":  regexp.MustCompile(`(?s)## Acceptance Criteria\s*\n(.*?)(?:\n##|\z)`),
	"risk_assessment":      regexp.MustCompile(`(?s)## Risk Assessment\s*\n(.*?)(?:\n##|\z)`),
}

var (
	numberedCheckbox = regexp.MustCompile(`(?m)^\d*\.?\s*\[[ x]\]\s*(.+)$`)
	bulletCheckbox   = regexp.MustCompile(`(?m)^-?\s*\[[ x]\]\s*(.+)$`)
)

// ParseSpec reads a spec file into its sections.
func ParseSpec(path string) (*Sections, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}
	content := string(data)

	fm, _, err := artifact.ParseFrontMatter(content)
	if err != nil {
		return nil, fmt.Errorf("parsing spec %s: %w", path, err)
	}

	extract := func(name string) string {
		if m := sectionPatterns[name].FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}

	return &Sections{
		Front:               fm,
		Objective:           extract("objective"),
		Approach:            extract("approach"),
		TechnicalDesign:     extract("technical_design"),
		ImplementationSteps: extract("implementation_steps"),
		AcceptanceCriteria:  extract("acceptance_criteria"),
		RiskAssessment:      extract("risk_assessment"),
	}, nil
}

// AnalyzeTasks derives checklist items from the parsed sections.
func AnalyzeTasks(spec *Sections) []Task {
	var tasks []Task

	for _, m := range numberedCheckbox.FindAllStringSubmatch(spec.ImplementationSteps, -1) {
		tasks = append(tasks, Task{
			Type:        categorize(m[1]),
			Description: m[1],
			Source:      "implementation_steps",
		})
	}

	for _, m := range bulletCheckbox.FindAllStringSubmatch(spec.AcceptanceCriteria, -1) {
		tasks = append(tasks, Task{
			Type:        TypeValidation,
			Description: "Ensure: " + m[1],
			Source:      "acceptance_criteria",
		})
	}

	tasks = append(tasks, inferFromDesign(spec.TechnicalDesign)...)

	hasTests := false
	hasDocs := false
	for _, t := range tasks {
		switch t.Type {
		case TypeTesting:
			hasTests = true
		case TypeDocumentation:
			hasDocs = true
		}
	}
	if !hasTests {
		tasks = append(tasks, Task{
			Type:        TypeTesting,
			Description: "Write unit tests for new functionality",
			Source:      "standard_requirement",
		})
	}
	if !hasDocs {
		tasks = append(tasks, Task{
			Type:        TypeDocumentation,
			Description: "Update documentation with new features",
			Source:      "standard_requirement",
		})
	}

	return tasks
}

// categorize picks a task type from keywords in the description.
func categorize(text string) TaskType {
	low := strings.ToLower(text)
	switch {
	case containsAny(low, "test", "verify", "validate"):
		return TypeTesting
	case containsAny(low, "document", "readme", "comment"):
		return TypeDocumentation
	case containsAny(low, "create", "add", "implement", "build"):
		return TypeDevelopment
	default:
		return TypeImplementation
	}
}

// inferFromDesign adds tasks implied by technology mentions in the
// design section.
func inferFromDesign(design string) []Task {
	low := strings.ToLower(design)
	var tasks []Task

	if containsAny(low, "api", "endpoint") {
		tasks = append(tasks, Task{TypeDevelopment, "Implement API endpoints", "inferred_from_design"})
	}
	if containsAny(low, "database", "schema", "migration") {
		tasks = append(tasks, Task{TypeDevelopment, "Create database schema/migrations", "inferred_from_design"})
	}
	if containsAny(low, "frontend", "ui", "component") {
		tasks = append(tasks, Task{TypeDevelopment, "Build frontend components", "inferred_from_design"})
	}
	if strings.Contains(low, "test") {
		tasks = append(tasks, Task{TypeTesting, "Write comprehensive tests", "inferred_from_design"})
	}
	return tasks
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// groupOrder is the section order of the generated report.
var groupOrder = []TaskType{
	TypeDevelopment,
	TypeImplementation,
	TypeTesting,
	TypeValidation,
	TypeDocumentation,
}

var groupIcons = map[TaskType]string{
	TypeDevelopment:    "🔨",
	TypeImplementation: "⚙️",
	TypeTesting:        "🧪",
	TypeValidation:     "✅",
	TypeDocumentation:  "📚",
}

// GenerateChecklist renders the grouped Markdown report.
func GenerateChecklist(specID string, tasks []Task) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Scout Report: %s\n\n", specID)
	fmt.Fprintf(&b, "Generated: %s\n\n", artifact.NowISO())
	b.WriteString("## Implementation Checklist\n\n")

	groups := map[TaskType][]Task{}
	for _, t := range tasks {
		groups[t.Type] = append(groups[t.Type], t)
	}

	for _, group := range groupOrder {
		items := groups[group]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s %s\n\n", groupIcons[group], titleCase(string(group)))
		for _, t := range items {
			fmt.Fprintf(&b, "- [ ] %s\n", t.Description)
			if t.Source != "standard_requirement" {
				fmt.Fprintf(&b, "      *(from: %s)*\n", t.Source)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(`## Execution Guidance

1. Review all tasks and adjust based on actual requirements
2. Start with development/implementation tasks
3. Write tests as you implement features
4. Validate against acceptance criteria
5. Update documentation before marking complete

## Notes

This checklist was auto-generated from the SPEC.
Modify as needed based on actual implementation requirements.
`)

	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Report is the outcome of one scout run.
type Report struct {
	SpecID string
	Path   string
	Tasks  []Task
}

// Counts summarizes tasks per type, sorted by type name.
func (r *Report) Counts() []string {
	counts := map[TaskType]int{}
	for _, t := range r.Tasks {
		counts[t.Type]++
	}
	var out []string
	for k, v := range counts {
		out = append(out, fmt.Sprintf("%s: %d", titleCase(string(k)), v))
	}
	sort.Strings(out)
	return out
}

// Run scouts a spec by ID or prefix and writes the report file.
func Run(cfg *settings.Settings, store artifact.Store, specID string, log *logging.Logger) (*Report, error) {
	if log == nil {
		log = logging.Nop()
	}

	path, err := store.FindSpec(specID)
	if err != nil {
		return nil, err
	}

	spec, err := ParseSpec(path)
	if err != nil {
		return nil, err
	}

	tasks := AnalyzeTasks(spec)
	stem := strings.TrimSuffix(filepath.Base(path), ".md")
	checklist := GenerateChecklist(stem, tasks)

	if err := os.MkdirAll(cfg.ScoutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scout_reports: %w", err)
	}
	reportPath := filepath.Join(cfg.ScoutDir, stem+"-scout.md")
	if err := os.WriteFile(reportPath, []byte(checklist), 0o644); err != nil {
		return nil, fmt.Errorf("writing scout report: %w", err)
	}

	log.Info("scout report written",
		zap.String("spec", stem), zap.Int("tasks", len(tasks)))

	return &Report{SpecID: stem, Path: reportPath, Tasks: tasks}, nil
}
