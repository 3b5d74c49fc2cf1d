package artifact

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var defaultTemplates embed.FS

// Kind selects which artifact template to render.
type Kind string

const (
	KindTask Kind = "task"
	KindPlan Kind = "plan"
	KindSpec Kind = "spec"
	KindExec Kind = "exec"
)

// TemplateData carries the placeholder values for rendering.
type TemplateData struct {
	ID     string
	Title  string
	Owner  string
	Date   string
	Status string
	PlanID string
	SpecID string
}

// replacer maps the ${}-style placeholders user templates are written
// with to their values.
func (d TemplateData) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"${ID}", d.ID,
		"${TITLE}", d.Title,
		"${OWNER}", d.Owner,
		"${DATE}", d.Date,
		"${STATUS}", d.Status,
		"${PLAN_ID}", d.PlanID,
		"${SPEC_ID}", d.SpecID,
	)
}

// Renderer renders artifact scaffolds. Defaults are embedded Go
// templates; a file at <overrideDir>/<kind>.md replaces the default
// for that kind. Overrides use ${ID}/${TITLE}/${OWNER}/${DATE}/
// ${STATUS} string substitution, the format `otk` documents for user
// templates, not Go template syntax.
type Renderer struct {
	overrideDir string
	cache       map[Kind]*template.Template
}

// NewRenderer parses the embedded defaults up front so template errors
// surface at startup. overrideDir is the directory checked for
// per-kind overrides; "" disables overrides.
func NewRenderer(overrideDir string) (*Renderer, error) {
	r := &Renderer{
		overrideDir: overrideDir,
		cache:       map[Kind]*template.Template{},
	}
	for _, kind := range []Kind{KindTask, KindPlan, KindSpec, KindExec} {
		raw, err := defaultTemplates.ReadFile("templates/" + string(kind) + ".md")
		if err != nil {
			return nil, fmt.Errorf("missing embedded template for %s: %w", kind, err)
		}
		tmpl, err := template.New(string(kind)).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing embedded template for %s: %w", kind, err)
		}
		r.cache[kind] = tmpl
	}
	return r, nil
}

// Render produces the artifact content for kind.
func (r *Renderer) Render(kind Kind, data TemplateData) (string, error) {
	if raw, ok := r.override(kind); ok {
		return data.replacer().Replace(raw), nil
	}

	tmpl, ok := r.cache[kind]
	if !ok {
		return "", fmt.Errorf("unknown artifact kind %q", kind)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", kind, err)
	}
	return buf.String(), nil
}

// override returns the user template for kind when one exists. It is
// re-read on every render so edits take effect without restarting.
func (r *Renderer) override(kind Kind) (string, bool) {
	if r.overrideDir == "" {
		return "", false
	}
	raw, err := os.ReadFile(filepath.Join(r.overrideDir, string(kind)+".md"))
	if err != nil {
		return "", false
	}
	return string(raw), true
}
