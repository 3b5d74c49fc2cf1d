package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/otk-tools/otk/internal/ids"
	"github.com/otk-tools/otk/internal/index"
	"github.com/otk-tools/otk/internal/logging"
	"github.com/otk-tools/otk/internal/settings"
)

// TemplateOverrideDir is where user template overrides live, relative
// to the working directory.
const TemplateOverrideDir = ".otk/templates"

// Store defines the persistence interface for workflow artifacts.
// Abstracted so tools and the MCP surface depend on the abstraction.
type Store interface {
	CreateTask(title, owner string, status TaskStatus) (*Artifact, error)
	CreatePlan(title, owner string, status PlanStatus) (*Artifact, error)
	CreateSpec(title, owner, planID string) (*Artifact, error)
	CreateExecLog(specID, owner string) (*Artifact, error)
	MarkPlanReady(planID string) (bool, error)
	SetStatus(path, status string) (string, error)
	ListPlans() ([]Summary, error)
	ListSpecs() ([]Summary, error)
	FindPlan(idOrPrefix string) (string, error)
	FindSpec(idOrPrefix string) (string, error)
}

// Summary is one row of a plan or spec listing.
type Summary struct {
	ID     string
	Title  string
	Status string
	Owner  string
	Path   string
}

// FileStore implements Store on the local filesystem.
type FileStore struct {
	cfg      *settings.Settings
	idx      *index.Manager
	renderer *Renderer
	journal  *ExecJournal
	log      *logging.Logger
}

// NewFileStore builds a store over the resolved settings. idx may be
// nil when index maintenance isn't wanted (the orchestrator's scans
// don't need it).
func NewFileStore(cfg *settings.Settings, idx *index.Manager, log *logging.Logger) (*FileStore, error) {
	if log == nil {
		log = logging.Nop()
	}
	overrideDir := filepath.Join(filepath.Dir(cfg.Artifacts.Root), filepath.FromSlash(TemplateOverrideDir))
	renderer, err := NewRenderer(overrideDir)
	if err != nil {
		return nil, err
	}
	return &FileStore{
		cfg:      cfg,
		idx:      idx,
		renderer: renderer,
		journal:  NewExecJournal(cfg.ExecLogsDir),
		log:      log,
	}, nil
}

// CreateTask writes a new task file named T-NNNN--slug.md with the
// next free numeric ID and records it in the index.
func (fs *FileStore) CreateTask(title, owner string, status TaskStatus) (*Artifact, error) {
	if status == "" {
		status = TaskAssigned
	}
	if err := ValidateTaskStatus(status); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("task title must not be empty")
	}

	numericID := ids.NextNumeric("T", fs.cfg.TasksDir)
	filename, taskSlug := ids.DedupeFilename("T", numericID, title, fs.cfg.TasksDir)

	content, err := fs.renderer.Render(KindTask, TemplateData{
		ID:     numericID,
		Title:  title,
		Owner:  owner,
		Date:   NowISO(),
		Status: string(status),
	})
	if err != nil {
		return nil, err
	}

	path := filepath.Join(fs.cfg.TasksDir, filename)
	if err := atomicWrite(path, []byte(content)); err != nil {
		return nil, fmt.Errorf("writing task file: %w", err)
	}

	taskID := "T-" + numericID
	if fs.idx != nil {
		rec := index.Record{
			ULI:     ids.NewULI(),
			Type:    "task",
			ID:      taskID,
			Slug:    taskSlug,
			Path:    filepath.Join("tasks", filename),
			Title:   title,
			Created: timeNow().UTC(),
		}
		if err := fs.idx.Append(rec); err != nil {
			// The file exists either way; a stale index is repairable
			// with a rebuild.
			fs.log.Warn("task created but not indexed", zap.String("id", taskID), zap.Error(err))
		}
	}

	fs.log.Info("task created", zap.String("id", taskID), zap.String("path", path))
	return &Artifact{ID: taskID, Slug: taskSlug, Path: path, Title: title}, nil
}

// CreatePlan writes a new plan file named by its full ID.
func (fs *FileStore) CreatePlan(title, owner string, status PlanStatus) (*Artifact, error) {
	if status == "" {
		status = PlanDraft
	}
	if err := ValidatePlanStatus(status); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("plan title must not be empty")
	}

	pid := ids.PlanID(title)
	content, err := fs.renderer.Render(KindPlan, TemplateData{
		ID:     pid,
		Title:  title,
		Owner:  owner,
		Date:   NowISO(),
		Status: string(status),
	})
	if err != nil {
		return nil, err
	}

	path, err := ids.CollisionPath(filepath.Join(fs.cfg.PlansDir, pid+".md"))
	if err != nil {
		return nil, err
	}
	if err := atomicWrite(path, []byte(content)); err != nil {
		return nil, fmt.Errorf("writing plan file: %w", err)
	}

	fs.log.Info("plan created", zap.String("id", pid), zap.String("path", path))
	return &Artifact{ID: pid, Path: path, Title: title}, nil
}

// CreateSpec writes a new spec file, optionally linked to a parent
// plan.
func (fs *FileStore) CreateSpec(title, owner, planID string) (*Artifact, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("spec title must not be empty")
	}

	sid := ids.SpecID(title)
	content, err := fs.renderer.Render(KindSpec, TemplateData{
		ID:     sid,
		Title:  title,
		Owner:  owner,
		Date:   NowISO(),
		PlanID: planID,
	})
	if err != nil {
		return nil, err
	}

	path, err := ids.CollisionPath(filepath.Join(fs.cfg.SpecsDir, sid+".md"))
	if err != nil {
		return nil, err
	}
	if err := atomicWrite(path, []byte(content)); err != nil {
		return nil, fmt.Errorf("writing spec file: %w", err)
	}

	fs.log.Info("spec created", zap.String("id", sid), zap.String("plan", planID))
	return &Artifact{ID: sid, Path: path, Title: title}, nil
}

// CreateExecLog starts an execution log for a spec and records the run
// in the exec journal.
func (fs *FileStore) CreateExecLog(specID, owner string) (*Artifact, error) {
	if strings.TrimSpace(specID) == "" {
		return nil, fmt.Errorf("spec ID must not be empty")
	}

	started := timeNow().UTC()
	name := fmt.Sprintf("%s-exec-%s.md", specID, started.Format("20060102-150405"))

	content, err := fs.renderer.Render(KindExec, TemplateData{
		SpecID: specID,
		Owner:  owner,
		Date:   started.Format(isoFormat),
	})
	if err != nil {
		return nil, err
	}

	path := filepath.Join(fs.cfg.ExecLogsDir, name)
	if err := atomicWrite(path, []byte(content)); err != nil {
		return nil, fmt.Errorf("writing exec log: %w", err)
	}

	if err := fs.journal.Record(ExecEvent{
		Spec:    specID,
		Owner:   owner,
		Started: started.Format(isoFormat),
		Path:    name,
	}); err != nil {
		fs.log.Warn("exec log created but journal append failed", zap.Error(err))
	}

	fs.log.Info("exec log created", zap.String("spec", specID), zap.String("path", path))
	return &Artifact{ID: specID, Path: path}, nil
}

// MarkPlanReady flips a plan's status to ready. Returns false when the
// plan was already ready.
func (fs *FileStore) MarkPlanReady(planID string) (bool, error) {
	path, err := fs.FindPlan(planID)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading plan: %w", err)
	}

	updated, changed := ReplaceStatus(string(data), string(PlanReady))
	if !changed {
		return false, nil
	}
	if err := atomicWrite(path, []byte(updated)); err != nil {
		return false, fmt.Errorf("updating plan: %w", err)
	}
	return true, nil
}

// SetStatus rewrites the status line of any artifact file and returns
// the previous status.
func (fs *FileStore) SetStatus(path, status string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading artifact: %w", err)
	}

	fm, _, err := ParseFrontMatter(string(data))
	if err != nil {
		return "", err
	}

	updated, changed := ReplaceStatus(string(data), status)
	if !changed {
		return fm.Status, nil
	}
	if err := atomicWrite(path, []byte(updated)); err != nil {
		return "", fmt.Errorf("updating artifact: %w", err)
	}
	return fm.Status, nil
}

// ListPlans returns a summary of every plan, newest first. Files whose
// front matter doesn't parse are skipped.
func (fs *FileStore) ListPlans() ([]Summary, error) {
	return fs.list(fs.cfg.PlansDir, []string{"PLAN-*.md", "P-*.md"})
}

// ListSpecs returns a summary of every spec, newest first.
func (fs *FileStore) ListSpecs() ([]Summary, error) {
	return fs.list(fs.cfg.SpecsDir, []string{"SPEC-*.md"})
}

func (fs *FileStore) list(dir string, patterns []string) ([]Summary, error) {
	// Patterns overlap (P-* also matches PLAN-*), so dedupe.
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	var out []Summary
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fm, _, err := ParseFrontMatter(string(data))
		if err != nil {
			fs.log.Warn("skipping artifact with bad front matter", zap.String("path", path))
			continue
		}
		id := fm.ID
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(path), ".md")
		}
		out = append(out, Summary{
			ID:     id,
			Title:  fm.Title,
			Status: fm.Status,
			Owner:  fm.Owner,
			Path:   path,
		})
	}
	return out, nil
}

// FindPlan locates a plan file by full ID or ID prefix.
func (fs *FileStore) FindPlan(idOrPrefix string) (string, error) {
	return findByPrefix(fs.cfg.PlansDir, idOrPrefix, "plan")
}

// FindSpec locates a spec file by full ID or ID prefix.
func (fs *FileStore) FindSpec(idOrPrefix string) (string, error) {
	return findByPrefix(fs.cfg.SpecsDir, idOrPrefix, "spec")
}

func findByPrefix(dir, idOrPrefix, kind string) (string, error) {
	if strings.TrimSpace(idOrPrefix) == "" {
		return "", fmt.Errorf("%s ID must not be empty", kind)
	}
	matches, err := filepath.Glob(filepath.Join(dir, idOrPrefix+"*.md"))
	if err != nil {
		return "", fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(matches) == 0 {
		// Normalized references uppercase the slug portion, so retry
		// case-insensitively before giving up.
		entries, readErr := os.ReadDir(dir)
		if readErr == nil {
			lower := strings.ToLower(idOrPrefix)
			for _, e := range entries {
				name := e.Name()
				if strings.HasPrefix(strings.ToLower(name), lower) && strings.HasSuffix(name, ".md") {
					matches = append(matches, filepath.Join(dir, name))
				}
			}
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%s not found: %s", kind, idOrPrefix)
	}
	if len(matches) > 1 {
		sort.Strings(matches)
		var names []string
		for _, m := range matches {
			names = append(names, filepath.Base(m))
		}
		return "", fmt.Errorf("%s reference %q is ambiguous: %s", kind, idOrPrefix, strings.Join(names, ", "))
	}
	return matches[0], nil
}

// atomicWrite writes data through a temp file in the same directory so
// readers never see a partial artifact.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
