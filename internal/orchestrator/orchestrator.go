// Package orchestrator advances the task → plan → spec workflow by
// scanning artifact front matter.
//
// Two sweeps run on every pass:
//   - tasks with status "assigned" get a plan scaffolded (once per
//     task; a plan whose front matter references the task id marks it
//     as handled)
//   - plans with status "ready" get a spec created and move to
//     "in-progress"
//
// Watch mode reacts to filesystem events and also rescans on a timer,
// since editors that write via rename can slip past a watcher.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/hooks"
	"github.com/otk-tools/otk/internal/logging"
	"github.com/otk-tools/otk/internal/settings"
)

// rescanInterval is the watch-mode fallback poll period.
const rescanInterval = 5 * time.Second

// Result reports what one pass created.
type Result struct {
	PlansCreated int
	SpecsCreated int
}

// Orchestrator wires the store and hooks into the scanning loop.
type Orchestrator struct {
	cfg   *settings.Settings
	store artifact.Store
	hooks *hooks.Manager
	log   *logging.Logger
}

// New builds an orchestrator. hookMgr may be nil to skip notifications.
func New(cfg *settings.Settings, store artifact.Store, hookMgr *hooks.Manager, log *logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	return &Orchestrator{cfg: cfg, store: store, hooks: hookMgr, log: log}
}

// Once runs a single pass over tasks and plans.
func (o *Orchestrator) Once() (Result, error) {
	var res Result

	plansCreated, err := o.scaffoldPlans()
	if err != nil {
		return res, err
	}
	res.PlansCreated = plansCreated

	specsCreated, err := o.promoteReadyPlans()
	if err != nil {
		return res, err
	}
	res.SpecsCreated = specsCreated

	return res, nil
}

// scaffoldPlans creates a plan for every assigned task that doesn't
// have one yet.
func (o *Orchestrator) scaffoldPlans() (int, error) {
	planned, err := o.plannedTasks()
	if err != nil {
		return 0, err
	}

	tasks, err := o.scanTasks()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, task := range tasks {
		if task.Status != string(artifact.TaskAssigned) {
			continue
		}
		if planned[task.ID] {
			continue
		}

		plan, err := o.store.CreatePlan("PLAN for: "+task.Title, task.Owner, artifact.PlanDraft)
		if err != nil {
			return created, fmt.Errorf("scaffolding plan for %s: %w", task.ID, err)
		}
		if err := o.linkPlanToTask(plan.Path, task.ID); err != nil {
			return created, err
		}
		created++

		o.log.Info("plan scaffolded",
			zap.String("plan", plan.ID), zap.String("task", task.ID))
		if o.hooks != nil {
			o.hooks.OnPlanCreated(plan.ID, plan.Title, task.Owner)
		}
	}
	return created, nil
}

// promoteReadyPlans turns every ready plan into a spec and marks the
// plan in-progress.
func (o *Orchestrator) promoteReadyPlans() (int, error) {
	plans, err := o.store.ListPlans()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, plan := range plans {
		if plan.Status != string(artifact.PlanReady) {
			continue
		}

		spec, err := o.store.CreateSpec(plan.Title, plan.Owner, plan.ID)
		if err != nil {
			return created, fmt.Errorf("creating spec for %s: %w", plan.ID, err)
		}
		if _, err := o.store.SetStatus(plan.Path, string(artifact.PlanInProgress)); err != nil {
			return created, fmt.Errorf("advancing plan %s: %w", plan.ID, err)
		}
		created++

		o.log.Info("spec created from ready plan",
			zap.String("spec", spec.ID), zap.String("plan", plan.ID))
		if o.hooks != nil {
			o.hooks.OnSpecCreated(spec.ID, plan.ID, plan.Title)
		}
	}
	return created, nil
}

// taskInfo is the front matter subset the scanner needs.
type taskInfo struct {
	ID     string
	Title  string
	Owner  string
	Status string
	Path   string
}

func (o *Orchestrator) scanTasks() ([]taskInfo, error) {
	matches, err := filepath.Glob(filepath.Join(o.cfg.TasksDir, "T-*.md"))
	if err != nil {
		return nil, fmt.Errorf("scanning tasks: %w", err)
	}
	sort.Strings(matches)

	var out []taskInfo
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fm, _, err := artifact.ParseFrontMatter(string(data))
		if err != nil || fm.ID == "" {
			continue
		}
		out = append(out, taskInfo{
			ID:     fm.ID,
			Title:  fm.Title,
			Owner:  fm.Owner,
			Status: fm.Status,
			Path:   path,
		})
	}
	return out, nil
}

// plannedTasks collects the task IDs already referenced by a plan.
func (o *Orchestrator) plannedTasks() (map[string]bool, error) {
	patterns := []string{"PLAN-*.md", "P-*.md"}
	seen := map[string]bool{}
	planned := map[string]bool{}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(o.cfg.PlansDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scanning plans: %w", err)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			fm, _, err := artifact.ParseFrontMatter(string(data))
			if err != nil || fm.Task == "" {
				continue
			}
			planned[fm.Task] = true
		}
	}
	return planned, nil
}

// linkPlanToTask records the source task in the plan's front matter.
func (o *Orchestrator) linkPlanToTask(planPath, taskID string) error {
	data, err := os.ReadFile(planPath)
	if err != nil {
		return fmt.Errorf("reading scaffolded plan: %w", err)
	}

	content := string(data)
	idx := indexAfterFirstLine(content)
	if idx == -1 {
		return fmt.Errorf("scaffolded plan %s has no front matter", planPath)
	}

	updated := content[:idx] + "task: " + taskID + "\n" + content[idx:]
	if err := os.WriteFile(planPath, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("linking plan to task: %w", err)
	}
	return nil
}

// indexAfterFirstLine returns the offset just past the opening front
// matter delimiter, or -1.
func indexAfterFirstLine(content string) int {
	if len(content) < 4 || content[:4] != "---\n" {
		return -1
	}
	return 4
}

// Watch runs Once, then keeps rescanning until ctx is cancelled,
// triggered by task or plan directory events and a periodic timer.
func (o *Orchestrator) Watch(ctx context.Context) error {
	if _, err := o.Once(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range []string{o.cfg.TasksDir, o.cfg.PlansDir} {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if _, err := o.Once(); err != nil {
				o.log.Error("orchestrator pass failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.log.Warn("watcher error", zap.Error(err))
		case <-ticker.C:
			if _, err := o.Once(); err != nil {
				o.log.Error("orchestrator pass failed", zap.Error(err))
			}
		}
	}
}
