// Package hooks delivers best-effort notifications to external systems
// when artifacts are created or change status.
//
// Hook delivery never blocks core operations and never returns errors
// to callers. Each delivery gets a bounded number of attempts with a
// jittered delay between them; a hook that exhausts its attempts is
// muted for the rest of the process so repeated operations don't spam
// the log. Every outcome is appended as a single structured line to
// run_log.md.
package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/otk-tools/otk/internal/settings"
)

// RunLogFile is the delivery log filename, relative to the working
// directory.
const RunLogFile = "run_log.md"

// Manager coordinates hook delivery for one process.
type Manager struct {
	cfg    *settings.Settings
	archon *ArchonClient
	mem0   *Mem0Client

	runLogPath string
	muted      map[string]bool

	// newBackOff builds the retry schedule. Replaced in tests to avoid
	// real sleeps.
	newBackOff func() backoff.BackOff

	timeNow func() time.Time
}

// NewManager builds a hook manager from settings. The run log is
// written under dir.
func NewManager(cfg *settings.Settings, dir string) *Manager {
	m := &Manager{
		cfg:        cfg,
		runLogPath: filepath.Join(dir, RunLogFile),
		muted:      map[string]bool{},
		timeNow:    time.Now,
	}
	m.newBackOff = func() backoff.BackOff {
		// InitialInterval 500ms with 0.5 randomization and no growth
		// gives a uniform 250-750ms delay between attempts.
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.RandomizationFactor = 0.5
		b.Multiplier = 1
		return b
	}
	if cfg.Archon.Enabled {
		m.archon = NewArchonClient(cfg.Archon.BaseURL, cfg.Archon.APIKey)
	}
	if cfg.Mem0.Enabled {
		m.mem0 = NewMem0Client(cfg.Mem0.APIURL, cfg.Mem0.APIKey, cfg.Mem0.Project, cfg.Mem0.Org)
	}
	return m
}

// OnPlanCreated fires when a new plan artifact is written.
func (m *Manager) OnPlanCreated(planID, title, owner string) {
	if owner == "" {
		owner = "unassigned"
	}
	m.logInfo("on_plan_created", kv("plan_id", planID), kv("title", title), kv("owner", owner))

	m.deliver("archon_plan_created", []string{kv("plan_id", planID)}, func(ctx context.Context) error {
		return m.archon.TasksUpsert(ctx, map[string]any{
			"id":    planID,
			"title": title,
			"owner": owner,
			"kind":  "plan",
		})
	})
	m.deliverMem0("mem0_plan_created", []string{kv("plan_id", planID)},
		fmt.Sprintf("Plan %s created: %s", planID, title),
		map[string]any{"plan_id": planID, "owner": owner})
}

// OnSpecCreated fires when a new spec artifact is written.
func (m *Manager) OnSpecCreated(specID, planID, title string) {
	m.logInfo("on_spec_created", kv("spec_id", specID), kv("plan_id", planID), kv("title", title))

	m.deliver("archon_spec_created", []string{kv("spec_id", specID), kv("plan_id", planID)}, func(ctx context.Context) error {
		return m.archon.TasksUpsert(ctx, map[string]any{
			"id":     specID,
			"parent": planID,
			"title":  title,
			"kind":   "spec",
		})
	})
	m.deliverMem0("mem0_spec_created", []string{kv("spec_id", specID)},
		fmt.Sprintf("Spec %s created from plan %s: %s", specID, planID, title),
		map[string]any{"spec_id": specID, "plan_id": planID})
}

// OnPhaseStarted fires when a spec enters a working phase.
func (m *Manager) OnPhaseStarted(specID, phase string) {
	m.logInfo("on_phase_started", kv("spec_id", specID), kv("phase", phase))

	m.deliver("archon_phase_started", []string{kv("spec_id", specID), kv("phase", phase)}, func(ctx context.Context) error {
		return m.archon.TasksStatus(ctx, specID, phase)
	})
	m.deliverMem0("mem0_phase_started", []string{kv("spec_id", specID), kv("phase", phase)},
		fmt.Sprintf("Spec %s entered phase %s", specID, phase),
		map[string]any{"spec_id": specID, "phase": phase})
}

// OnPhaseCompleted fires when a spec leaves a working phase.
func (m *Manager) OnPhaseCompleted(specID, phase string) {
	m.logInfo("on_phase_completed", kv("spec_id", specID), kv("phase", phase))

	m.deliver("archon_phase_completed", []string{kv("spec_id", specID), kv("phase", phase)}, func(ctx context.Context) error {
		return m.archon.EventsCreate(ctx, "phase_completed",
			fmt.Sprintf("%s completed phase %s", specID, phase),
			map[string]any{"spec_id": specID, "phase": phase})
	})
	m.deliverMem0("mem0_phase_completed", []string{kv("spec_id", specID), kv("phase", phase)},
		fmt.Sprintf("Spec %s completed phase %s", specID, phase),
		map[string]any{"spec_id": specID, "phase": phase})
}

// OnBuildCompleted fires when a spec reaches done.
func (m *Manager) OnBuildCompleted(specID string) {
	m.logInfo("on_build_completed", kv("spec_id", specID))

	m.deliver("archon_build_completed", []string{kv("spec_id", specID)}, func(ctx context.Context) error {
		return m.archon.TasksStatus(ctx, specID, "done")
	})
	m.deliverMem0("mem0_build_completed", []string{kv("spec_id", specID)},
		fmt.Sprintf("Spec %s build completed", specID),
		map[string]any{"spec_id": specID})
}

// Fire dispatches the right event for a status transition. oldStatus ""
// means creation.
func (m *Manager) Fire(artifactType, artifactID, oldStatus, newStatus string) {
	if oldStatus == "" {
		switch artifactType {
		case "plan":
			m.OnPlanCreated(artifactID, "", "")
		case "spec":
			m.OnSpecCreated(artifactID, "", "")
		}
		return
	}

	if artifactType != "spec" {
		return
	}
	switch {
	case isWorkingPhase(newStatus):
		m.OnPhaseStarted(artifactID, newStatus)
	case isWorkingPhase(oldStatus):
		m.OnPhaseCompleted(artifactID, oldStatus)
	case newStatus == "done":
		m.OnBuildCompleted(artifactID)
	}
}

// Record appends a caller-supplied event line to the run log. Used for
// manual annotations alongside automatic hook outcomes.
func (m *Manager) Record(event string, pairs []string) {
	m.logEvent(event, pairs, "logged")
}

func isWorkingPhase(status string) bool {
	switch status {
	case "planning", "implementation", "testing":
		return true
	}
	return false
}

// deliver runs an Archon call with retry protection. No-op when Archon
// is disabled.
func (m *Manager) deliver(hookName string, idPairs []string, call func(context.Context) error) {
	if m.archon == nil {
		return
	}
	m.deliverWithRetry(hookName, idPairs, call)
}

// deliverMem0 runs a Mem0 memory write with retry protection. No-op
// when Mem0 is disabled.
func (m *Manager) deliverMem0(hookName string, idPairs []string, content string, metadata map[string]any) {
	if m.mem0 == nil {
		return
	}
	m.deliverWithRetry(hookName, idPairs, func(ctx context.Context) error {
		return m.mem0.AddMemory(ctx, content, metadata)
	})
}

// deliverWithRetry runs call under a per-attempt timeout with a bounded
// number of attempts. The outcome is logged as one structured line:
//
//	[timestamp] · hook_name · k=v ... · success|muted|failed_muted
func (m *Manager) deliverWithRetry(hookName string, idPairs []string, call func(context.Context) error) bool {
	if m.muted[hookName] {
		m.logEvent(hookName, idPairs, "muted")
		return false
	}

	attempt := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Hooks.Timeout())
		defer cancel()
		if err := call(ctx); err != nil {
			m.logWarn(hookName, err)
			return err
		}
		return nil
	}

	retries := uint64(m.cfg.Hooks.Retries - 1)
	err := backoff.Retry(attempt, backoff.WithMaxRetries(m.newBackOff(), retries))
	if err != nil {
		m.muted[hookName] = true
		m.logEvent(hookName, idPairs, "failed_muted")
		return false
	}

	m.logEvent(hookName, idPairs, "success")
	return true
}

func kv(key, value string) string {
	return key + "=" + value
}

func (m *Manager) timestamp() string {
	return m.timeNow().UTC().Format("2006-01-02T15:04:05Z")
}

func (m *Manager) logEvent(event string, idPairs []string, outcome string) {
	line := fmt.Sprintf("[%s] · %s · %s · %s\n",
		m.timestamp(), event, strings.Join(idPairs, " "), outcome)
	m.appendRunLog(line)
}

func (m *Manager) logInfo(hookName string, pairs ...string) {
	line := fmt.Sprintf("[%s] INFO hook=%s %s\n",
		m.timestamp(), hookName, strings.Join(pairs, " "))
	m.appendRunLog(line)
}

func (m *Manager) logWarn(hookName string, err error) {
	line := fmt.Sprintf("[%s] WARN hook=%s delivery failed error=%v\n",
		m.timestamp(), hookName, err)
	m.appendRunLog(line)
}

// appendRunLog appends one line to run_log.md. Failures are swallowed;
// a broken log must not break the operation that fired the hook.
func (m *Manager) appendRunLog(line string) {
	f, err := os.OpenFile(m.runLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line)
}
