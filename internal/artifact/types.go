// Package artifact scaffolds and manages the Markdown workflow files:
// tasks, plans, specs, and execution logs.
//
// Each artifact is a Markdown file with YAML front matter. Plans and
// specs are named by their full sortable ID; tasks use sequential
// numeric IDs with a slug-carrying filename; exec logs are named after
// the spec they execute plus a timestamp.
//
// This package follows the same layout conventions as the rest of the
// codebase: types, templates, store, and exec journal in separate
// files, with Store as an interface so tools depend on the
// abstraction.
package artifact

import (
	"fmt"
)

// --- Task status enum ---

// TaskStatus tracks where a task is in its lifecycle.
type TaskStatus string

const (
	TaskNew        TaskStatus = "new"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in-progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskDone       TaskStatus = "done"
)

// validTaskStatuses is the set of allowed task statuses.
var validTaskStatuses = map[TaskStatus]bool{
	TaskNew:        true,
	TaskAssigned:   true,
	TaskInProgress: true,
	TaskBlocked:    true,
	TaskDone:       true,
}

// ValidateTaskStatus returns an error if the status is not recognized.
func ValidateTaskStatus(s TaskStatus) error {
	if !validTaskStatuses[s] {
		return fmt.Errorf("invalid task status %q: must be one of: new, assigned, in-progress, blocked, done", s)
	}
	return nil
}

// --- Plan status enum ---

// PlanStatus tracks where a plan is in its lifecycle. A plan at
// "ready" is picked up by the orchestrator and turned into a spec.
type PlanStatus string

const (
	PlanDraft      PlanStatus = "draft"
	PlanReady      PlanStatus = "ready"
	PlanInProgress PlanStatus = "in-progress"
	PlanComplete   PlanStatus = "complete"
	PlanAbandoned  PlanStatus = "abandoned"
)

// validPlanStatuses is the set of allowed plan statuses.
var validPlanStatuses = map[PlanStatus]bool{
	PlanDraft:      true,
	PlanReady:      true,
	PlanInProgress: true,
	PlanComplete:   true,
	PlanAbandoned:  true,
}

// ValidatePlanStatus returns an error if the status is not recognized.
func ValidatePlanStatus(s PlanStatus) error {
	if !validPlanStatuses[s] {
		return fmt.Errorf("invalid plan status %q: must be one of: draft, ready, in-progress, complete, abandoned", s)
	}
	return nil
}

// --- Spec status enum ---

// SpecStatus tracks the phase a spec is in. The middle three are
// working phases that fire phase hooks on entry and exit.
type SpecStatus string

const (
	SpecDraft          SpecStatus = "draft"
	SpecPlanning       SpecStatus = "planning"
	SpecImplementation SpecStatus = "implementation"
	SpecTesting        SpecStatus = "testing"
	SpecDone           SpecStatus = "done"
)

// validSpecStatuses is the set of allowed spec statuses.
var validSpecStatuses = map[SpecStatus]bool{
	SpecDraft:          true,
	SpecPlanning:       true,
	SpecImplementation: true,
	SpecTesting:        true,
	SpecDone:           true,
}

// ValidateSpecStatus returns an error if the status is not recognized.
func ValidateSpecStatus(s SpecStatus) error {
	if !validSpecStatuses[s] {
		return fmt.Errorf("invalid spec status %q: must be one of: draft, planning, implementation, testing, done", s)
	}
	return nil
}

// Artifact describes a file the store created or found.
type Artifact struct {
	ID    string
	Slug  string
	Path  string
	Title string
}
