package artifact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JournalFile is the machine-readable record of execution runs, one
// JSON object per line, inside the exec logs directory.
const JournalFile = "otk_exec.jsonl"

// ExecEvent is one journal entry.
type ExecEvent struct {
	Spec    string `json:"spec"`
	Owner   string `json:"owner"`
	Started string `json:"started"`
	Path    string `json:"path"`
}

// ExecJournal appends run records to the JSONL journal and mirrors
// each one into a human-readable daily digest (EXEC-YYYYMMDD.md).
type ExecJournal struct {
	dir string
}

// NewExecJournal creates a journal rooted at the exec logs directory.
func NewExecJournal(dir string) *ExecJournal {
	return &ExecJournal{dir: dir}
}

// Record appends the event to the journal and the daily digest.
func (j *ExecJournal) Record(ev ExecEvent) error {
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("creating exec logs directory: %w", err)
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding exec event: %w", err)
	}
	if err := appendLine(filepath.Join(j.dir, JournalFile), string(line)); err != nil {
		return fmt.Errorf("appending exec journal: %w", err)
	}

	day := strings.ReplaceAll(strings.SplitN(ev.Started, "T", 2)[0], "-", "")
	digest := filepath.Join(j.dir, "EXEC-"+day+".md")
	entry := fmt.Sprintf("- %s started %s (owner: %s) → %s", ev.Started, ev.Spec, ev.Owner, ev.Path)

	if _, err := os.Stat(digest); os.IsNotExist(err) {
		header := fmt.Sprintf("# Execution digest %s\n", day)
		if err := appendLine(digest, header); err != nil {
			return fmt.Errorf("writing digest header: %w", err)
		}
	}
	if err := appendLine(digest, entry); err != nil {
		return fmt.Errorf("appending digest: %w", err)
	}
	return nil
}

// Events reads all journal entries, skipping malformed lines.
func (j *ExecJournal) Events() ([]ExecEvent, error) {
	f, err := os.Open(filepath.Join(j.dir, JournalFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening exec journal: %w", err)
	}
	defer f.Close()

	var out []ExecEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev ExecEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("reading exec journal: %w", err)
	}
	return out, nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	return err
}
