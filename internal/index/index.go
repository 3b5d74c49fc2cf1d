// Package index maintains the JSONL lookup index that maps ULIs,
// slugs, and numeric IDs to artifact files.
//
// Storage format: one JSON record per line in uli_index.jsonl. Appends
// take an exclusive flock on a sibling .lock file so concurrent otk
// processes don't interleave writes.
package index

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/otk-tools/otk/internal/ids"
	"github.com/otk-tools/otk/internal/logging"
	"github.com/otk-tools/otk/internal/slug"
	"go.uber.org/zap"
)

// FileName is the index filename inside the artifact root.
const FileName = "uli_index.jsonl"

var numericIDPattern = regexp.MustCompile(`^[TP]-\d{4}$`)

// Record is one index entry.
type Record struct {
	ULI     string    `json:"uli"`
	Type    string    `json:"type"` // task or plan
	ID      string    `json:"id"`   // T-0042 or P-0007
	Slug    string    `json:"slug"`
	Path    string    `json:"path"` // relative to the artifact root
	Title   string    `json:"title"`
	Created time.Time `json:"created"`
}

// Validate checks all field constraints.
func (r Record) Validate() error {
	if !ids.ValidateULI(r.ULI) {
		return fmt.Errorf("invalid ULI: %q", r.ULI)
	}
	switch r.Type {
	case "task", "plan":
	default:
		return fmt.Errorf("type must be task or plan, got %q", r.Type)
	}
	if !numericIDPattern.MatchString(r.ID) {
		return fmt.Errorf("id must match T-NNNN or P-NNNN, got %q", r.ID)
	}
	if !slug.Validate(r.Slug, slug.DefaultMaxLen) {
		return fmt.Errorf("invalid slug: %q", r.Slug)
	}
	if r.Path == "" {
		return fmt.Errorf("path must not be empty")
	}
	if r.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	return nil
}

// Manager caches the index in memory and appends records atomically.
// Not safe for concurrent use from multiple goroutines; the flock
// guards against concurrent processes.
type Manager struct {
	path string
	log  *logging.Logger

	byULI  map[string]Record
	bySlug map[string][]Record
	byID   map[string]Record
}

// NewManager opens the index at path and loads it into memory.
// A missing index file is not an error.
func NewManager(path string, log *logging.Logger) (*Manager, error) {
	if log == nil {
		log = logging.Nop()
	}
	m := &Manager{path: path, log: log}
	if err := m.Refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

// Append validates record, checks for ULI and ID conflicts, and writes
// the record to the index under an exclusive lock.
func (m *Manager) Append(rec Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid index record: %w", err)
	}
	if _, ok := m.byULI[rec.ULI]; ok {
		return fmt.Errorf("ULI %s already exists in index", rec.ULI)
	}
	if _, ok := m.byID[rec.ID]; ok {
		return fmt.Errorf("ID %s already exists in index", rec.ID)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	unlock, err := acquireLock(m.path + ".lock")
	if err != nil {
		return fmt.Errorf("failed to lock index: %w", err)
	}
	defer unlock()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode index record: %w", err)
	}

	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append index record: %w", err)
	}

	m.addToCache(rec)
	return nil
}

// ByULI returns the record for a ULI, or false.
func (m *Manager) ByULI(uli string) (Record, bool) {
	rec, ok := m.byULI[uli]
	return rec, ok
}

// BySlug returns all records sharing a slug. typeFilter narrows the
// result to "task" or "plan" when non-empty.
func (m *Manager) BySlug(s, typeFilter string) []Record {
	recs := m.bySlug[s]
	if typeFilter == "" {
		return recs
	}
	var out []Record
	for _, r := range recs {
		if r.Type == typeFilter {
			out = append(out, r)
		}
	}
	return out
}

// ByID returns the record for a numeric ID, or false.
func (m *Manager) ByID(id string) (Record, bool) {
	rec, ok := m.byID[id]
	return rec, ok
}

// All returns every cached record sorted by ULI, which is creation
// order.
func (m *Manager) All() []Record {
	out := make([]Record, 0, len(m.byULI))
	for _, rec := range m.byULI {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ULI < out[j].ULI })
	return out
}

// Refresh rebuilds the in-memory cache from the index file. Malformed
// lines are logged and skipped so one bad record doesn't poison the
// whole index.
func (m *Manager) Refresh() error {
	m.byULI = map[string]Record{}
	m.bySlug = map[string][]Record{}
	m.byID = map[string]Record{}

	f, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			m.log.Warn("skipping malformed index line",
				zap.Int("line", lineNum), zap.Error(err))
			continue
		}
		if err := rec.Validate(); err != nil {
			m.log.Warn("skipping invalid index record",
				zap.Int("line", lineNum), zap.Error(err))
			continue
		}
		m.addToCache(rec)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	return nil
}

// Rebuild discards the index file and re-creates it by scanning the
// task and plan directories for legacy-format files. Returns the
// number of tasks and plans indexed.
func (m *Manager) Rebuild(tasksDir, plansDir string) (int, int, error) {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return 0, 0, fmt.Errorf("failed to remove old index: %w", err)
	}
	m.byULI = map[string]Record{}
	m.bySlug = map[string][]Record{}
	m.byID = map[string]Record{}

	tasks, err := m.indexDir(tasksDir, "T", "task")
	if err != nil {
		return tasks, 0, err
	}
	plans, err := m.indexDir(plansDir, "P", "plan")
	if err != nil {
		return tasks, plans, err
	}
	return tasks, plans, nil
}

func (m *Manager) indexDir(dir, prefix, kind string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"-*.md"))
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(matches)

	count := 0
	for _, path := range matches {
		pf, ok := ids.ParseFilename(filepath.Base(path))
		if !ok {
			continue
		}

		title := titleFromFile(path)
		if title == "" {
			title = titleFromSlug(pf.Slug)
		}

		var created time.Time
		if info, err := os.Stat(path); err == nil {
			created = info.ModTime().UTC()
		} else {
			created = time.Now().UTC()
		}

		rec := Record{
			ULI:     ids.NewULI(),
			Type:    kind,
			ID:      fmt.Sprintf("%s-%s", pf.Prefix, pf.NumericID),
			Slug:    pf.Slug,
			Path:    filepath.Join(filepath.Base(dir), filepath.Base(path)),
			Title:   title,
			Created: created,
		}
		if err := m.Append(rec); err != nil {
			return count, fmt.Errorf("failed to index %s: %w", path, err)
		}
		count++
	}
	return count, nil
}

// Check scans the cache for records whose numeric ID or path collide.
// ULI and ID duplicates are already rejected on append, so this mainly
// catches hand-edited index files after Refresh tolerated them.
func (m *Manager) Check() []string {
	var problems []string

	paths := map[string]string{}
	for _, rec := range m.All() {
		if prev, ok := paths[rec.Path]; ok {
			problems = append(problems, fmt.Sprintf(
				"path %s indexed by both %s and %s", rec.Path, prev, rec.ID))
			continue
		}
		paths[rec.Path] = rec.ID
	}

	for s, recs := range m.bySlug {
		seen := map[string]bool{}
		for _, rec := range recs {
			key := rec.Type + "/" + rec.ID
			if seen[key] {
				problems = append(problems, fmt.Sprintf(
					"slug %s has duplicate %s entries for %s", s, rec.Type, rec.ID))
			}
			seen[key] = true
		}
	}

	sort.Strings(problems)
	return problems
}

func (m *Manager) addToCache(rec Record) {
	m.byULI[rec.ULI] = rec
	m.bySlug[rec.Slug] = append(m.bySlug[rec.Slug], rec)
	m.byID[rec.ID] = rec
}

// titleFromFile pulls the title field out of YAML front matter without
// a full parse. Returns "" when no title is found.
func titleFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	content := string(data)
	if !strings.HasPrefix(content, "---") {
		return ""
	}
	end := strings.Index(content[3:], "---")
	if end == -1 {
		return ""
	}
	for _, line := range strings.Split(content[3:3+end], "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "title:") {
			continue
		}
		title := strings.TrimSpace(strings.TrimPrefix(line, "title:"))
		title = strings.Trim(title, `"'`)
		return title
	}
	return ""
}

// titleFromSlug turns fix-auth-bug into "Fix Auth Bug" for legacy files
// with no front matter title.
func titleFromSlug(s string) string {
	words := strings.Split(s, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
