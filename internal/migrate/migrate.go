// Package migrate moves the artifact tree to a new location and
// rewrites path references across the repository.
//
// Migrations default to dry-run. An applied migration first copies the
// source tree to a backup location, then renames the directory and
// updates references, so a failed run can always be rolled back.
package migrate

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/otk-tools/otk/internal/logging"
)

// referenceGlobs are the file patterns scanned for path references.
var referenceGlobs = []string{
	"**/*.md",
	"**/*.yaml",
	"**/*.yml",
	"**/*.json",
	"**/*.toml",
	"**/*.txt",
}

// Config describes one folder migration.
type Config struct {
	// OldPath is the existing artifact directory.
	OldPath string
	// NewPath is the target directory. It must not exist yet.
	NewPath string
	// BackupPath overrides the default backup location
	// (OldPath + ".backup-<timestamp>").
	BackupPath string
	// DryRun previews the migration without touching anything.
	DryRun bool
}

// Validate checks the source and target paths.
func (c *Config) Validate() error {
	info, err := os.Stat(c.OldPath)
	if err != nil {
		return fmt.Errorf("source path %s does not exist", c.OldPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path %s is not a directory", c.OldPath)
	}
	if _, err := os.Stat(c.NewPath); err == nil {
		return fmt.Errorf("target path %s already exists, cannot overwrite", c.NewPath)
	}
	return nil
}

func (c *Config) backupPath() string {
	if c.BackupPath != "" {
		return c.BackupPath
	}
	return c.OldPath + ".backup-" + time.Now().UTC().Format("20060102-150405")
}

// Reference is one file that mentions the old path.
type Reference struct {
	FilePath    string `json:"file_path"`
	LineNumbers []int  `json:"line_numbers"`
	OldPattern  string `json:"old_pattern"`
	NewPattern  string `json:"new_pattern"`
}

// Result reports what a migration did (or, in dry-run, would do).
type Result struct {
	Timestamp          time.Time   `json:"timestamp"`
	DryRun             bool        `json:"dry_run"`
	FilesMoved         int         `json:"files_moved"`
	ReferencesUpdated  int         `json:"references_updated"`
	BackupCreated      bool        `json:"backup_created"`
	BackupLocation     string      `json:"backup_location,omitempty"`
	References         []Reference `json:"references,omitempty"`
	Issues             []string    `json:"issues,omitempty"`
	Warnings           []string    `json:"warnings,omitempty"`
	Success            bool        `json:"success"`
}

func (r *Result) addIssue(issue string) {
	r.Issues = append(r.Issues, issue)
	r.Success = false
}

func (r *Result) addWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// Migrator runs folder migrations under a repository root.
type Migrator struct {
	root string
	log  *logging.Logger
}

// New builds a migrator scanning for references under root.
func New(root string, log *logging.Logger) *Migrator {
	if log == nil {
		log = logging.Nop()
	}
	return &Migrator{root: root, log: log}
}

// ScanReferences finds files under the root that mention the old path.
// The migrated tree itself and the backup are not scanned.
func (m *Migrator) ScanReferences(cfg Config) ([]Reference, error) {
	oldRel, err := filepath.Rel(m.root, cfg.OldPath)
	if err != nil {
		oldRel = cfg.OldPath
	}
	newRel, err := filepath.Rel(m.root, cfg.NewPath)
	if err != nil {
		newRel = cfg.NewPath
	}
	backupRel := ""
	if cfg.BackupPath != "" {
		if rel, err := filepath.Rel(m.root, cfg.BackupPath); err == nil {
			backupRel = rel
		} else {
			backupRel = cfg.BackupPath
		}
	}

	fsys := os.DirFS(m.root)
	seen := map[string]bool{}
	var refs []Reference

	for _, pattern := range referenceGlobs {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("scanning references: %w", err)
		}
		for _, match := range matches {
			if seen[match] || underTree(match, oldRel) || inBackupTree(match) {
				continue
			}
			if backupRel != "" && underTree(match, backupRel) {
				continue
			}
			seen[match] = true

			ref, ok, err := scanFile(fsys, match, oldRel, newRel)
			if err != nil {
				m.log.Warn("skipping unreadable file",
					zap.String("path", match), zap.Error(err))
				continue
			}
			if ok {
				refs = append(refs, ref)
			}
		}
	}
	return refs, nil
}

// underTree reports whether path equals dir or lives inside it.
// doublestar matches use forward slashes regardless of platform.
func underTree(path, dir string) bool {
	dir = filepath.ToSlash(dir)
	return path == dir || strings.HasPrefix(path, dir+"/")
}

// inBackupTree reports whether any path segment is a migration backup
// directory. Backups must stay byte-identical to serve as restore
// points, so their contents are never rewritten.
func inBackupTree(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if strings.Contains(seg, ".backup-") {
			return true
		}
	}
	return false
}

func scanFile(fsys fs.FS, path, oldPattern, newPattern string) (Reference, bool, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Reference{}, false, err
	}
	var lines []int
	for i, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, oldPattern) {
			lines = append(lines, i+1)
		}
	}
	if len(lines) == 0 {
		return Reference{}, false, nil
	}
	return Reference{
		FilePath:    path,
		LineNumbers: lines,
		OldPattern:  oldPattern,
		NewPattern:  newPattern,
	}, true, nil
}

// Apply runs the migration. With cfg.DryRun it only reports the plan.
func (m *Migrator) Apply(cfg Config) (*Result, error) {
	res := &Result{Timestamp: time.Now().UTC(), DryRun: cfg.DryRun, Success: true}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	refs, err := m.ScanReferences(cfg)
	if err != nil {
		return nil, err
	}
	res.References = refs

	fileCount, err := countFiles(cfg.OldPath)
	if err != nil {
		return nil, fmt.Errorf("counting files: %w", err)
	}

	if cfg.DryRun {
		res.FilesMoved = fileCount
		for _, ref := range refs {
			res.ReferencesUpdated += len(ref.LineNumbers)
		}
		m.log.Info("dry run complete",
			zap.Int("files", fileCount), zap.Int("references", res.ReferencesUpdated))
		return res, nil
	}

	backup := cfg.backupPath()
	if err := copyTree(cfg.OldPath, backup); err != nil {
		return nil, fmt.Errorf("creating backup: %w", err)
	}
	res.BackupCreated = true
	res.BackupLocation = backup

	if err := os.Rename(cfg.OldPath, cfg.NewPath); err != nil {
		res.addIssue(fmt.Sprintf("moving %s: %v", cfg.OldPath, err))
		return res, nil
	}
	res.FilesMoved = fileCount

	for _, ref := range refs {
		n, err := rewriteFile(filepath.Join(m.root, ref.FilePath), ref.OldPattern, ref.NewPattern)
		if err != nil {
			res.addWarning(fmt.Sprintf("updating %s: %v", ref.FilePath, err))
			continue
		}
		res.ReferencesUpdated += n
	}

	m.log.Info("migration applied",
		zap.String("from", cfg.OldPath), zap.String("to", cfg.NewPath),
		zap.Int("files", res.FilesMoved), zap.Int("references", res.ReferencesUpdated))
	return res, nil
}

// Rollback reverses an applied migration by swapping the paths and
// rewriting references back.
func (m *Migrator) Rollback(cfg Config) (*Result, error) {
	reverse := Config{
		OldPath: cfg.NewPath,
		NewPath: cfg.OldPath,
		DryRun:  cfg.DryRun,
	}
	res, err := m.Apply(reverse)
	if err != nil {
		return nil, fmt.Errorf("rolling back: %w", err)
	}
	return res, nil
}

func countFiles(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	return count, err
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// rewriteFile replaces old with new and returns the number of lines
// that changed.
func rewriteFile(path, oldPat, newPat string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	lines := strings.Split(string(data), "\n")
	changed := 0
	for i, line := range lines {
		if strings.Contains(line, oldPat) {
			lines[i] = strings.ReplaceAll(line, oldPat, newPat)
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return 0, err
	}
	return changed, nil
}
