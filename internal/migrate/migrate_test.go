package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupRepo(t *testing.T) (root, oldDir string) {
	t.Helper()
	root = t.TempDir()
	oldDir = filepath.Join(root, ".ai_docs")
	if err := os.MkdirAll(filepath.Join(oldDir, "tasks"), 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(rel, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(".ai_docs/tasks/T-0001--fix-bug.md", "# TASK: Fix bug\n")
	write("README.md", "Artifacts live in .ai_docs/tasks.\nSee .ai_docs for details.\n")
	write("notes.txt", "no references here\n")
	return root, oldDir
}

func TestValidate(t *testing.T) {
	root, oldDir := setupRepo(t)

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{OldPath: oldDir, NewPath: filepath.Join(root, "ai_docs")},
		},
		{
			name:    "missing source",
			cfg:     Config{OldPath: filepath.Join(root, "nope"), NewPath: filepath.Join(root, "ai_docs")},
			wantErr: "does not exist",
		},
		{
			name:    "target exists",
			cfg:     Config{OldPath: oldDir, NewPath: root},
			wantErr: "already exists",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestScanReferences(t *testing.T) {
	root, oldDir := setupRepo(t)
	m := New(root, nil)

	refs, err := m.ScanReferences(Config{OldPath: oldDir, NewPath: filepath.Join(root, "ai_docs")})
	if err != nil {
		t.Fatalf("ScanReferences: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("refs = %d, want 1 (only README.md)", len(refs))
	}
	ref := refs[0]
	if ref.FilePath != "README.md" {
		t.Errorf("ref path = %q", ref.FilePath)
	}
	if len(ref.LineNumbers) != 2 || ref.LineNumbers[0] != 1 || ref.LineNumbers[1] != 2 {
		t.Errorf("line numbers = %v, want [1 2]", ref.LineNumbers)
	}
}

func TestScanReferencesSkipsBackupTrees(t *testing.T) {
	root, oldDir := setupRepo(t)
	backup := filepath.Join(root, ".ai_docs.backup-20250101-000000")
	if err := os.MkdirAll(filepath.Join(backup, "tasks"), 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(backup, "tasks", "T-0001--fix-bug.md")
	if err := os.WriteFile(stale, []byte("# TASK: Fix bug\nSee .ai_docs/tasks for context.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	named := filepath.Join(root, "safekeeping")
	if err := os.MkdirAll(named, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(named, "copy.md"), []byte("points at .ai_docs too\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(root, nil)
	refs, err := m.ScanReferences(Config{
		OldPath:    oldDir,
		NewPath:    filepath.Join(root, "ai_docs"),
		BackupPath: named,
	})
	if err != nil {
		t.Fatalf("ScanReferences: %v", err)
	}
	for _, ref := range refs {
		if strings.Contains(ref.FilePath, ".backup-") || strings.HasPrefix(ref.FilePath, "safekeeping/") {
			t.Errorf("backup content scanned: %s", ref.FilePath)
		}
	}
	if len(refs) != 1 || refs[0].FilePath != "README.md" {
		t.Errorf("refs = %+v, want only README.md", refs)
	}
}

func TestRollbackPreservesBackup(t *testing.T) {
	root, oldDir := setupRepo(t)
	task := filepath.Join(oldDir, "tasks", "T-0001--fix-bug.md")
	if err := os.WriteFile(task, []byte("# TASK: Fix bug\nLogs land in .ai_docs/tasks.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(root, nil)
	newDir := filepath.Join(root, "ai_docs")

	applied, err := m.Apply(Config{OldPath: oldDir, NewPath: newDir})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !applied.BackupCreated {
		t.Fatal("expected a backup")
	}

	res, err := m.Rollback(Config{OldPath: oldDir, NewPath: newDir})
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if !res.Success {
		t.Fatalf("issues = %v", res.Issues)
	}

	kept, err := os.ReadFile(filepath.Join(applied.BackupLocation, "tasks", "T-0001--fix-bug.md"))
	if err != nil {
		t.Fatalf("reading backup copy: %v", err)
	}
	if !strings.Contains(string(kept), ".ai_docs/tasks") {
		t.Errorf("rollback rewrote the backup copy:\n%s", kept)
	}
}

func TestApplyDryRun(t *testing.T) {
	root, oldDir := setupRepo(t)
	m := New(root, nil)

	res, err := m.Apply(Config{OldPath: oldDir, NewPath: filepath.Join(root, "ai_docs"), DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.DryRun || !res.Success {
		t.Errorf("result = %+v", res)
	}
	if res.FilesMoved != 1 {
		t.Errorf("files moved = %d, want 1", res.FilesMoved)
	}
	if res.ReferencesUpdated != 2 {
		t.Errorf("references = %d, want 2", res.ReferencesUpdated)
	}
	if res.BackupCreated {
		t.Error("dry run should not create a backup")
	}
	if _, err := os.Stat(oldDir); err != nil {
		t.Error("dry run moved the source directory")
	}
	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(readme), ".ai_docs") {
		t.Error("dry run rewrote references")
	}
}

func TestApply(t *testing.T) {
	root, oldDir := setupRepo(t)
	m := New(root, nil)
	newDir := filepath.Join(root, "ai_docs")
	backup := filepath.Join(root, "backup")

	res, err := m.Apply(Config{OldPath: oldDir, NewPath: newDir, BackupPath: backup})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.Success {
		t.Fatalf("issues = %v", res.Issues)
	}
	if !res.BackupCreated || res.BackupLocation != backup {
		t.Errorf("backup = %v %q", res.BackupCreated, res.BackupLocation)
	}

	if _, err := os.Stat(filepath.Join(newDir, "tasks", "T-0001--fix-bug.md")); err != nil {
		t.Error("task file not moved to target")
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("source directory still present")
	}
	if _, err := os.Stat(filepath.Join(backup, "tasks", "T-0001--fix-bug.md")); err != nil {
		t.Error("backup missing task file")
	}

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(readme), ".ai_docs") {
		t.Errorf("references not rewritten:\n%s", readme)
	}
	if !strings.Contains(string(readme), "ai_docs/tasks") {
		t.Errorf("new path missing from README:\n%s", readme)
	}
	if res.ReferencesUpdated != 2 {
		t.Errorf("references updated = %d, want 2", res.ReferencesUpdated)
	}
}

func TestRollback(t *testing.T) {
	root, oldDir := setupRepo(t)
	m := New(root, nil)
	newDir := filepath.Join(root, "ai_docs")
	cfg := Config{OldPath: oldDir, NewPath: newDir, BackupPath: filepath.Join(root, "backup")}

	if _, err := m.Apply(cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	res, err := m.Rollback(Config{OldPath: oldDir, NewPath: newDir})
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if !res.Success {
		t.Fatalf("issues = %v", res.Issues)
	}
	if _, err := os.Stat(filepath.Join(oldDir, "tasks", "T-0001--fix-bug.md")); err != nil {
		t.Error("rollback did not restore source directory")
	}
	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(readme), ".ai_docs/tasks") {
		t.Errorf("rollback did not restore references:\n%s", readme)
	}
}
