package ids

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var planIDPattern = regexp.MustCompile(`^PLAN-\d{8}-[A-Z0-9]{6}-[a-z0-9-]+$`)

func TestPlanID(t *testing.T) {
	id := PlanID("Fix Auth Bug")
	if !planIDPattern.MatchString(id) {
		t.Fatalf("PlanID = %q does not match expected shape", id)
	}
	if !strings.HasSuffix(id, "-fix-auth-bug") {
		t.Errorf("PlanID = %q missing slug suffix", id)
	}
	if !IsValidID(id) {
		t.Errorf("PlanID output %q fails IsValidID", id)
	}
}

func TestSpecID(t *testing.T) {
	id := SpecID("Add OAuth2 support")
	if !strings.HasPrefix(id, "SPEC-") {
		t.Fatalf("SpecID = %q", id)
	}
	if !IsValidID(id) {
		t.Errorf("SpecID output %q fails IsValidID", id)
	}
}

func TestIDSlugTruncation(t *testing.T) {
	long := strings.Repeat("word ", 20)
	id := PlanID(long)
	parsed, err := ParseID(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Slug) > idSlugLen {
		t.Errorf("slug %q longer than %d", parsed.Slug, idSlugLen)
	}
}

func TestNewULID6(t *testing.T) {
	s := NewULID6()
	if len(s) != 6 {
		t.Fatalf("length = %d", len(s))
	}
	if s != strings.ToUpper(s) {
		t.Errorf("not uppercase: %q", s)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantErr  bool
		wantType string
		wantSlug string
	}{
		{"plan with slug", "PLAN-20260315-01ABCD-fix-auth", false, "PLAN", "fix-auth"},
		{"spec without slug", "SPEC-20260315-01ABCD", false, "SPEC", ""},
		{"lowercase accepted", "plan-20260315-01abcd-fix-auth", false, "PLAN", "fix-auth"},
		{"legacy task", "T-0042", false, "TASK", ""},
		{"legacy plan", "P-0007", false, "PLAN", ""},
		{"bad prefix", "TASK-20260315-01ABCD-x", true, "", ""},
		{"short date", "PLAN-2026031-01ABCD-x", true, "", ""},
		{"short ulid6", "PLAN-20260315-01ABC-x", true, "", ""},
		{"empty", "", true, "", ""},
		{"garbage", "hello world", true, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseID(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseID(%q) succeeded, want error", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if parsed.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", parsed.Type, tt.wantType)
			}
			if parsed.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", parsed.Slug, tt.wantSlug)
			}
		})
	}
}

func TestParseIDLegacyNumber(t *testing.T) {
	parsed, err := ParseID("T-0042")
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Legacy {
		t.Error("Legacy flag not set")
	}
	if parsed.Number != 42 {
		t.Errorf("Number = %d", parsed.Number)
	}
	if got := parsed.String(); got != "T-0042" {
		t.Errorf("String() = %q, want T-0042", got)
	}
}

func TestParsedString(t *testing.T) {
	id := "PLAN-20260315-01ABCD-fix-auth"
	parsed, err := ParseID(id)
	if err != nil {
		t.Fatal(err)
	}
	if got := parsed.String(); got != id {
		t.Errorf("String() = %q, want %q", got, id)
	}
}

func TestCollisionPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PLAN-0001--fix.md")

	// Nothing on disk: path comes back unchanged.
	got, err := CollisionPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("free path rewritten to %q", got)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = CollisionPath(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "PLAN-0001--fix-migrated-1.md")
	if got != want {
		t.Errorf("CollisionPath = %q, want %q", got, want)
	}
}
