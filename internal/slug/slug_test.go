package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		maxLen int
		want   string
	}{
		{"simple", "Fix Auth Bug", 60, "fix-auth-bug"},
		{"punctuation", "Fix Auth Bug!", 60, "fix-auth-bug"},
		{"mixed separators", "add__OAuth2 / OIDC support", 60, "add-oauth2-oidc-support"},
		{"leading trailing junk", "  --Hello World--  ", 60, "hello-world"},
		{"empty", "", 60, "untitled"},
		{"only punctuation", "!!! ???", 60, "untitled"},
		{"unicode dropped", "café münchen", 60, "caf-m-nchen"},
		{"numbers kept", "v2 rollout plan", 60, "v2-rollout-plan"},
		{"truncated", "this is a very long title that keeps going", 16, "this-is-a-very"},
		{"zero maxLen uses default", strings.Repeat("a", 100), 0, strings.Repeat("a", 60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Make(tt.title, tt.maxLen)
			if got != tt.want {
				t.Errorf("Make(%q, %d) = %q, want %q", tt.title, tt.maxLen, got, tt.want)
			}
			max := tt.maxLen
			if max <= 0 {
				max = DefaultMaxLen
			}
			if len(got) > max {
				t.Errorf("Make(%q, %d) length %d exceeds max %d", tt.title, tt.maxLen, len(got), max)
			}
			if !Validate(got, max) {
				t.Errorf("Make(%q, %d) = %q does not validate", tt.title, tt.maxLen, got)
			}
		})
	}
}

func TestMakeNoTrailingHyphenAfterTruncation(t *testing.T) {
	// Truncating at a separator boundary must not leave a dangling hyphen.
	got := Make("alpha beta gamma", 11)
	if got != "alpha-beta" {
		t.Errorf("got %q, want %q", got, "alpha-beta")
	}
}

func TestEnsureUnique(t *testing.T) {
	existing := map[string]bool{
		"fix-auth": true,
		"fix-auth-2": true,
	}
	if got := EnsureUnique("new-slug", existing); got != "new-slug" {
		t.Errorf("untaken slug changed: %q", got)
	}
	if got := EnsureUnique("fix-auth", existing); got != "fix-auth-3" {
		t.Errorf("EnsureUnique = %q, want fix-auth-3", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"fix-auth-bug", true},
		{"a", true},
		{"v2", true},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"Upper-Case", false},
		{"has_underscore", false},
		{"has space", false},
	}
	for _, tt := range tests {
		if got := Validate(tt.slug, DefaultMaxLen); got != tt.want {
			t.Errorf("Validate(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
