package router

import "testing"

func TestRoute(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantCmd    Command
		wantTarget string
		wantTitle  string
	}{
		{
			name:    "empty input defaults to plan",
			input:   "",
			wantCmd: CommandPlan, wantTitle: "Untitled",
		},
		{
			name:    "plain title is a plan",
			input:   "fix the login flow",
			wantCmd: CommandPlan, wantTitle: "fix login flow",
		},
		{
			name:    "plan verb stripped from title",
			input:   "create a plan fix auth",
			wantCmd: CommandPlan, wantTitle: "fix auth",
		},
		{
			name:    "quoted title preserved",
			input:   `plan "OAuth 2.1 & PKCE"`,
			wantCmd: CommandPlan, wantTitle: "OAuth 2.1 & PKCE",
		},
		{
			name:    "single quoted title",
			input:   "spec 'Design: Auth flows'",
			wantCmd: CommandSpec, wantTitle: "Design: Auth flows",
		},
		{
			name:    "ready with full plan id",
			input:   "mark ready PLAN-20251013-01T6N8-fix-auth",
			wantCmd: CommandReady, wantTarget: "PLAN-20251013-01T6N8-FIX-AUTH",
		},
		{
			name:    "ready shorthand",
			input:   "ready plan-123",
			wantCmd: CommandReady, wantTarget: "PLAN-123",
		},
		{
			name:    "trailing ready",
			input:   "plan-42 ready",
			wantCmd: CommandReady, wantTarget: "PLAN-42",
		},
		{
			name:    "spec for plan reference",
			input:   "spec for plan-123",
			wantCmd: CommandSpec, wantTarget: "PLAN-123", wantTitle: "",
		},
		{
			name:    "design for full plan id",
			input:   "design for PLAN-20251013-01T6N8",
			wantCmd: CommandSpec, wantTarget: "PLAN-20251013-01T6N8",
		},
		{
			name:    "execute with spec id",
			input:   "execute spec-456",
			wantCmd: CommandExecute, wantTarget: "SPEC-456",
		},
		{
			name:    "run full spec id",
			input:   "run SPEC-20251013-02NZ6Q-payment",
			wantCmd: CommandExecute, wantTarget: "SPEC-20251013-02NZ6Q-PAYMENT",
		},
		{
			name:    "exec shorthand",
			input:   "exec spec-7",
			wantCmd: CommandExecute, wantTarget: "SPEC-7",
		},
		{
			name:    "spec verb without parent",
			input:   "spec the payment flow",
			wantCmd: CommandSpec, wantTitle: "payment flow",
		},
		{
			name:    "bare spec verb gets default title",
			input:   "spec",
			wantCmd: CommandSpec, wantTitle: "Specification",
		},
		{
			name:    "execute verb without id",
			input:   "implement payment retries",
			wantCmd: CommandExecute, wantTitle: "payment retries",
		},
		{
			name:    "exec verb only at start",
			input:   "we should build payment retries",
			wantCmd: CommandPlan, wantTitle: "we should build payment retries",
		},
		{
			name:    "filler words removed",
			input:   "please create a new task for onboarding",
			wantCmd: CommandPlan, wantTitle: "onboarding",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.input)
			if got.Command != tt.wantCmd {
				t.Errorf("Route(%q).Command = %q, want %q", tt.input, got.Command, tt.wantCmd)
			}
			if got.TargetID != tt.wantTarget {
				t.Errorf("Route(%q).TargetID = %q, want %q", tt.input, got.TargetID, tt.wantTarget)
			}
			if tt.wantTitle != "" && got.Title != tt.wantTitle {
				t.Errorf("Route(%q).Title = %q, want %q", tt.input, got.Title, tt.wantTitle)
			}
		})
	}
}

func TestExtractQuotedTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`plan "OAuth 2.1 & PKCE"`, "OAuth 2.1 & PKCE"},
		{"spec 'Design: Auth flows'", "Design: Auth flows"},
		{`"double" and 'single'`, "double"},
		{"no quotes here", ""},
	}
	for _, tt := range tests {
		if got := ExtractQuotedTitle(tt.input); got != tt.want {
			t.Errorf("ExtractQuotedTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractOwner(t *testing.T) {
	tests := []struct {
		input       string
		wantOwner   string
		wantCleaned string
	}{
		{"fix auth owner:alex", "alex", "fix auth"},
		{"fix auth --owner alex", "alex", "fix auth"},
		{"fix auth @alex", "alex", "fix auth"},
		{"owner: sam fix auth", "sam", "fix auth"},
		{"no owner here", "", "no owner here"},
	}
	for _, tt := range tests {
		owner, cleaned := ExtractOwner(tt.input)
		if owner != tt.wantOwner {
			t.Errorf("ExtractOwner(%q) owner = %q, want %q", tt.input, owner, tt.wantOwner)
		}
		if cleaned != tt.wantCleaned {
			t.Errorf("ExtractOwner(%q) cleaned = %q, want %q", tt.input, cleaned, tt.wantCleaned)
		}
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		id     string
		prefix string
		want   string
	}{
		{"123", "PLAN", "PLAN-123"},
		{"PLAN-123", "PLAN", "PLAN-123"},
		{"plan-123", "PLAN", "PLAN-123"},
		{"P-123", "PLAN", "P-123"},
		{"T-42", "SPEC", "T-42"},
		{"02NZ6Q", "SPEC", "SPEC-02NZ6Q"},
		{"", "PLAN", ""},
	}
	for _, tt := range tests {
		if got := NormalizeID(tt.id, tt.prefix); got != tt.want {
			t.Errorf("NormalizeID(%q, %q) = %q, want %q", tt.id, tt.prefix, got, tt.want)
		}
	}
}
