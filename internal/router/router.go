// Package router interprets free-form text and routes it to a workflow
// command.
//
// Priority order:
//  1. ready with an explicit plan reference
//  2. spec for an existing plan by reference
//  3. execute with an explicit spec id
//  4. spec verbs without a parent plan
//  5. execute verbs without a spec id
//  6. default: plan
package router

import (
	"regexp"
	"strings"
)

// Command is the routed workflow action.
type Command string

const (
	CommandPlan    Command = "plan"
	CommandSpec    Command = "spec"
	CommandExecute Command = "execute"
	CommandReady   Command = "ready"
)

// Result is the outcome of routing one input.
type Result struct {
	Command Command
	// TargetID is the referenced PLAN or SPEC ID when the input named
	// one, otherwise "".
	TargetID string
	// Title is the remaining text to use as an artifact title.
	Title string
}

// Filler words are stripped before verb matching. "for" is kept at
// first because "spec for plan-X" depends on it; it is stripped once
// the spec-for-plan patterns have had their chance.
var (
	fillerWithFor = regexp.MustCompile(`(?i)\b(create|make|add|new|please|the|a|an|for|to)\b`)
	whitespace    = regexp.MustCompile(`\s+`)
	quotedSpan    = regexp.MustCompile(`["'].*["']`)

	doubleQuoted = regexp.MustCompile(`"([^"]+)"`)
	singleQuoted = regexp.MustCompile(`'([^']+)'`)

	specVerbs = regexp.MustCompile(`(?i)\b(?:spec|specify|design|blueprint|detail)(?:\s+out)?\b`)
	execVerbs = regexp.MustCompile(`(?i)^(?:execute|run|build|implement|start|exec)\b`)
	planVerbs = regexp.MustCompile(`(?i)\b(?:task|plan|todo|work|feature)\b`)

	execWithIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:execute|run|build|implement)\s+(SPEC-\d{8}-[A-Z0-9]{6}[a-z0-9-]*|spec-\d+)`),
		regexp.MustCompile(`(?i)exec\s+(SPEC-[A-Za-z0-9-]+|spec-\d+)`),
		regexp.MustCompile(`(?i)(?:execute|run|build)\s+spec[- ]?([A-Za-z0-9-]+)`),
	}

	specForPlanPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)spec.*(?:for|on|of)\s+(PLAN-\d{8}-[A-Z0-9]{6}[a-z0-9-]*|plan-\d+)`),
		regexp.MustCompile(`(?i)(?:design|blueprint|specify).*(?:for|on|of)\s+(PLAN-[A-Za-z0-9-]+|plan-\d+)`),
		regexp.MustCompile(`(?i)plan[- ]?([A-Za-z0-9-]+)\s+(?:spec|specification|design)`),
	}

	readyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:mark|set|make)\s+(?:as\s+)?ready\s+(PLAN-\d{8}-[A-Z0-9]{6}[a-z0-9-]*|plan-\d+)`),
		regexp.MustCompile(`(?i)ready\s+(PLAN-\d{8}-[A-Z0-9]{6}[a-z0-9-]*|plan-\d+)`),
		regexp.MustCompile(`(?i)plan\s+ready\s+(PLAN-[A-Za-z0-9-]+)`),
		regexp.MustCompile(`(?i)(PLAN-\d{8}-[A-Z0-9]{6}[a-z0-9-]*|plan-\d+)\s+ready`),
	}

	legacyID = regexp.MustCompile(`^[TP]-\d+$`)
	bareID   = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// ExtractQuotedTitle returns the first quoted span in text, double
// quotes before single, or "".
func ExtractQuotedTitle(text string) string {
	if m := doubleQuoted.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := singleQuoted.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Route interprets user input and produces the command to run.
func Route(input string) Result {
	text := strings.TrimSpace(input)
	if text == "" {
		return Result{Command: CommandPlan, Title: "Untitled"}
	}

	quotedTitle := ExtractQuotedTitle(text)

	// Administrative ready commands beat everything else.
	for _, pattern := range readyPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return Result{
				Command:  CommandReady,
				TargetID: NormalizeID(m[1], "PLAN"),
			}
		}
	}

	// Spec-for-plan references depend on "for"/"on"/"of", so they run
	// before filler stripping.
	for _, pattern := range specForPlanPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			title := quotedTitle
			if title == "" {
				title = strings.TrimSpace(pattern.ReplaceAllString(text, ""))
				title = strings.TrimSpace(specVerbs.ReplaceAllString(title, ""))
			}
			return Result{
				Command:  CommandSpec,
				TargetID: NormalizeID(m[1], "PLAN"),
				Title:    title,
			}
		}
	}

	base := text
	if quotedTitle != "" {
		base = quotedSpan.ReplaceAllString(text, "")
	}
	cleaned := strings.TrimSpace(fillerWithFor.ReplaceAllString(base, " "))
	cleaned = whitespace.ReplaceAllString(cleaned, " ")

	for _, pattern := range execWithIDPatterns {
		if m := pattern.FindStringSubmatch(cleaned); m != nil {
			return Result{
				Command:  CommandExecute,
				TargetID: NormalizeID(m[1], "SPEC"),
			}
		}
	}

	if specVerbs.MatchString(cleaned) {
		title := quotedTitle
		if title == "" {
			title = strings.TrimSpace(specVerbs.ReplaceAllString(cleaned, ""))
		}
		if title == "" {
			title = "Specification"
		}
		return Result{Command: CommandSpec, Title: title}
	}

	if execVerbs.MatchString(cleaned) {
		title := quotedTitle
		if title == "" {
			title = strings.TrimSpace(execVerbs.ReplaceAllString(cleaned, ""))
		}
		return Result{Command: CommandExecute, Title: title}
	}

	title := quotedTitle
	if title == "" {
		title = strings.TrimSpace(planVerbs.ReplaceAllString(cleaned, ""))
		title = strings.TrimSpace(whitespace.ReplaceAllString(title, " "))
	}
	if title == "" {
		title = cleaned
	}
	if title == "" {
		title = "Untitled"
	}
	return Result{Command: CommandPlan, Title: title}
}

// ownerPatterns match the three accepted owner notations.
var ownerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)owner:\s*(\S+)`),
	regexp.MustCompile(`(?i)--owner\s+(\S+)`),
	regexp.MustCompile(`@(\S+)`),
}

// ExtractOwner pulls an owner notation (owner:alex, --owner alex,
// @alex) out of text. Returns the owner ("" when absent) and the text
// with the notation removed.
func ExtractOwner(text string) (string, string) {
	for _, pattern := range ownerPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			cleaned := strings.TrimSpace(pattern.ReplaceAllString(text, " "))
			cleaned = whitespace.ReplaceAllString(cleaned, " ")
			return m[1], cleaned
		}
	}
	return "", text
}

// NormalizeID expands shorthand references to a full ID. Bare numbers
// or codes get the prefix; legacy T-/P- IDs are kept as is.
func NormalizeID(id, prefix string) string {
	if id == "" {
		return ""
	}
	upper := strings.ToUpper(id)

	if strings.HasPrefix(upper, prefix+"-") {
		return upper
	}
	if legacyID.MatchString(upper) {
		return upper
	}
	if bareID.MatchString(upper) {
		return prefix + "-" + upper
	}
	return upper
}
