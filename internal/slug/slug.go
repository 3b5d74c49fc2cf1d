// Package slug converts human-readable titles into URL- and
// filesystem-safe slugs.
//
// Slug properties:
//   - Lowercase alphanumeric with single hyphens
//   - No leading/trailing hyphens
//   - Bounded length (60 by default, 36 inside artifact IDs)
//   - Non-ASCII characters are dropped
//
// Example: "Fix Auth Bug!" → "fix-auth-bug"
package slug

import (
	"fmt"
	"strings"
)

// DefaultMaxLen is the cap for standalone slugs.
const DefaultMaxLen = 60

// Fallback is returned when a title produces no usable characters.
const Fallback = "untitled"

// Make converts title into a slug of at most maxLen characters.
// Empty or all-punctuation input yields Fallback.
func Make(title string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	prevHyphen := true // swallow leading separators
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		default:
			// Everything else, including unicode, collapses to one hyphen.
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	if out == "" {
		return Fallback
	}
	return out
}

// EnsureUnique returns base unchanged when it isn't taken, otherwise
// appends -2, -3, … until the slug is unused.
func EnsureUnique(base string, existing map[string]bool) string {
	if !existing[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !existing[candidate] {
			return candidate
		}
	}
}

// Validate reports whether s is a well-formed slug: non-empty, within
// maxLen, lowercase alphanumeric plus hyphens, no leading/trailing or
// doubled hyphens.
func Validate(s string, maxLen int) bool {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if s == "" || len(s) > maxLen {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	if strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// Normalize re-slugifies an existing slug so manually created or
// imported slugs meet the format rules.
func Normalize(s string, maxLen int) string {
	return Make(s, maxLen)
}
