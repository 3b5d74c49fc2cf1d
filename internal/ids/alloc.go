package ids

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/otk-tools/otk/internal/slug"
)

// NextNumeric scans dir for files named like T-0001.md or P-0123.md and
// returns the next zero-padded 4-digit number. Deriving the counter from
// the directory avoids a global counter file that would conflict on
// merges. Files that don't match the pattern are ignored.
func NextNumeric(prefix, dir string) string {
	hi := 0
	matches, _ := filepath.Glob(filepath.Join(dir, prefix+"-*.md"))
	for _, p := range matches {
		stem := strings.TrimSuffix(filepath.Base(p), ".md")
		parts := strings.SplitN(stem, "-", 3)
		if len(parts) < 2 {
			continue
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		if n > hi {
			hi = n
		}
	}
	return fmt.Sprintf("%04d", hi+1)
}

// DedupeFilename builds a unique filename of the form
// {prefix}-{numericID}--{slug}.md inside dir. If another file already
// uses the same slug for that numeric ID, a numeric suffix (-2, -3, …)
// is appended. Returns the filename and the slug actually used.
func DedupeFilename(prefix, numericID, title, dir string) (string, string) {
	base := slug.Make(title, slug.DefaultMaxLen)

	existing := map[string]bool{}
	matches, _ := filepath.Glob(filepath.Join(dir, fmt.Sprintf("%s-%s--*.md", prefix, numericID)))
	for _, p := range matches {
		if s := SlugFromFilename(filepath.Base(p)); s != "" {
			existing[s] = true
		}
	}

	unique := slug.EnsureUnique(base, existing)
	return fmt.Sprintf("%s-%s--%s.md", prefix, numericID, unique), unique
}

// SlugFromFilename extracts the slug from a {prefix}-{id}--{slug}.md
// filename. Returns "" when the name doesn't carry a slug.
func SlugFromFilename(filename string) string {
	stem := strings.TrimSuffix(filename, ".md")
	_, s, ok := strings.Cut(stem, "--")
	if !ok {
		return ""
	}
	return s
}

// ParsedFilename holds the components of a slug-carrying filename.
type ParsedFilename struct {
	Prefix    string
	NumericID string
	Slug      string
}

// ParseFilename splits T-0042--fix-auth-bug.md into its parts.
// Returns false when the name doesn't match the format.
func ParseFilename(filename string) (ParsedFilename, bool) {
	stem := strings.TrimSuffix(filename, ".md")
	idPart, slugPart, ok := strings.Cut(stem, "--")
	if !ok {
		return ParsedFilename{}, false
	}
	prefix, num, ok := strings.Cut(idPart, "-")
	if !ok {
		return ParsedFilename{}, false
	}
	return ParsedFilename{Prefix: prefix, NumericID: num, Slug: slugPart}, true
}
