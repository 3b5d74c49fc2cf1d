package ids

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/otk-tools/otk/internal/slug"
)

// idSlugLen caps the slug inside an artifact ID so the full ID stays
// readable after the TYPE-YYYYMMDD-ULID6- prefix.
const idSlugLen = 36

var (
	idPattern     = regexp.MustCompile(`^(PLAN|SPEC)-(\d{8})-([A-Z0-9]{6})(?:-(.+))?$`)
	legacyPattern = regexp.MustCompile(`^([TP])-(\d+)$`)
)

// NewULID6 returns 6 characters derived from a monotonic ULI: the first
// 4 timestamp characters for sorting plus characters 10:12 of the random
// component for uniqueness. Uppercase Crockford base32.
func NewULID6() string {
	u := NewULI()
	return u[:4] + u[10:12]
}

// PlanID generates a full plan ID: PLAN-YYYYMMDD-ULID6-slug.
func PlanID(title string) string {
	return artifactID("PLAN", title, timeNow().UTC())
}

// SpecID generates a full spec ID: SPEC-YYYYMMDD-ULID6-slug.
func SpecID(title string) string {
	return artifactID("SPEC", title, timeNow().UTC())
}

func artifactID(kind, title string, day time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%s",
		kind,
		day.Format("20060102"),
		NewULID6(),
		slug.Make(title, idSlugLen),
	)
}

// Parsed holds the components of an artifact ID.
// Legacy numeric IDs (T-0042, P-0007) set Legacy and Number; the
// date/ULID6/slug fields stay empty for those.
type Parsed struct {
	Type   string // PLAN, SPEC, or TASK for legacy T- IDs
	Date   string // YYYYMMDD
	ULID6  string
	Slug   string
	Number int
	Legacy bool
}

// ParseID splits an artifact ID into its components. Matching is
// case-insensitive; the slug is returned lowercase.
func ParseID(id string) (Parsed, error) {
	upper := strings.ToUpper(id)

	if m := idPattern.FindStringSubmatch(upper); m != nil {
		return Parsed{
			Type:  m[1],
			Date:  m[2],
			ULID6: m[3],
			Slug:  strings.ToLower(m[4]),
		}, nil
	}

	if m := legacyPattern.FindStringSubmatch(upper); m != nil {
		n, _ := strconv.Atoi(m[2])
		kind := "PLAN"
		if m[1] == "T" {
			kind = "TASK"
		}
		return Parsed{Type: kind, Number: n, Legacy: true}, nil
	}

	return Parsed{}, fmt.Errorf("invalid ID format: %s", id)
}

// IsValidID reports whether id parses as an artifact ID or a legacy
// numeric ID.
func IsValidID(id string) bool {
	_, err := ParseID(id)
	return err == nil
}

// String reassembles the canonical form of a parsed ID.
func (p Parsed) String() string {
	if p.Legacy {
		prefix := "P"
		if p.Type == "TASK" {
			prefix = "T"
		}
		return fmt.Sprintf("%s-%04d", prefix, p.Number)
	}
	if p.Slug == "" {
		return fmt.Sprintf("%s-%s-%s", p.Type, p.Date, p.ULID6)
	}
	return fmt.Sprintf("%s-%s-%s-%s", p.Type, p.Date, p.ULID6, p.Slug)
}

// CollisionPath resolves a filename collision by appending -migrated-N
// to the stem. Collisions are rare (ULIDs are unique) but can happen
// after branch merges. The ID inside the file is not changed.
func CollisionPath(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; n <= 100; n++ {
		candidate := fmt.Sprintf("%s-migrated-%d%s", stem, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("too many collisions for %s", path)
}
