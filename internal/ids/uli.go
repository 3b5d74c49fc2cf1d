// Package ids implements the identifier system for planning artifacts.
//
// Two identifier families coexist:
//   - ULI: a 26-character ULID (Crockford base32, time-sortable, unique)
//   - Artifact ID: TYPE-YYYYMMDD-ULID6-slug, e.g. PLAN-20251013-01T6N8-ship-auth
//
// Legacy numeric IDs (T-0042, P-0007) are still parsed and allocated for
// the task workflow; see alloc.go.
package ids

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// crockford is the base32 alphabet from the ULID spec.
// It excludes I, L, O, U to avoid ambiguity.
const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var uliPattern = regexp.MustCompile(`^[0-9ABCDEFGHJKMNPQRSTVWXYZ]{26}$`)

// ULID layout: 48-bit millisecond timestamp + 80-bit randomness,
// encoded as 10 + 16 base32 characters.
const (
	uliLen     = 26
	uliTimeLen = 10
	uliRandLen = 16
)

// monotonic state: when two ULIDs are generated within the same
// millisecond, the random component is incremented instead of redrawn,
// so in-process IDs are strictly increasing.
var (
	uliMu       sync.Mutex
	uliLastMs   uint64
	uliLastRand [10]byte
)

// timeNow is replaceable in tests.
var timeNow = time.Now

// NewULI generates a new time-sortable 26-character ULI.
func NewULI() string {
	uliMu.Lock()
	defer uliMu.Unlock()

	ms := uint64(timeNow().UnixMilli())
	if ms == uliLastMs {
		incrementRand(&uliLastRand)
	} else {
		if _, err := rand.Read(uliLastRand[:]); err != nil {
			// crypto/rand never fails on supported platforms; if it
			// somehow does, fall back to the clock so IDs stay unique
			// enough for a single process.
			binaryFill(&uliLastRand, uint64(timeNow().UnixNano()))
		}
		uliLastMs = ms
	}

	return encodeULI(ms, uliLastRand)
}

// ULIFromTime builds a ULI for a specific timestamp. Intended for
// migrations and tests; the random component is drawn fresh.
func ULIFromTime(t time.Time) string {
	var rnd [10]byte
	if _, err := rand.Read(rnd[:]); err != nil {
		binaryFill(&rnd, uint64(t.UnixNano()))
	}
	return encodeULI(uint64(t.UnixMilli()), rnd)
}

// ValidateULI reports whether s is a well-formed ULI: exactly 26
// characters from the Crockford base32 alphabet.
func ValidateULI(s string) bool {
	return len(s) == uliLen && uliPattern.MatchString(s)
}

// ULITimestamp extracts the millisecond Unix timestamp from a ULI.
func ULITimestamp(uli string) (int64, error) {
	if !ValidateULI(uli) {
		return 0, fmt.Errorf("invalid ULI format: %s", uli)
	}

	var ms uint64
	for i := 0; i < uliTimeLen; i++ {
		idx := strings.IndexByte(crockford, uli[i])
		if idx < 0 {
			return 0, fmt.Errorf("invalid ULI character %q in %s", uli[i], uli)
		}
		ms = ms<<5 | uint64(idx)
	}
	return int64(ms), nil
}

// ULITime extracts the creation time from a ULI as a UTC time.
func ULITime(uli string) (time.Time, error) {
	ms, err := ULITimestamp(uli)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// OlderThan reports whether a was created before b, comparing the
// embedded timestamps only.
func OlderThan(a, b string) (bool, error) {
	ta, err := ULITimestamp(a)
	if err != nil {
		return false, err
	}
	tb, err := ULITimestamp(b)
	if err != nil {
		return false, err
	}
	return ta < tb, nil
}

// encodeULI renders the 48-bit timestamp and 80-bit randomness as a
// 26-character Crockford base32 string.
func encodeULI(ms uint64, rnd [10]byte) string {
	var b [uliLen]byte

	// Timestamp: 48 bits into 10 chars, most significant first.
	for i := uliTimeLen - 1; i >= 0; i-- {
		b[i] = crockford[ms&0x1f]
		ms >>= 5
	}

	// Randomness: 80 bits into 16 chars. Walk the bit stream directly.
	var acc uint64
	bits := 0
	pos := uliTimeLen
	for _, rb := range rnd {
		acc = acc<<8 | uint64(rb)
		bits += 8
		for bits >= 5 {
			bits -= 5
			b[pos] = crockford[(acc>>uint(bits))&0x1f]
			pos++
		}
	}

	return string(b[:])
}

// incrementRand treats the 10-byte randomness as a big-endian integer
// and adds one. Overflow wraps to zero, which keeps generation going
// even in the pathological case.
func incrementRand(r *[10]byte) {
	for i := len(r) - 1; i >= 0; i-- {
		r[i]++
		if r[i] != 0 {
			return
		}
	}
}

// binaryFill spreads a seed value over the randomness bytes. Only used
// when crypto/rand is unavailable.
func binaryFill(r *[10]byte, seed uint64) {
	for i := range r {
		r[i] = byte(seed >> (uint(i%8) * 8))
	}
}
