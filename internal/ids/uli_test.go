package ids

import (
	"strings"
	"testing"
	"time"
)

func TestNewULIFormat(t *testing.T) {
	u := NewULI()
	if len(u) != uliLen {
		t.Fatalf("length = %d, want %d", len(u), uliLen)
	}
	if !ValidateULI(u) {
		t.Fatalf("NewULI() = %q does not validate", u)
	}
	for _, c := range u {
		if !strings.ContainsRune(crockford, c) {
			t.Errorf("character %q outside alphabet", c)
		}
	}
}

func TestNewULIMonotonic(t *testing.T) {
	prev := NewULI()
	for i := 0; i < 1000; i++ {
		next := NewULI()
		if next <= prev {
			t.Fatalf("generation %d not monotonic: %q then %q", i, prev, next)
		}
		prev = next
	}
}

func TestULIFromTimeRoundTrip(t *testing.T) {
	ref := time.Date(2026, 3, 15, 12, 30, 45, 0, time.UTC)
	u := ULIFromTime(ref)
	ms, err := ULITimestamp(u)
	if err != nil {
		t.Fatal(err)
	}
	if ms != ref.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", ms, ref.UnixMilli())
	}
	got, err := ULITime(u)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(ref) {
		t.Errorf("ULITime = %v, want %v", got, ref)
	}
}

func TestULITimestampOrdering(t *testing.T) {
	early := ULIFromTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	late := ULIFromTime(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	// Lexicographic order must match chronological order.
	if early >= late {
		t.Errorf("ordering broken: %q >= %q", early, late)
	}
	older, err := OlderThan(early, late)
	if err != nil {
		t.Fatal(err)
	}
	if !older {
		t.Errorf("OlderThan(%q, %q) = false", early, late)
	}
}

func TestValidateULI(t *testing.T) {
	tests := []struct {
		name string
		uli  string
		want bool
	}{
		{"valid", NewULI(), true},
		{"too short", "01ARZ3NDEK", false},
		{"too long", NewULI() + "0", false},
		{"excluded letter I", strings.Repeat("I", 26), false},
		{"excluded letter L", strings.Repeat("L", 26), false},
		{"lowercase", strings.ToLower(NewULI()), false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateULI(tt.uli); got != tt.want {
				t.Errorf("ValidateULI(%q) = %v, want %v", tt.uli, got, tt.want)
			}
		})
	}
}

func TestIncrementRand(t *testing.T) {
	var r [10]byte
	r[9] = 0xFF
	incrementRand(&r)
	if r[9] != 0x00 || r[8] != 0x01 {
		t.Errorf("carry failed: % x", r)
	}
	for i := range r {
		r[i] = 0xFF
	}
	incrementRand(&r)
	for i, b := range r {
		if b != 0 {
			t.Errorf("full wrap: byte %d = %#x", i, b)
		}
	}
}
