package invite

import (
	"strings"
	"testing"
)

func TestNewCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode failed: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("expected code of length %d, got %q", CodeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(alphabet, c) {
				t.Fatalf("code %q contains character outside alphabet", code)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 36^6 space colliding down to a handful would mean
	// the generator is broken.
	if len(seen) < 90 {
		t.Errorf("expected mostly distinct codes, got %d unique out of 100", len(seen))
	}
}

func TestNewCodePair(t *testing.T) {
	for i := 0; i < 50; i++ {
		member, guest, err := NewCodePair()
		if err != nil {
			t.Fatalf("NewCodePair failed: %v", err)
		}
		if member == guest {
			t.Fatalf("member and guest codes must differ, both were %q", member)
		}
	}
}
