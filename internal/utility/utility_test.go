package utility

import (
	"regexp"
	"strconv"
	"testing"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestRandomColorHex(t *testing.T) {
	for range 200 {
		color := RandomColorHex()
		if !hexPattern.MatchString(color) {
			t.Fatalf("RandomColorHex() = %q, want #rrggbb", color)
		}

		for i := 1; i < 7; i += 2 {
			v, err := strconv.ParseUint(color[i:i+2], 16, 8)
			if err != nil {
				t.Fatalf("parse %q: %v", color, err)
			}
			if v < 4 || v > 251 {
				t.Errorf("channel %d of %q = %d, want 4..251", i/2, color, v)
			}
		}
	}
}

func TestRandomColorHex_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		seen[RandomColorHex()] = struct{}{}
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct colours in 50 draws", len(seen))
	}
}
