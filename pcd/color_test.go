package pcd

import (
	"testing"
)

func TestParseColor(t *testing.T) {
	testCases := map[string]struct {
		in       string
		expected uint32
		err      bool
	}{
		"Green":   {in: "#00ff00", expected: 0x00FF00},
		"Mixed":   {in: "#123456", expected: 0x123456},
		"Short":   {in: "#f00", expected: 0xFF0000},
		"Invalid": {in: "green", err: true},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.err {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c != tt.expected {
				t.Errorf("Expected %06x, got %06x", tt.expected, c)
			}
			r, g, b := UnpackRGB(c)
			if PackRGB(r, g, b) != c {
				t.Errorf("Pack/unpack mismatch for %06x", c)
			}
		})
	}
}
