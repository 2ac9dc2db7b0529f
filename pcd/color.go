package pcd

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// PackRGB packs 8 bit color channels as 0x00RRGGBB, the layout of the PCD rgb field.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// UnpackRGB splits a color packed by PackRGB.
func UnpackRGB(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// ParseColor parses a hex color like "#00ff00" into packed RGB.
func ParseColor(s string) (uint32, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid color %q", s)
	}
	return PackRGB(c.RGB255()), nil
}
