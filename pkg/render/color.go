// color.go — CSS-style color string parsing.
package render

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseColor converts a "#rrggbb" or "#rrggbbaa" string to color.NRGBA.
// Any parse error yields opaque black, the persistence layer's default
// text color.
func ParseColor(s string) color.NRGBA {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 6, 8:
	default:
		return color.NRGBA{A: 255}
	}

	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color.NRGBA{A: 255}
	}

	a := uint64(255)
	if len(hex) == 8 {
		v, err := strconv.ParseUint(hex[6:8], 16, 8)
		if err != nil {
			return color.NRGBA{A: 255}
		}
		a = v
	}

	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
}
