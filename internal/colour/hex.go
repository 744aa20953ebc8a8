package colour

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseHex parses "#rrggbb" or "#rgb", with or without the leading '#'.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// NormaliseHex returns s as lowercase "#rrggbb", or fallback if s does not
// parse.
func NormaliseHex(s, fallback string) string {
	rgb, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return rgb.Hex()
}
