package font

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
	"golang.org/x/image/colornames"
)

// Color is an 8-bit sRGB colour with alpha. It encodes as a hex string.
type Color struct {
	R, G, B, A uint8
}

var (
	White = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Black = Color{A: 0xff}
)

// cssNames holds the CSS colour names missing from the SVG 1.1 table in colornames.
var cssNames = map[string]Color{
	"rebeccapurple": {R: 0x66, G: 0x33, B: 0x99, A: 0xff},
}

// ParseColor parses "#rgb", "#rrggbb" and "#rrggbbaa" hex strings as well as CSS colour names such
// as "mediumpurple" or "rebeccapurple".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, eris.New("color cannot be empty")
	}

	if !strings.HasPrefix(s, "#") {
		name := strings.ToLower(s)
		if c, ok := cssNames[name]; ok {
			return c, nil
		}
		named, ok := colornames.Map[name]
		if !ok {
			return Color{}, eris.Errorf("unknown color name %q", s)
		}
		return Color{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}

	switch len(s) {
	case len("#rgb"), len("#rrggbb"), len("#rrggbbaa"):
	default:
		return Color{}, eris.Errorf("invalid hex color %q", s)
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return Color{}, eris.Errorf("invalid hex color %q", s)
	}

	alpha := uint8(0xff)
	if len(s) == len("#rrggbbaa") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, eris.Wrapf(err, "invalid alpha in color %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, eris.Wrapf(err, "invalid hex color %q", s)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// MustParseColor is like ParseColor but panics on error. Use it for constants.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the colour as "#rrggbb", or "#rrggbbaa" when it isn't opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) String() string {
	return c.Hex()
}

// MarshalText encodes the colour as a hex string in snapshots and preset files.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText parses any form accepted by ParseColor.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
