package font

import (
	"math"

	"github.com/rotisserie/eris"
)

// DefaultSize is the size used by presets that don't set one.
const DefaultSize float32 = 15

// Handle references a font asset, usually by its asset path. The plugin copies handles around but
// never loads them.
type Handle string

// Preset is a named bundle of font handles, size and colour.
type Preset struct {
	Key        string  `json:"key"`
	Regular    Handle  `json:"regular"`
	Italic     Handle  `json:"italic"`
	Bold       Handle  `json:"bold"`
	BoldItalic Handle  `json:"bold_italic"`
	Size       float32 `json:"size"`
	Color      Color   `json:"color"` // The zero Color means unset and becomes White
}

// normalize validates the preset and fills in the optional fields. Missing variants fall back to
// the regular handle, a zero size becomes DefaultSize and an unset colour becomes White.
func (p Preset) normalize() (Preset, error) {
	if p.Key == "" {
		return p, eris.Wrap(ErrInvalidPreset, "key cannot be empty")
	}
	if p.Regular == "" {
		return p, eris.Wrapf(ErrInvalidPreset, "preset %s has no regular font", p.Key)
	}
	if size := float64(p.Size); math.IsNaN(size) || math.IsInf(size, 0) {
		return p, eris.Wrapf(ErrInvalidPreset, "preset %s has non-finite size %v", p.Key, p.Size)
	}
	if p.Size < 0 {
		return p, eris.Wrapf(ErrInvalidPreset, "preset %s has negative size %v", p.Key, p.Size)
	}

	if p.Italic == "" {
		p.Italic = p.Regular
	}
	if p.Bold == "" {
		p.Bold = p.Regular
	}
	if p.BoldItalic == "" {
		p.BoldItalic = p.Regular
	}
	if p.Size == 0 {
		p.Size = DefaultSize
	}
	if p.Color == (Color{}) {
		p.Color = White
	}
	return p, nil
}

// Handle returns the handle for the given style.
func (p Preset) Handle(bold, italic bool) Handle {
	switch {
	case bold && italic:
		return p.BoldItalic
	case italic:
		return p.Italic
	case bold:
		return p.Bold
	default:
		return p.Regular
	}
}
