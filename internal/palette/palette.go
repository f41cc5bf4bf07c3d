// Package palette holds the Palette type and the read-only named
// catalog surfaced by the get_palettes command, adapted from
// server/color_palettes.py in the original source.
package palette

import (
	"fmt"

	"github.com/austinm34563/treelights-go/internal/color"
)

// Palette is a non-empty ordered sequence of colors, indexed modulo its
// own length.
type Palette []color.RGB

// ErrEmpty is returned by New when constructing a zero-length palette,
// which every kernel must reject per the construction boundary policy.
var ErrEmpty = fmt.Errorf("palette: must contain at least one color")

// New validates and returns p as a Palette, or ErrEmpty if p has no
// colors.
func New(colors []color.RGB) (Palette, error) {
	if len(colors) == 0 {
		return nil, ErrEmpty
	}
	out := make(Palette, len(colors))
	copy(out, colors)
	return out, nil
}

// At indexes the palette modulo its length. Callers must not call At on
// an empty palette; New guarantees non-empty construction.
func (p Palette) At(i int) color.RGB {
	n := len(p)
	idx := i % n
	if idx < 0 {
		idx += n
	}
	return p[idx]
}

// RotateLeft returns a new palette with every color shifted one
// position to the left (index 0 becomes the old index 1, ..., the old
// index 0 moves to the end). Used by the Fade kernel.
func (p Palette) RotateLeft() Palette {
	if len(p) <= 1 {
		out := make(Palette, len(p))
		copy(out, p)
		return out
	}
	out := make(Palette, len(p))
	copy(out, p[1:])
	out[len(out)-1] = p[0]
	return out
}

// Default is the palette the original protocol falls back to when a
// request omits one, ported from json_rpc.py's DEFAULT_COLOR_PALLETE.
var Default = Palette{
	color.FromHex(0x1E7C20),
	color.FromHex(0xB60000),
	color.FromHex(0x0037FB),
	color.FromHex(0xDF6500),
	color.FromHex(0x8100DB),
}

// DefaultColorScheme is the two-color scheme ported from json_rpc.py's
// DEFAULT_COLOR_SCHEME. trigger_effect does not fall back to it: a
// request that omits color_scheme runs on the dispatcher's current
// default palette (Default, or the last set_pallete palette).
var DefaultColorScheme = Palette{
	color.FromHex(0xFF0000),
	color.FromHex(0x00FF00),
}

// CandleColors is the default warm-flame palette CandleFlicker falls
// back to, ported from animation_constants.py's CANDLE_COLORS.
var CandleColors = Palette{
	color.FromHex(0xFF6414),
	color.FromHex(0xFF5000),
	color.FromHex(0xC85000),
	color.FromHex(0xC81E00),
	color.FromHex(0xFF0A00),
}

// Store is the static, read-only named palette catalog returned by
// get_palettes. Names are occasion-neutral renderings of the palettes
// in color_palettes.py; the RGB values and counts are unchanged.
var Store = map[string]Palette{
	"American":              {color.FromHex(0xFF0000), color.FromHex(0xFFFFFF), color.FromHex(0x0000FF)},
	"Classic Fireworks":     {color.FromHex(0xFFAA00), color.FromHex(0xFFFF66), color.FromHex(0xFF0000), color.FromHex(0xFFFFFF), color.FromHex(0xAAAAAA)},
	"Festival Multicolor":   {color.FromHex(0xFF0000), color.FromHex(0xFF7F00), color.FromHex(0xFFFF00), color.FromHex(0x00FF00), color.FromHex(0x0000FF), color.FromHex(0x4B0082), color.FromHex(0x8B00FF)},
	"Wicked":                {color.FromHex(0x39FF14), color.FromHex(0x8B00FF), color.FromHex(0x39FF14), color.FromHex(0xFF0080)},
	"Evergreen":             {color.FromHex(0x1E7C20), color.FromHex(0xB60000), color.FromHex(0x0037FB), color.FromHex(0xDF6500), color.FromHex(0x8100DB)},
	"Frost":                 {color.FromHex(0xDB0404), color.FromHex(0x169F48), color.FromHex(0x8CD4FF), color.FromHex(0xC6EFFF), color.FromHex(0xFFFFFF)},
	"Generic Holiday":       {color.FromHex(0xFF0000), color.FromHex(0xFF7878), color.FromHex(0xFFFFFF), color.FromHex(0x74D680), color.FromHex(0x378B29)},
	"Traditional":           {color.FromHex(0x1E7C20), color.FromHex(0xB60000), color.FromHex(0xFFFFFF), color.FromHex(0xDF6500), color.FromHex(0x00FF00)},
	"Winter Wonderland":     {color.FromHex(0xA7C7E7), color.FromHex(0xFFFFFF), color.FromHex(0xA9A9A9), color.FromHex(0x3E9E9D), color.FromHex(0xFF0000)},
	"Cozy":                  {color.FromHex(0x8B4513), color.FromHex(0xFFD700), color.FromHex(0xA52A2A), color.FromHex(0x006400), color.FromHex(0xFFFFFF)},
	"Classic":               {color.FromHex(0x006400), color.FromHex(0xB60000), color.FromHex(0xFFD700), color.FromHex(0xFFFFFF), color.FromHex(0x0044FF)},
	"Elegant":               {color.FromHex(0x6A5ACD), color.FromHex(0xFFFFFF), color.FromHex(0xFFD700), color.FromHex(0xFF00FF), color.FromHex(0xB22222), color.FromHex(0x228B22)},
	"Elegant II":            {color.FromHex(0x6A5ACD), color.FromHex(0xFFFFFF), color.FromHex(0xFF00FF), color.FromHex(0xB22222), color.FromHex(0x228B22)},
	"Hawaiian":              {color.FromHex(0x007D04), color.FromHex(0xB60000), color.FromHex(0x00A6FB), color.FromHex(0xFFD700), color.FromHex(0xFF007F), color.FromHex(0xFF6000)},
	"Brat":                  {color.FromHex(0x22FF00), color.FromHex(0xFFFFFF), color.FromHex(0xFF10F0)},
	"Spiderman":             {color.FromHex(0xDF0002), color.FromHex(0x0053C0), color.FromHex(0xFFFFFF), color.FromHex(0xB10000), color.FromHex(0x0000B1), color.FromHex(0xFFFFFF)},
	"Candle":                CandleColors,
	"Red Green White":       {color.FromHex(0x006400), color.FromHex(0xB60000), color.FromHex(0xFFFFFF)},
	"Blue and White":        {color.FromHex(0x0000FF), color.FromHex(0xFFFFFF)},
	"Blue":                  {color.FromHex(0x0000FF)},
}
