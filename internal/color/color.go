// Package color implements the 8-bit RGB triple used throughout the
// render engine, along with the hex/tuple wire encodings the original
// Christmas-Tree-Lights protocol accepts.
package color

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RGB is a triple of 8-bit channels, linear (no gamma correction).
type RGB struct {
	R, G, B uint8
}

// Black is the zero value of RGB; kept named for readability at call sites.
var Black = RGB{}

// FromHex decodes a 24-bit 0xRRGGBB integer into an RGB triple.
func FromHex(hex int64) RGB {
	return RGB{
		R: uint8((hex >> 16) & 0xFF),
		G: uint8((hex >> 8) & 0xFF),
		B: uint8(hex & 0xFF),
	}
}

// ToHex encodes an RGB triple back into a 24-bit 0xRRGGBB integer. It is
// the left inverse of FromHex: ToHex(FromHex(h)) == h for any h in
// [0, 0xFFFFFF].
func (c RGB) ToHex() int64 {
	return int64(c.R)<<16 | int64(c.G)<<8 | int64(c.B)
}

// String renders the color as "#RRGGBB".
func (c RGB) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// FromHexString parses either a "0xRRGGBB" or "#RRGGBB" hex string into
// an RGB triple, matching the two string forms the original protocol's
// set_light/palette params accept on the wire (spec.md §3).
func FromHexString(s string) (RGB, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	trimmed = strings.TrimPrefix(trimmed, "#")
	v, err := strconv.ParseInt(trimmed, 16, 64)
	if err != nil {
		return RGB{}, fmt.Errorf("color: invalid hex color %q: %w", s, err)
	}
	return FromHex(v), nil
}

// UnmarshalJSON accepts any of the three wire forms spec.md §3
// describes: a "0xRRGGBB"/"#RRGGBB" string, a 24-bit integer, or a
// [r,g,b] tuple — normalizing all of them to the RGB triple.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		decoded, err := FromHexString(s)
		if err != nil {
			return err
		}
		*c = decoded
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = FromHex(n)
		return nil
	}

	var tuple [3]uint8
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("color: cannot decode %s as hex string, integer, or [r,g,b] tuple", data)
	}
	*c = RGB{R: tuple[0], G: tuple[1], B: tuple[2]}
	return nil
}

// MarshalJSON renders the color as a [r,g,b] tuple, the canonical form
// decode(encode(c)) round-trips through.
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

// Scale multiplies every channel by brightness/max with integer
// truncation (matches the original's int(channel * b / max)), clamping
// each result to [0,255]; a non-positive max yields Black.
func (c RGB) Scale(brightness, max int) RGB {
	if max <= 0 {
		return Black
	}
	return RGB{
		R: scaleChannel(c.R, brightness, max),
		G: scaleChannel(c.G, brightness, max),
		B: scaleChannel(c.B, brightness, max),
	}
}

func scaleChannel(v uint8, brightness, max int) uint8 {
	scaled := int(v) * brightness / max
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

// Lerp interpolates linearly from c to other by t in [0,1].
func (c RGB) Lerp(other RGB, t float64) RGB {
	return RGB{
		R: lerpChannel(c.R, other.R, t),
		G: lerpChannel(c.G, other.G, t),
		B: lerpChannel(c.B, other.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
