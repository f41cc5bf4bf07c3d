// Package kernel implements the animation kernel contract (spec.md
// §4.2): eleven procedural effect variants sharing one frame-update
// contract. Ported from the Animation subclasses in
// original_source/server/animation.py, restructured around an explicit
// Tick/EffectivePeriod interface instead of inheritance, per the
// teacher pack's convention of small structs implementing a shared
// interface (see patterns.Pattern in the teacher repo).
package kernel

import (
	"errors"
	"math"
	"time"

	"github.com/austinm34563/treelights-go/internal/color"
	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// ErrEmptyPalette is returned by every kernel constructor when handed a
// palette with no colors, per spec.md §4.2's boundary policy.
var ErrEmptyPalette = errors.New("kernel: palette must not be empty")

// ErrInvalidSpeed is returned when speed is not a positive real.
var ErrInvalidSpeed = errors.New("kernel: speed must be > 0")

// Kernel is the contract every animation effect satisfies: advance one
// frame of internal state (writing into the strip) and report the
// current effective frame period. Tick must be pure with respect to
// time — it never sleeps; the Animation Runtime owns all timing.
type Kernel interface {
	Tick()
	EffectivePeriod() time.Duration
}

// AnimationID enumerates the effect catalog, matching the numeric IDs
// of AnimationId in the original animation_constants.py so client
// wire compatibility (trigger_effect's animation_id param) is
// preserved.
type AnimationID uint8

const (
	IDCycleFade AnimationID = iota + 1
	IDFade
	IDBlink
	IDChase
	IDTwinkleStars
	IDCandleFlicker
	IDBouncing
	IDTwinkle
	IDTwinkleCycle
	IDCover
	IDCylon
)

// Descriptor is the enumerable catalog entry surfaced by get_effects.
type Descriptor struct {
	ID          uint8
	Name        string
	Description string
}

// Catalog is the static, read-only effect catalog. Names and
// descriptions are adapted from animation_constants.py's ANIMATIONS
// dict; only the kernels this package implements are listed (the
// original dict also names RainbowWave/SparkleGlitter/BurstingSparkle/
// Fireworks, none of which had a surviving implementation in the
// source — they are not part of the behavioral contract this system
// carries forward).
var Catalog = map[string]Descriptor{
	"Cycle Fade": {ID: uint8(IDCycleFade), Name: "Cycle Fade", Description: "Gradually fades through a cycle of colors in a smooth transition."},
	"Fade":       {ID: uint8(IDFade), Name: "Fade", Description: "Fades LEDs in and out through a specified set of colors."},
	"Blink":      {ID: uint8(IDBlink), Name: "Blink", Description: "Alternates LEDs between colors in the color palette in a blinking pattern."},
	"Chase":      {ID: uint8(IDChase), Name: "Chase", Description: "Creates a chasing light effect where a color moves across the LEDs."},
	"Twinkle Stars":  {ID: uint8(IDTwinkleStars), Name: "Twinkle Stars", Description: "Simulates a starry night with LEDs twinkling at random intervals."},
	"Candle Flicker": {ID: uint8(IDCandleFlicker), Name: "Candle Flicker", Description: "Mimics the natural flicker of a candle flame with subtle brightness variations."},
	"Bouncing":       {ID: uint8(IDBouncing), Name: "Bouncing", Description: "Creates a bouncing light effect as if a ball is moving across the LEDs."},
	"Twinkle":        {ID: uint8(IDTwinkle), Name: "Twinkle", Description: "Randomly twinkles individual LEDs with subtle fades on and off."},
	"Twinkle Cycle":  {ID: uint8(IDTwinkleCycle), Name: "Twinkle Cycle", Description: "Combines twinkling with a color cycling effect."},
	"Cover":          {ID: uint8(IDCover), Name: "Cover", Description: "Simulates a sweeping cover effect where LEDs turn on sequentially."},
	"Cylon":          {ID: uint8(IDCylon), Name: "Cylon", Description: "A single moving light that fades as it travels back and forth."},
}

// ByID indexes Catalog by numeric effect id; built once at init.
var ByID = func() map[uint8]Descriptor {
	m := make(map[uint8]Descriptor, len(Catalog))
	for _, d := range Catalog {
		m[d.ID] = d
	}
	return m
}()

// base holds the fields every kernel constructs from: the strip to
// write into, the active palette, and the speed-adjusted frame period.
// Embedding base (rather than an inheritance chain) is the "single
// trait-like capability" the design calls for.
type base struct {
	strip      hardware.Strip
	pal        palette.Palette
	basePeriod time.Duration
	speed      float64
}

func newBase(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64) (base, error) {
	if len(pal) == 0 {
		return base{}, ErrEmptyPalette
	}
	if speed <= 0 {
		return base{}, ErrInvalidSpeed
	}
	return base{strip: strip, pal: pal, basePeriod: basePeriod, speed: speed}, nil
}

// EffectivePeriod implements Kernel.EffectivePeriod = base_period / speed.
func (b base) EffectivePeriod() time.Duration {
	return time.Duration(float64(b.basePeriod) / b.speed)
}

func (b base) pixelCount() int { return b.strip.Len() }

// Triwave8 is the shared 8-bit triangular wave numeric used by Twinkle
// and TwinkleCycle, ported exactly from _triwave8 in animation.py:
// 127.5 * (1 + sin(x * 360/255 degrees)).
func Triwave8(x int) int {
	radians := float64(x) * 360.0 / 255.0 * math.Pi / 180.0
	return int(127.5 * (1 + math.Sin(radians)))
}

// Dim8Lin is the shared nonlinear darkening curve, ported exactly from
// _dim8_lin in animation.py: (x/255)^2.5 * 255.
func Dim8Lin(x int) int {
	return int(math.Pow(float64(x)/255.0, 2.5) * 255)
}

// scaleColor applies an 8-bit brightness value (0-255) to every
// channel of c, matching int(channel * brightness / 255) in the
// original's per-pixel scaling.
func scaleColor(c color.RGB, brightness int) color.RGB {
	return c.Scale(brightness, 255)
}

// clampIndex wraps i into [0, n) for n > 0.
func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}
