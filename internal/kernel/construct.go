package kernel

import (
	"fmt"
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// DefaultBasePeriod is the un-sped-up tick period every kernel uses
// unless a caller overrides it, chosen to match the ~30ms cadence the
// original animation loop ran its default effects at.
const DefaultBasePeriod = 30 * time.Millisecond

// Options carries the effect-specific construction parameters a
// trigger_effect request may supply. Zero values fall back to each
// kernel's own default.
type Options struct {
	Width      int
	Steps      int
	FadeAmount int
	Seed       int64
	Rate       float64
	Min        int
	Max        int
}

// ErrUnknownEffect is returned by Construct when given an animation id
// outside the catalog.
var ErrUnknownEffect = fmt.Errorf("kernel: unknown effect id")

// Construct builds the kernel named by id against strip and pal,
// running at speed against DefaultBasePeriod. It is the single
// dispatch point trigger_effect uses so the command layer never
// switches on concrete kernel types.
func Construct(id AnimationID, strip hardware.Strip, pal palette.Palette, speed float64, opts Options) (Kernel, error) {
	switch id {
	case IDCycleFade:
		return NewCycleFade(strip, pal, DefaultBasePeriod, speed, opts.Steps)
	case IDFade:
		return NewFade(strip, pal, DefaultBasePeriod, speed)
	case IDBlink:
		return NewBlink(strip, pal, DefaultBasePeriod, speed)
	case IDChase:
		return NewChase(strip, pal, DefaultBasePeriod, speed, opts.Width)
	case IDTwinkleStars:
		return NewTwinkleStars(strip, pal, DefaultBasePeriod, speed, opts.Seed, opts.Rate)
	case IDCandleFlicker:
		return NewCandleFlicker(strip, pal, DefaultBasePeriod, speed, opts.Seed, opts.Min, opts.Max)
	case IDBouncing:
		return NewBouncing(strip, pal, DefaultBasePeriod, speed, opts.Width)
	case IDTwinkle:
		return NewTwinkle(strip, pal, DefaultBasePeriod, speed, opts.Seed)
	case IDTwinkleCycle:
		return NewTwinkleCycle(strip, pal, DefaultBasePeriod, speed, opts.Seed)
	case IDCover:
		return NewCover(strip, pal, DefaultBasePeriod, speed)
	case IDCylon:
		return NewCylon(strip, pal, DefaultBasePeriod, speed, opts.FadeAmount)
	default:
		return nil, ErrUnknownEffect
	}
}
