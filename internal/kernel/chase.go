package kernel

import (
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// Chase paints the whole strip palette[1] as background, then moves a
// fixed-width lit segment across it one pixel per tick by erasing the
// trailing pixel back to background and painting the new leading
// pixel, wrapping at the ends, and advances to the next palette color
// each time the segment completes a full lap. Adapted from the Chase
// class in animation.py. The update is incremental (erase the trailing
// pixel, paint the new head) rather than a per-tick full redraw; only
// the head index is stored, and the trailing pixel is derived from it
// as head-width+1, wrapped into the strip.
type Chase struct {
	base
	width       int
	head        int
	colorIndex  int
	ticks       int
	lapsTravled int
}

// NewChase constructs a Chase kernel with a lit segment of the given
// width (clamped to [1, N]), pre-seeding the background and the
// initial segment per spec.md §4.2's "construction may pre-seed the
// buffer" note.
func NewChase(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64, width int) (*Chase, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	n := b.pixelCount()
	if width < 1 {
		width = 1
	}
	if width > n {
		width = n
	}

	strip.Fill(pal.At(1 % len(pal)))
	c := pal.At(0)
	for i := 0; i < width; i++ {
		_ = strip.Set(i, c)
	}

	return &Chase{base: b, width: width, head: width - 1}, nil
}

func (k *Chase) Tick() {
	n := k.pixelCount()
	bg := k.pal.At(1 % len(k.pal))
	c := k.pal.At(k.colorIndex)

	tail := clampIndex(k.head-k.width+1, n)
	_ = k.strip.Set(tail, bg)

	k.head = clampIndex(k.head+1, n)
	_ = k.strip.Set(k.head, c)

	k.ticks++
	if k.ticks >= n {
		k.ticks = 0
		k.lapsTravled++
		k.colorIndex = (k.colorIndex + 1) % len(k.pal)
	}
}
