package kernel

import (
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// Cylon walks a single head LED back and forth across the strip. Every
// tick, the whole buffer is multiplicatively faded toward black before
// the new head position is drawn, which leaves a decaying trail behind
// it, and the head's color advances through the palette on every
// tick. animation.py's effect_classes table names this kernel but its
// class body did not survive in the retrieved source, so this follows
// the behavioral description of spec.md's kernel table directly.
type Cylon struct {
	base
	head       int
	dir        int
	colorIndex int
	fadeAmount int
}

// NewCylon constructs a Cylon kernel. fadeAmount is the per-tick
// multiplicative fade applied to every pixel, in [0,255]; values above
// 255 are clamped to 255 and non-positive values default to 40.
func NewCylon(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64, fadeAmount int) (*Cylon, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	if fadeAmount <= 0 {
		fadeAmount = 40
	}
	if fadeAmount > 255 {
		fadeAmount = 255
	}
	return &Cylon{base: b, dir: 1, fadeAmount: fadeAmount}, nil
}

func (k *Cylon) Tick() {
	n := k.pixelCount()
	snapshot := k.strip.Snapshot()
	for i, c := range snapshot {
		_ = k.strip.Set(i, scaleColor(c, 255-k.fadeAmount))
	}

	_ = k.strip.Set(k.head, k.pal.At(k.colorIndex))
	k.colorIndex = (k.colorIndex + 1) % len(k.pal)

	k.head += k.dir
	if k.head >= n-1 {
		k.head = n - 1
		k.dir = -1
	} else if k.head <= 0 {
		k.head = 0
		k.dir = 1
	}
}
