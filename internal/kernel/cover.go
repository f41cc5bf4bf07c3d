package kernel

import (
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// Cover sequentially writes palette[k] into positions 0..N-1, one
// pixel per tick, without clearing in between — each sweep's color
// progressively overwrites whatever the previous sweep left behind.
// On wrap, k advances to the next palette color. Adapted from the
// Cover class in animation.py.
type Cover struct {
	base
	lit        int
	colorIndex int
}

func NewCover(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64) (*Cover, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	return &Cover{base: b}, nil
}

func (k *Cover) Tick() {
	n := k.pixelCount()
	c := k.pal.At(k.colorIndex)
	_ = k.strip.Set(k.lit, c)

	k.lit++
	if k.lit >= n {
		k.lit = 0
		k.colorIndex = (k.colorIndex + 1) % len(k.pal)
	}
}
