package kernel

import (
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// CycleFade ramps the whole strip's brightness from 0 up to S and back
// down to 0 on a single palette color, advancing to the next palette
// color each time the ramp bottoms out, adapted from the CycleFade
// class in animation.py.
type CycleFade struct {
	base
	index      int
	brightness int
	rising     bool
	steps      int
}

// NewCycleFade constructs a CycleFade kernel. steps is S, the number of
// brightness levels the ramp climbs through; it defaults to 255 when
// non-positive.
func NewCycleFade(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64, steps int) (*CycleFade, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	if steps <= 0 {
		steps = 255
	}
	return &CycleFade{base: b, rising: true, steps: steps}, nil
}

func (k *CycleFade) Tick() {
	c := k.pal.At(k.index)
	k.strip.Fill(scaleColor(c, k.brightness*255/k.steps))

	if k.rising {
		k.brightness++
		if k.brightness >= k.steps {
			k.brightness = k.steps
			k.rising = false
		}
		return
	}
	k.brightness--
	if k.brightness <= 0 {
		k.brightness = 0
		k.rising = true
		k.index = (k.index + 1) % len(k.pal)
	}
}
