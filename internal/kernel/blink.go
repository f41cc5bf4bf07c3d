package kernel

import (
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// Blink sets the whole strip to the current palette color and advances
// to the next palette color every tick, adapted from the Blink class
// in animation.py.
type Blink struct {
	base
	index int
}

func NewBlink(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64) (*Blink, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	return &Blink{base: b}, nil
}

func (k *Blink) Tick() {
	k.strip.Fill(k.pal.At(k.index))
	k.index = (k.index + 1) % len(k.pal)
}
