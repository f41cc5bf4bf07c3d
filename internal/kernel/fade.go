package kernel

import (
	"time"

	"github.com/austinm34563/treelights-go/internal/color"
	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// Fade paints every pixel its own palette color (palette[i mod |P|])
// and breathes the whole strip's brightness from 0 to 255 and back to
// 0, rotating the palette one position left each time brightness
// bottoms out, adapted from the Fade class in animation.py.
type Fade struct {
	base
	brightness int
	rising     bool
}

func NewFade(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64) (*Fade, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	return &Fade{base: b, rising: true}, nil
}

func (k *Fade) Tick() {
	n := k.pixelCount()
	colors := make([]color.RGB, n)
	for i := 0; i < n; i++ {
		colors[i] = scaleColor(k.pal.At(i), k.brightness)
	}
	_ = k.strip.SliceAssign(0, colors)

	const step = 8
	if k.rising {
		k.brightness += step
		if k.brightness >= 255 {
			k.brightness = 255
			k.rising = false
		}
		return
	}
	k.brightness -= step
	if k.brightness <= 0 {
		k.brightness = 0
		k.rising = true
		k.pal = k.pal.RotateLeft()
	}
}
