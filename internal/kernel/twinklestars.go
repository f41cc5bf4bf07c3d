package kernel

import (
	"math/rand"
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// defaultTwinkleRate is the fallback twinkle probability p used when a
// caller doesn't supply one.
const defaultTwinkleRate = 0.05

// TwinkleStars simulates a starry sky: every tick, each pixel
// independently rolls against rate p and switches to palette[1] on a
// hit, palette[0] (pre-dimmed to 50%) otherwise, adapted from the
// TwinkleStars class in animation.py.
type TwinkleStars struct {
	base
	rng  *rand.Rand
	rate float64
}

func NewTwinkleStars(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64, seed int64, rate float64) (*TwinkleStars, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	if rate <= 0 {
		rate = defaultTwinkleRate
	}
	return &TwinkleStars{base: b, rng: rand.New(rand.NewSource(seed)), rate: rate}, nil
}

func (k *TwinkleStars) Tick() {
	n := k.pixelCount()
	on := k.pal.At(1 % len(k.pal))
	off := scaleColor(k.pal.At(0), 128)
	for i := 0; i < n; i++ {
		if k.rng.Float64() < k.rate {
			_ = k.strip.Set(i, on)
		} else {
			_ = k.strip.Set(i, off)
		}
	}
}
