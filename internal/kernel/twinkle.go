package kernel

import (
	"math/rand"
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// twinkleDelta is the per-tick phase advance shared by Twinkle and
// TwinkleCycle, ported from mDelta in animation.py.
const twinkleDelta = 8

// Twinkle gives every pixel an independent, randomly offset phase into
// the shared Triwave8/Dim8Lin brightness curve, so pixels rise and
// fall out of sync with each other, while each pixel's color is fixed
// to palette[i mod |P|], adapted from the Twinkle class in
// animation.py.
type Twinkle struct {
	base
	phase       int
	startPoints []int
}

func NewTwinkle(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64, seed int64) (*Twinkle, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	n := b.pixelCount()
	rng := rand.New(rand.NewSource(seed))
	k := &Twinkle{base: b, startPoints: make([]int, n)}
	for i := 0; i < n; i++ {
		k.startPoints[i] = rng.Intn(256)
	}
	return k, nil
}

func (k *Twinkle) Tick() {
	n := k.pixelCount()
	for i := 0; i < n; i++ {
		phase := (k.phase + k.startPoints[i]) & 0xFF
		brightness := Dim8Lin(Triwave8(phase))
		c := k.pal.At(i)
		_ = k.strip.Set(i, scaleColor(c, brightness))
	}
	k.phase = (k.phase + twinkleDelta) & 0xFF
}
