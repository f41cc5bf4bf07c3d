package kernel

import (
	"math/rand"
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// TwinkleCycle layers Twinkle's per-pixel brightness phases on top of a
// per-pixel palette index that each pixel advances on its own every
// time its own brightness returns to zero, so the strip cycles through
// colors pixel by pixel rather than as a whole, adapted from the
// TwinkleCycle class in animation.py (color_indices/
// brightness_hit_zero).
type TwinkleCycle struct {
	base
	phase       int
	startPoints []int
	colorIndex  []int
	hitZero     []bool
}

func NewTwinkleCycle(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64, seed int64) (*TwinkleCycle, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	n := b.pixelCount()
	rng := rand.New(rand.NewSource(seed))
	k := &TwinkleCycle{base: b, startPoints: make([]int, n), colorIndex: make([]int, n), hitZero: make([]bool, n)}
	for i := 0; i < n; i++ {
		k.startPoints[i] = rng.Intn(256)
	}
	return k, nil
}

func (k *TwinkleCycle) Tick() {
	n := k.pixelCount()
	for i := 0; i < n; i++ {
		phase := (k.phase + k.startPoints[i]) & 0xFF
		brightness := Dim8Lin(Triwave8(phase))
		if brightness == 0 {
			if !k.hitZero[i] {
				k.colorIndex[i] = (k.colorIndex[i] + 1) % len(k.pal)
				k.hitZero[i] = true
			}
		} else {
			k.hitZero[i] = false
		}
		c := k.pal.At(k.colorIndex[i])
		_ = k.strip.Set(i, scaleColor(c, brightness))
	}
	k.phase = (k.phase + twinkleDelta) & 0xFF
}
