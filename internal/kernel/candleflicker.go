package kernel

import (
	"math/rand"
	"time"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// smoothFlicker is the exponential interpolation factor the original
// CandleFlicker class uses to ease brightness toward a newly chosen
// target instead of jumping to it, avoiding a strobing appearance.
const smoothFlicker = 0.3

const (
	defaultFlickerMin = 120
	defaultFlickerMax = 255
)

// CandleFlicker mimics a candle flame: every pixel has an independent
// target brightness re-rolled uniformly at random in [min, max] every
// tick, and the displayed brightness eases toward that target by
// smoothFlicker each tick. Adapted from the CandleFlicker class in
// animation.py's smooth_flicker.
type CandleFlicker struct {
	base
	rng        *rand.Rand
	brightness []float64
	colorIndex []int
	min, max   float64
}

func NewCandleFlicker(strip hardware.Strip, pal palette.Palette, basePeriod time.Duration, speed float64, seed int64, min, max int) (*CandleFlicker, error) {
	b, err := newBase(strip, pal, basePeriod, speed)
	if err != nil {
		return nil, err
	}
	if min <= 0 {
		min = defaultFlickerMin
	}
	if max <= 0 {
		max = defaultFlickerMax
	}
	if max < min {
		min, max = max, min
	}
	n := b.pixelCount()
	k := &CandleFlicker{
		base:       b,
		rng:        rand.New(rand.NewSource(seed)),
		brightness: make([]float64, n),
		colorIndex: make([]int, n),
		min:        float64(min),
		max:        float64(max),
	}
	for i := 0; i < n; i++ {
		k.colorIndex[i] = k.rng.Intn(len(pal))
		k.brightness[i] = k.min
	}
	return k, nil
}

func (k *CandleFlicker) Tick() {
	n := k.pixelCount()
	for i := 0; i < n; i++ {
		target := k.min + k.rng.Float64()*(k.max-k.min)
		k.brightness[i] += (target - k.brightness[i]) * smoothFlicker

		c := k.pal.At(k.colorIndex[i])
		_ = k.strip.Set(i, scaleColor(c, int(k.brightness[i])))
	}
}
