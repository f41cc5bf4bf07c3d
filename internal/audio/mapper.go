package audio

import (
	"math"

	"github.com/austinm34563/treelights-go/internal/color"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// minFreqHz is the low edge of the logarithmic band spacing spec.md
// §4.4 specifies ("spaced logarithmically from 30 Hz to Nyquist"). The
// high edge is sampleHz/2 (Nyquist), computed per mapper instance
// rather than hardcoded since it depends on the configured sample rate.
const minFreqHz = 30.0

// BandMapper folds a magnitude spectrum down onto a fixed LED count
// using logarithmically spaced frequency bands, so low frequencies
// (which carry most musical energy) get proportionally more LEDs than
// high ones. Ported from compute_led_colors's np.logspace band edges
// in tcp_audio_sync.py.
type BandMapper struct {
	ledCount  int
	sampleHz  float64
	fftBins   int
	bandEdges []float64
	pal       palette.Palette
}

// NewBandMapper builds a mapper for ledCount LEDs over an FFT with
// fftBins real coefficients computed from a window sampled at sampleHz.
func NewBandMapper(ledCount, fftBins int, sampleHz float64, pal palette.Palette) *BandMapper {
	m := &BandMapper{ledCount: ledCount, sampleHz: sampleHz, fftBins: fftBins, pal: pal}
	m.bandEdges = logspace(minFreqHz, sampleHz/2, ledCount+1)
	return m
}

// SetPalette swaps the palette used to color active bands.
func (m *BandMapper) SetPalette(pal palette.Palette) { m.pal = pal }

// logspace returns n points spaced evenly in log10 between lo and hi
// inclusive, matching numpy.logspace(log10(lo), log10(hi), n).
func logspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	logLo, logHi := math.Log10(lo), math.Log10(hi)
	step := (logHi - logLo) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = math.Pow(10, logLo+step*float64(i))
	}
	return out
}

func (m *BandMapper) binForFreq(freq float64) int {
	nyquist := m.sampleHz / 2
	if freq >= nyquist {
		return m.fftBins - 1
	}
	bin := int(freq / nyquist * float64(m.fftBins-1))
	if bin < 0 {
		bin = 0
	}
	if bin >= m.fftBins {
		bin = m.fftBins - 1
	}
	return bin
}

// Map converts a normalized magnitude spectrum (length fftBins) into
// one color per LED: the band's mean magnitude in [0,1] scales the
// brightness of the palette color assigned to that LED index.
func (m *BandMapper) Map(mags []float64) []color.RGB {
	out := make([]color.RGB, m.ledCount)
	if len(m.pal) == 0 {
		return out
	}
	for led := 0; led < m.ledCount; led++ {
		lo := m.binForFreq(m.bandEdges[led])
		hi := m.binForFreq(m.bandEdges[led+1])
		if hi < lo {
			hi = lo
		}
		sum := 0.0
		count := 0
		for b := lo; b <= hi && b < len(mags); b++ {
			sum += mags[b]
			count++
		}
		mean := 0.0
		if count > 0 {
			mean = sum / float64(count)
		}
		c := m.pal.At(led)
		brightness := int(mean * 255)
		out[led] = c.Scale(brightness, 255)
	}
	return out
}
