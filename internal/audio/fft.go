package audio

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Analyzer runs a windowed real FFT over successive VisChunk-sample
// mono windows and keeps the smoothed, normalized magnitude spectrum
// compute_led_colors reads from. Ported from perform_fft in
// tcp_audio_sync.py; gonum's fourier.FFT and window.Hann are the
// closest ecosystem equivalent to the original's numpy FFT + Hann
// window, and are already exercised by the retrieval pack's Ambilight
// controller for the same purpose.
type Analyzer struct {
	fft     *fourier.FFT
	prevMag []float64
	maxMag  float64
}

// NewAnalyzer constructs an Analyzer over windows of size n (VisChunk).
func NewAnalyzer(n int) *Analyzer {
	return &Analyzer{
		fft:     fourier.NewFFT(n),
		prevMag: make([]float64, n/2+1),
		maxMag:  1,
	}
}

// Reset clears the smoothed magnitude history and the running maximum,
// per spec.md §4.4's "on every IDLE<->CONNECTED transition ... prev_mags
// is cleared, max_mag is reset to a small epsilon."
func (a *Analyzer) Reset() {
	for i := range a.prevMag {
		a.prevMag[i] = 0
	}
	a.maxMag = 1e-9
}

// Analyze runs one FFT pass over samples (length must equal the
// Analyzer's window size) and returns the smoothed, normalized
// magnitude for each frequency bin in [0, 1].
func (a *Analyzer) Analyze(samples []float64) []float64 {
	windowed := make([]float64, len(samples))
	copy(windowed, samples)
	window.Hann(windowed)

	coeffs := a.fft.Coefficients(nil, windowed)

	silent := true
	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		m := abs(c)
		mags[i] = SmoothingAlpha*m + (1-SmoothingAlpha)*a.prevMag[i]
		if m > 1e-9 {
			silent = false
		}
	}
	copy(a.prevMag, mags)

	peak := 0.0
	for _, m := range mags {
		if m > peak {
			peak = m
		}
	}
	if silent {
		a.maxMag *= SilenceDecay
	} else {
		a.maxMag *= MaxMagDecay
	}
	if peak > a.maxMag {
		a.maxMag = peak
	}
	if a.maxMag < 1e-9 {
		a.maxMag = 1e-9
	}

	out := make([]float64, len(mags))
	for i, m := range mags {
		v := m / a.maxMag
		if v > 1 {
			v = 1
		}
		out[i] = v
	}
	return out
}

func abs(c complex128) float64 {
	re, im := real(c), imag(c)
	return math.Sqrt(re*re + im*im)
}
