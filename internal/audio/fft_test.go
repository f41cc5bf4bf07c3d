package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sineWave(n int, freqHz, sampleHz float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freqHz * float64(i) / sampleHz)
	}
	return out
}

func TestAnalyzeOutputsWithinUnitRange(t *testing.T) {
	a := NewAnalyzer(VisChunk)
	samples := sineWave(VisChunk, 440, SampleRate)
	for i := 0; i < 5; i++ {
		mags := a.Analyze(samples)
		for _, m := range mags {
			require.GreaterOrEqual(t, m, 0.0)
			require.LessOrEqual(t, m, 1.0)
		}
	}
}

func TestAnalyzeSilenceDecaysMaxMag(t *testing.T) {
	a := NewAnalyzer(VisChunk)
	// Prime with a loud tone so maxMag grows off its floor.
	loud := sineWave(VisChunk, 1000, SampleRate)
	for i := 0; i < 3; i++ {
		a.Analyze(loud)
	}
	primed := a.maxMag

	silence := make([]float64, VisChunk)
	for i := 0; i < 10; i++ {
		a.Analyze(silence)
	}
	require.Less(t, a.maxMag, primed)
}

func TestAnalyzeRejectsNothingButHandlesZeroAmplitude(t *testing.T) {
	a := NewAnalyzer(VisChunk)
	require.NotPanics(t, func() {
		a.Analyze(make([]float64, VisChunk))
	})
}
