package audio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/austinm34563/treelights-go/internal/color"
	"github.com/austinm34563/treelights-go/internal/palette"
)

func TestLogspaceIsMonotonicAndSpansRange(t *testing.T) {
	nyquist := SampleRate / 2.0
	edges := logspace(minFreqHz, nyquist, 51)
	require.Len(t, edges, 51)
	require.InDelta(t, minFreqHz, edges[0], 1e-6)
	require.InDelta(t, nyquist, edges[50], 1e-6)
	for i := 1; i < len(edges); i++ {
		require.Greater(t, edges[i], edges[i-1])
	}
}

func TestMapProducesOneColorPerLED(t *testing.T) {
	pal, err := palette.New([]color.RGB{{R: 255}, {G: 255}})
	require.NoError(t, err)
	m := NewBandMapper(50, VisChunk/2+1, SampleRate, pal)

	mags := make([]float64, VisChunk/2+1)
	for i := range mags {
		mags[i] = 0.5
	}
	colors := m.Map(mags)
	require.Len(t, colors, 50)
}

func TestMapWithEmptyPaletteReturnsBlack(t *testing.T) {
	m := NewBandMapper(10, VisChunk/2+1, SampleRate, nil)
	colors := m.Map(make([]float64, VisChunk/2+1))
	require.Len(t, colors, 10)
	for _, c := range colors {
		require.Equal(t, color.Black, c)
	}
}
