package playlist

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/austinm34563/treelights-go/internal/color"
	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/kernel"
	"github.com/austinm34563/treelights-go/internal/palette"
	"github.com/austinm34563/treelights-go/internal/runtime"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func twoPalettes(t *testing.T) []palette.Palette {
	t.Helper()
	a, err := palette.New([]color.RGB{{R: 1}})
	require.NoError(t, err)
	b, err := palette.New([]color.RGB{{G: 1}})
	require.NoError(t, err)
	return []palette.Palette{a, b}
}

func TestNextPaletteIndexNeverRepeatsWithMultipleOptions(t *testing.T) {
	s := New(nil, discardLogger(), twoPalettes(t), time.Millisecond, 42)
	prev := s.nextPaletteIndex()
	s.prevPaletteIndex = prev
	for i := 0; i < 50; i++ {
		idx := s.nextPaletteIndex()
		require.NotEqual(t, prev, idx)
		s.prevPaletteIndex = idx
		prev = idx
	}
}

func TestNextPaletteIndexWithSinglePaletteAlwaysZero(t *testing.T) {
	pal, err := palette.New([]color.RGB{{R: 1}})
	require.NoError(t, err)
	s := New(nil, discardLogger(), []palette.Palette{pal}, time.Millisecond, 1)
	for i := 0; i < 5; i++ {
		require.Equal(t, 0, s.nextPaletteIndex())
	}
}

func TestStartRotatesThroughStepsAndStopTearsDown(t *testing.T) {
	strip := hardware.NewMemoryStrip(4)
	rt := runtime.New(strip, nil)
	s := New(rt, discardLogger(), twoPalettes(t), 10*time.Millisecond, 7)

	steps := []Step{
		{Effect: kernel.IDBlink, Speed: 1},
		{Effect: kernel.IDFade, Speed: 1},
	}
	s.Start(strip, steps)
	time.Sleep(35 * time.Millisecond)
	s.Stop()

	require.Greater(t, strip.Commits(), 0)
	// Stop must be idempotent.
	require.NotPanics(t, s.Stop)
}
