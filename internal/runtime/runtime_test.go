package runtime

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/austinm34563/treelights-go/internal/hardware"
)

type countingKernel struct {
	ticks  int32
	period time.Duration
}

func (k *countingKernel) Tick()                         { atomic.AddInt32(&k.ticks, 1) }
func (k *countingKernel) EffectivePeriod() time.Duration { return k.period }

func TestStartDrivesTicksAndCommits(t *testing.T) {
	strip := hardware.NewMemoryStrip(4)
	rt := New(strip, nil)
	k := &countingKernel{period: time.Millisecond}

	rt.Start(k)
	time.Sleep(50 * time.Millisecond)
	rt.Stop()

	require.Greater(t, int(atomic.LoadInt32(&k.ticks)), 0)
	require.Greater(t, strip.Commits(), 0)
}

func TestStartTearsDownPreviousKernelBeforeInstallingNext(t *testing.T) {
	strip := hardware.NewMemoryStrip(4)
	rt := New(strip, nil)
	first := &countingKernel{period: time.Millisecond}
	second := &countingKernel{period: time.Millisecond}

	rt.Start(first)
	time.Sleep(10 * time.Millisecond)
	rt.Start(second)
	ticksAtSwap := atomic.LoadInt32(&first.ticks)
	time.Sleep(20 * time.Millisecond)
	rt.Stop()

	require.Equal(t, ticksAtSwap, atomic.LoadInt32(&first.ticks))
	require.Greater(t, int(atomic.LoadInt32(&second.ticks)), 0)
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	strip := hardware.NewMemoryStrip(4)
	rt := New(strip, nil)
	require.NotPanics(t, rt.Stop)
}

func TestSlowEffectStillCommitsAtHardwareRate(t *testing.T) {
	strip := hardware.NewMemoryStrip(4)
	rt := New(strip, nil)
	k := &countingKernel{period: 500 * time.Millisecond}

	rt.Start(k)
	time.Sleep(60 * time.Millisecond)
	rt.Stop()

	require.LessOrEqual(t, int(atomic.LoadInt32(&k.ticks)), 1)
	require.Greater(t, strip.Commits(), 1)
}
