// Package playlist implements the Playlist Scheduler (spec.md §4.5): a
// rotation of {effect, speed} steps, each run for a dwell duration
// against a freshly re-randomized palette. Its start/stop shape follows
// patterns.PatternManager in the teacher repo.
package playlist

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/kernel"
	"github.com/austinm34563/treelights-go/internal/palette"
	"github.com/austinm34563/treelights-go/internal/runtime"
)

// Step is one entry in a playlist rotation.
type Step struct {
	Effect kernel.AnimationID
	Speed  float64
	Opts   kernel.Options
}

// Scheduler rotates through Steps against a pool of named palettes,
// picking a new palette index every time it advances and refusing to
// repeat the immediately preceding index, per animation_playlist.py's
// _playlist_loop.
type Scheduler struct {
	rt       *runtime.Runtime
	log      *logrus.Entry
	palettes []palette.Palette
	dwell    time.Duration
	rng      *rand.Rand

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	prevPaletteIndex int
}

// New constructs a Scheduler that drives rt, choosing from palettes
// (must be non-empty) and dwelling on each step for dwell.
func New(rt *runtime.Runtime, log *logrus.Entry, palettes []palette.Palette, dwell time.Duration, seed int64) *Scheduler {
	return &Scheduler{
		rt:               rt,
		log:              log,
		palettes:         palettes,
		dwell:            dwell,
		rng:              rand.New(rand.NewSource(seed)),
		prevPaletteIndex: -1,
	}
}

// Start begins rotating through steps against strip, stopping any
// rotation already in progress (and the kernel it was running) first.
func (s *Scheduler) Start(strip hardware.Strip, steps []Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	if len(steps) == 0 || len(s.palettes) == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.loop(ctx, strip, steps, done)
}

// Stop halts rotation, if any is running, and stops the runtime
// kernel it was driving.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// SetPalettes replaces the pool a playlist picks from on its next
// Start call. The rotation loop reads the pool without taking the
// lock, so callers stop any running rotation before calling it.
func (s *Scheduler) SetPalettes(palettes []palette.Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palettes = palettes
	s.prevPaletteIndex = -1
}

// SetDwell overrides the per-step dwell duration (in seconds) a
// start_animation_playlist request's optional time_delay supplies.
func (s *Scheduler) SetDwell(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dwell = time.Duration(seconds * float64(time.Second))
}

// IsRunning reports whether a rotation is currently active. The
// Command Dispatcher does not consult it: it decides whether to report
// -32001 from its own record of the current render owner.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	s.rt.Stop()
}

// nextPaletteIndex picks a palette index uniformly at random from the
// pool, excluding the previously chosen index whenever the pool has
// more than one entry — the "new_index != previous_index" guarantee
// from animation_playlist.py.
func (s *Scheduler) nextPaletteIndex() int {
	if len(s.palettes) == 1 {
		return 0
	}
	for {
		idx := s.rng.Intn(len(s.palettes))
		if idx != s.prevPaletteIndex {
			return idx
		}
	}
}

func (s *Scheduler) loop(ctx context.Context, strip hardware.Strip, steps []Step, done chan struct{}) {
	defer close(done)

	i := 0
	for {
		step := steps[i%len(steps)]
		idx := s.nextPaletteIndex()
		s.prevPaletteIndex = idx
		pal := s.palettes[idx]

		k, err := kernel.Construct(step.Effect, strip, pal, step.Speed, step.Opts)
		if err != nil {
			s.log.WithError(err).WithField("effect", step.Effect).Warn("playlist step failed to construct, skipping")
			i++
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		s.rt.Start(k)

		timer := time.NewTimer(s.dwell)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		i++
	}
}
