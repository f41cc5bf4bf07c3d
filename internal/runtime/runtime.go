// Package runtime implements the Animation Runtime (spec.md §4.3): a
// single-owner frame loop that decouples an effect's tick rate from
// the fixed hardware commit rate. Structured around context.Context
// cancellation and a done channel, the same lifecycle shape the
// teacher repo uses for its board and pattern goroutines
// (peripheral/board-yellow.go's context+mutex pair and
// patterns.PatternManager's stopChan).
package runtime

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/kernel"
)

// CommitPeriod is the fixed hardware refresh cadence (~60Hz), the
// upper bound on how often Commit is ever called regardless of how
// fast the active kernel ticks.
const CommitPeriod = 16667 * time.Microsecond

// Runtime owns exactly one kernel's execution against one strip at a
// time. Starting a new kernel implicitly stops whatever was running
// before it — callers needing the teardown-before-install ownership
// invariant (spec.md §4.7) do so by holding Runtime behind that
// serializing mutex, not by synchronizing inside Runtime itself.
type Runtime struct {
	strip hardware.Strip
	log   *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Runtime bound to strip. log may be nil, in which
// case a disabled logger is used.
func New(strip hardware.Strip, log *logrus.Entry) *Runtime {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = logrus.NewEntry(l)
	}
	return &Runtime{strip: strip, log: log}
}

// Start stops any previously running kernel and begins driving k in a
// new goroutine. It returns once the previous kernel's goroutine (if
// any) has fully exited, satisfying the teardown-before-install
// ownership invariant.
func (r *Runtime) Start(k kernel.Kernel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go r.run(ctx, k, done)
}

// Stop halts the currently running kernel, if any, and waits for its
// goroutine to exit. Calling Stop when nothing is running is a no-op.
func (r *Runtime) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Runtime) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

// run is the frame loop. It sleeps to whichever of the tick deadline
// or the commit deadline comes first, so a slow-ticking effect (e.g.
// a 2s CycleFade) still commits at full hardware rate while a
// fast-ticking effect never commits faster than CommitPeriod allows.
func (r *Runtime) run(ctx context.Context, k kernel.Kernel, done chan struct{}) {
	defer close(done)

	now := time.Now()
	nextTick := now
	nextCommit := now

	for {
		tickWait := time.Until(nextTick)
		commitWait := time.Until(nextCommit)
		wait := tickWait
		if commitWait < wait {
			wait = commitWait
		}
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		} else {
			select {
			case <-ctx.Done():
				return
			default:
			}
		}

		start := time.Now()
		if !start.Before(nextTick) {
			k.Tick()
			nextTick = nextTick.Add(k.EffectivePeriod())
			if nextTick.Before(start) {
				nextTick = start.Add(k.EffectivePeriod())
			}
		}
		if !start.Before(nextCommit) {
			if err := r.strip.Commit(); err != nil {
				r.log.WithError(err).Warn("strip commit failed")
			}
			nextCommit = nextCommit.Add(CommitPeriod)
			if nextCommit.Before(start) {
				nextCommit = start.Add(CommitPeriod)
			}
		}

		if elapsed := time.Since(start); elapsed > CommitPeriod {
			r.log.WithField("elapsed", elapsed).Warn("frame budget exceeded")
		}
	}
}
