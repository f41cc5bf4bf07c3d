package audio

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/austinm34563/treelights-go/internal/color"
	"github.com/austinm34563/treelights-go/internal/palette"
)

// Pipeline owns the audio ingress TCP listener and drives an LEDSink
// with FFT-mapped colors, and a PlaybackSink with the raw PCM, for as
// long as a client stays connected and streaming. It implements the
// connection state machine from spec.md §4.4 (Idle/Connected/Active)
// and accepts at most one streaming client at a time — a second
// connection while one is already active is refused, matching the
// original's single audio source assumption in tcp_audio_sync.py.
//
// The listener is started once and persists for the process lifetime
// (spec.md §5: "started once, never restarted per session"); Enable
// and Disable only toggle whether arriving audio drives the LED
// mapper, matching §4.6's teardown note that audio is "toggled rather
// than torn down because its listener is persistent."
type Pipeline struct {
	log      *logrus.Entry
	led      LEDSink
	playback PlaybackSink
	ledCount int

	mu      sync.Mutex
	state   ConnectionState
	enabled bool
	pal     palette.Palette
	mapper  *BandMapper
	started bool
}

// New constructs a Pipeline targeting ledCount LEDs through led,
// starting with the given palette. playback receives the raw PCM the
// pipeline ingests; it may be a MemoryPlaybackSink when no real audio
// output device is attached.
func New(led LEDSink, playback PlaybackSink, ledCount int, pal palette.Palette, log *logrus.Entry) *Pipeline {
	return &Pipeline{
		log:      log,
		led:      led,
		playback: playback,
		ledCount: ledCount,
		pal:      pal,
		mapper:   NewBandMapper(ledCount, VisChunk/2+1, SampleRate, pal),
	}
}

// State reports the current connection state.
func (p *Pipeline) State() ConnectionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Enabled reports whether audio-reactive output is currently turned on.
func (p *Pipeline) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// SetPalette swaps the active palette under the same lock the render
// loop reads it through, so a palette change never tears a frame.
func (p *Pipeline) SetPalette(pal palette.Palette) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pal = pal
	p.mapper.SetPalette(pal)
}

// Start begins listening for an audio source on IngressPort. It is
// meant to be called exactly once, at process startup, independent of
// Enable/Disable — spec.md §4.4's listener is always up; only the
// "enabled" flag gates whether it drives the strip.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return nil
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", IngressPort))
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	go p.acceptLoop(ctx, ln)
	return nil
}

// Enable turns on audio-reactive LED output. Safe to call at any time,
// including while no client is connected (spec.md §4.4).
func (p *Pipeline) Enable() error {
	p.mu.Lock()
	p.enabled = true
	p.mu.Unlock()
	return nil
}

// Disable turns off audio-reactive LED output without touching the
// listener. Per spec.md §4.4, "when newly disabled, an immediate
// all-black frame is committed to the strip."
func (p *Pipeline) Disable() {
	p.mu.Lock()
	wasEnabled := p.enabled
	p.enabled = false
	p.mu.Unlock()
	if wasEnabled {
		black := make([]color.RGB, p.ledCount)
		if err := p.led.Write(black); err != nil {
			p.log.WithError(err).Warn("failed to commit all-black frame on disable")
		}
	}
}

func (p *Pipeline) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				p.log.WithError(err).Warn("audio ingress accept failed")
				return
			}
		}

		p.mu.Lock()
		alreadyStreaming := p.state != StateIdle
		if !alreadyStreaming {
			p.state = StateConnected
		}
		p.mu.Unlock()

		if alreadyStreaming {
			conn.Close()
			continue
		}
		go p.handleConn(ctx, conn)
	}
}

func (p *Pipeline) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	analyzer := NewAnalyzer(VisChunk)
	p.mu.Lock()
	p.mapper.SetPalette(p.pal)
	p.mu.Unlock()
	analyzer.Reset()

	defer func() {
		p.mu.Lock()
		p.state = StateIdle
		p.mu.Unlock()
	}()

	framer := NewFramer(4)

	errc := make(chan error, 1)
	go func() {
		buf := make([]byte, 4096)
		for {
			if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
				_ = framer.Close()
				errc <- err
				return
			}
			n, err := conn.Read(buf)
			if n > 0 {
				_, _ = framer.Write(buf[:n])
			}
			if err != nil {
				_ = framer.Close()
				errc <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errc:
			if err != io.EOF {
				p.log.WithError(err).Debug("audio ingress connection read error")
			}
			return
		default:
		}

		pcm, mono, err := framer.NextChunk()
		if err != nil {
			return
		}

		p.mu.Lock()
		enabled := p.enabled
		mapper := p.mapper
		p.mu.Unlock()

		if !enabled {
			silence := make([]int16, len(pcm))
			if err := p.playback.Write(silence); err != nil {
				p.log.WithError(err).Warn("audio playback write failed")
			}
			continue
		}

		if err := p.playback.Write(pcm); err != nil {
			p.log.WithError(err).Warn("audio playback write failed")
		}

		p.mu.Lock()
		p.state = StateActive
		p.mu.Unlock()

		for off := 0; off+VisChunk <= len(mono); off += VisChunk {
			mags := analyzer.Analyze(mono[off : off+VisChunk])
			p.mu.Lock()
			colors := mapper.Map(mags)
			p.mu.Unlock()
			if err := p.led.Write(colors); err != nil {
				p.log.WithError(err).Warn("audio LED write failed")
			}
		}
	}
}
