package audio

import "sync"

// PlaybackSink is the external "Audio sink interface" collaborator
// spec.md §6 describes: an output stream accepting interleaved int16
// PCM at the negotiated rate/channel count, with a blocking Write. The
// core never decodes or plays audio itself — the actual audio output
// device is out of scope per spec.md §1 — so this is a narrow
// interface a deployment supplies an implementation for, distinct from
// the LEDSink the same pipeline drives off the FFT-mapped colors.
type PlaybackSink interface {
	Write(pcm []int16) error
	SetGain(percent int)
	Gain() int
}

// MemoryPlaybackSink is the reference PlaybackSink: it discards the
// PCM it's handed (there is no real speaker attached) but tracks gain
// so set_volume/get_volume have something real to operate on, and
// counts writes for tests.
type MemoryPlaybackSink struct {
	mu     sync.Mutex
	gain   int
	writes int
}

// NewMemoryPlaybackSink constructs a MemoryPlaybackSink at full volume.
func NewMemoryPlaybackSink() *MemoryPlaybackSink {
	return &MemoryPlaybackSink{gain: 100}
}

func (s *MemoryPlaybackSink) Write(pcm []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	return nil
}

// SetGain clamps percent to [0,100], matching the 0..100 range
// set_volume's params validate (spec.md §4.6).
func (s *MemoryPlaybackSink) SetGain(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	s.mu.Lock()
	s.gain = percent
	s.mu.Unlock()
}

func (s *MemoryPlaybackSink) Gain() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gain
}

// Writes reports how many PCM buffers have been handed to the sink,
// for test assertions.
func (s *MemoryPlaybackSink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
