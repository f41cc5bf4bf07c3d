// Package audio implements the Audio-Reactive Pipeline (spec.md §4.4):
// a TCP PCM ingest that feeds fixed-size chunks through an FFT and a
// logarithmic frequency-band-to-LED mapper, driving the strip directly
// rather than through a Kernel (the pipeline owns its own commit
// cadence, tied to how fast chunks arrive rather than a fixed frame
// rate). Grounded on the FFT usage in the retrieval pack's Ambilight
// controller (gonum.org/v1/gonum/dsp/fourier and dsp/window), ported
// from server/tcp_audio_sync.py's AudioReceiver.
package audio

import "time"

const (
	// SampleRate is the expected input sample rate in Hz.
	SampleRate = 44100
	// Channels is the expected input channel count (stereo).
	Channels = 2
	// BytesPerSample is the PCM sample width: 16-bit signed LE.
	BytesPerSample = 2
	// AudioChunk is the number of interleaved stereo frames assembled
	// before a visualization pass runs, ported from tcp_audio_sync.py's
	// CHUNK_SIZE.
	AudioChunk = 4096
	// VisChunk is the FFT window size taken from within each AudioChunk.
	VisChunk = 1024
	// IngressPort is the TCP port the pipeline listens on for raw PCM.
	IngressPort = 5005
	// MaxMagDecay is the per-chunk decay applied to the running maximum
	// magnitude used for normalization, ported from tcp_audio_sync.py's
	// max_mag *= 0.999. Kept as a named constant per SPEC_FULL.md's Open
	// Questions decision rather than inlined, since it is the knob most
	// likely to need tuning against real hardware.
	MaxMagDecay = 0.999
	// SilenceDecay is the steeper decay applied to max_mag on a
	// zero-signal chunk, so normalization recovers quickly once the
	// input goes quiet.
	SilenceDecay = 0.9
	// SmoothingAlpha is the exponential smoothing weight applied to
	// newly computed magnitudes: mags = alpha*new + (1-alpha)*prev.
	SmoothingAlpha = 0.25

	// readTimeout bounds how long a single PCM frame read may block
	// before the connection is treated as stalled.
	readTimeout = 5 * time.Second
)

// ConnectionState is the audio ingress connection state machine from
// spec.md §4.4: IDLE (no client connected), CONNECTED (a client is
// attached but no chunk has driven the LED mapper yet: none has
// arrived, or every chunk so far arrived while output was disabled),
// ACTIVE (at least one chunk has driven the strip on this connection;
// the state stays ACTIVE until the client disconnects).
type ConnectionState int

const (
	StateIdle ConnectionState = iota
	StateConnected
	StateActive
)

func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnected:
		return "connected"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}
