package audio

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/smallnest/ringbuffer"
)

// pollInterval is how often NextChunk retries a read against the ring
// buffer while waiting for a full chunk to accumulate.
const pollInterval = 2 * time.Millisecond

// Framer assembles a raw byte stream of interleaved int16 LE stereo
// PCM into fixed-size AudioChunk frames, backed by a bounded ring
// buffer so a producer that outruns the consumer drops the newest
// bytes rather than growing without bound. Ported from the buffering
// behavior implicit in AudioReceiver.handle_client in
// tcp_audio_sync.py, made explicit here via
// github.com/smallnest/ringbuffer (also used by the retrieval pack's
// bird-audio ingest pipeline for the same bounded-producer shape).
type Framer struct {
	rb        *ringbuffer.RingBuffer
	frameSize int // bytes per AudioChunk: AudioChunk * Channels * BytesPerSample
}

// NewFramer constructs a Framer with capacity for bufChunks full
// AudioChunks worth of bytes before it starts dropping input.
func NewFramer(bufChunks int) *Framer {
	if bufChunks < 1 {
		bufChunks = 1
	}
	frameSize := AudioChunk * Channels * BytesPerSample
	return &Framer{
		rb:        ringbuffer.New(frameSize * bufChunks),
		frameSize: frameSize,
	}
}

// Write appends raw bytes read off the socket. It never blocks: bytes
// that would overflow the ring buffer's capacity are dropped, the
// newest data being sacrificed first (spec.md's drop-newest-on-
// overflow policy), so a stalled consumer degrades to stale audio
// rather than memory growth.
func (f *Framer) Write(p []byte) (int, error) {
	n, err := f.rb.Write(p)
	if err == ringbuffer.ErrTooMuchDataToWrite || err == ringbuffer.ErrIsFull {
		return len(p), nil
	}
	return n, err
}

// NextChunk blocks until a full AudioChunk of stereo frames is
// available and returns both the raw interleaved int16 PCM (for the
// audio writer half of spec.md §4.4's data flow) and the downmixed
// mono float64 samples in [-1, 1] the FFT stage reads. io.EOF is
// returned once the underlying buffer is closed and drained.
func (f *Framer) NextChunk() (pcm []int16, mono []float64, err error) {
	buf := make([]byte, f.frameSize)
	read := 0
	for read < len(buf) {
		n, rerr := f.rb.Read(buf[read:])
		read += n
		if rerr == nil {
			continue
		}
		if errors.Is(rerr, ringbuffer.ErrIsEmpty) {
			time.Sleep(pollInterval)
			continue
		}
		return nil, nil, rerr
	}

	pcm = make([]int16, AudioChunk*Channels)
	mono = make([]float64, AudioChunk)
	for i := 0; i < AudioChunk; i++ {
		off := i * Channels * BytesPerSample
		l := int16(binary.LittleEndian.Uint16(buf[off : off+2]))
		r := int16(binary.LittleEndian.Uint16(buf[off+2 : off+4]))
		pcm[i*Channels] = l
		pcm[i*Channels+1] = r
		mono[i] = (float64(l) + float64(r)) / 2 / 32768.0
	}
	return pcm, mono, nil
}

// Close releases the underlying ring buffer, unblocking any pending
// NextChunk call with io.EOF.
func (f *Framer) Close() error {
	return f.rb.CloseWriter()
}
