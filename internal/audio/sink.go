package audio

import (
	"github.com/austinm34563/treelights-go/internal/color"
	"github.com/austinm34563/treelights-go/internal/hardware"
)

// LEDSink is what the pipeline writes FFT-mapped LED colors to. It is
// kept distinct from hardware.Strip so a brightness control can sit in
// front of the strip without the mapper needing to know about it, and
// distinct from PlaybackSink (spec.md §6's actual audio output device
// collaborator) so "volume" (PlaybackSink.Gain) and LED brightness
// never get conflated.
type LEDSink interface {
	Write(colors []color.RGB) error
	SetGain(gain float64)
	Gain() float64
}

// StripSink adapts a hardware.Strip into an LEDSink, applying Gain as
// a final brightness multiplier before each commit.
type StripSink struct {
	strip hardware.Strip
	gain  float64
}

// NewStripSink wraps strip with a default gain of 1 (unity).
func NewStripSink(strip hardware.Strip) *StripSink {
	return &StripSink{strip: strip, gain: 1}
}

func (s *StripSink) SetGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	s.gain = gain
}

func (s *StripSink) Gain() float64 { return s.gain }

func (s *StripSink) Write(colors []color.RGB) error {
	scaled := make([]color.RGB, len(colors))
	brightness := int(s.gain * 255)
	for i, c := range colors {
		scaled[i] = c.Scale(brightness, 255)
	}
	if err := s.strip.SliceAssign(0, scaled); err != nil {
		return err
	}
	return s.strip.Commit()
}
