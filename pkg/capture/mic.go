package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

const (
	// DefaultSampleRate is what the recognizer is configured for.
	DefaultSampleRate = 16000
	channelCount      = 1
	audioBufferSize   = 1024
	// DefaultGain boosts quiet headset microphones.
	DefaultGain = 32.0
)

// Init initializes PortAudio. Call Terminate when done.
func Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init error: %w", err)
	}
	return nil
}

// Terminate releases PortAudio.
func Terminate() {
	portaudio.Terminate()
}

// Mic reads the default input device through PortAudio.
type Mic struct {
	SampleRate int
	Gain       float64
	Logger     *slog.Logger
}

// Stream implements AudioSource. Each chunk sent on out is a fresh slice.
func (m *Mic) Stream(ctx context.Context, out chan<- []int16) error {
	rate := m.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}
	gain := m.Gain
	if gain == 0 {
		gain = 1
	}
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}

	framesPerBuffer := make([]int16, audioBufferSize)
	paStream, err := portaudio.OpenDefaultStream(channelCount, 0, float64(rate), len(framesPerBuffer), framesPerBuffer)
	if err != nil {
		return fmt.Errorf("failed to open PA stream: %w", err)
	}
	defer paStream.Close()

	if err := paStream.Start(); err != nil {
		return fmt.Errorf("failed to start PA stream: %w", err)
	}
	defer paStream.Stop()

	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := paStream.Read(); err != nil {
			if err != portaudio.InputOverflowed {
				logger.Warn("PortAudio read error", "err", err)
			}
		}

		chunk := make([]int16, len(framesPerBuffer))
		for i, sample := range framesPerBuffer {
			chunk[i] = boost(sample, gain)
		}

		select {
		case out <- chunk:
		case <-ctx.Done():
			return nil
		}
	}
}

// boost scales a sample by gain, clipping to the int16 range.
func boost(sample int16, gain float64) int16 {
	boosted := float64(sample) * gain
	if boosted > 32767 {
		boosted = 32767
	} else if boosted < -32768 {
		boosted = -32768
	}
	return int16(boosted)
}

// pcmBytes encodes samples as little-endian LINEAR16.
func pcmBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, sample := range samples {
		buf[i*2] = byte(sample)
		buf[i*2+1] = byte(sample >> 8)
	}
	return buf
}
