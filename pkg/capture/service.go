// Package capture runs continuous speech recognition: microphone audio is
// streamed to a recognizer and transcriptions come back through callbacks.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrSourceEnded is reported when the audio source stops while capture is on.
var ErrSourceEnded = errors.New("capture: audio source ended")

// Result is one transcription from the recognizer.
type Result struct {
	Text  string
	Final bool
}

// AudioSource produces mono 16-bit PCM until ctx is cancelled.
type AudioSource interface {
	Stream(ctx context.Context, out chan<- []int16) error
}

// Recognizer transcribes audio from one stream. It returns nil when the
// provider ends the stream on its own, and the context error when ctx is
// cancelled.
type Recognizer interface {
	Recognize(ctx context.Context, audio <-chan []int16, emit func(Result)) error
}

// Service handles continuous capture. Start and Stop never block.
type Service struct {
	source     AudioSource
	recognizer Recognizer
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	gen     int
	wg      sync.WaitGroup

	// Callbacks, invoked from the capture goroutine.
	OnStart   func()
	OnStop    func()
	OnInterim func(string)
	OnFinal   func(string)
	OnError   func(error)
}

// New creates a capture Service.
func New(source AudioSource, recognizer Recognizer, logger *slog.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("audio source is required")
	}
	if recognizer == nil {
		return nil, fmt.Errorf("recognizer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, recognizer: recognizer, logger: logger}, nil
}

// Running reports whether capture is on.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins continuous capture. It does nothing if capture is on.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.gen++

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.OnStart != nil {
		s.OnStart()
	}
	s.wg.Add(1)
	go s.runLoop(ctx, s.gen)
}

// Stop ends capture without waiting for the stream to wind down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	if !s.running {
		return
	}
	s.running = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.OnStop != nil {
		s.OnStop()
	}
}

// Close stops capture and waits for the capture goroutine to exit.
func (s *Service) Close() {
	s.Stop()
	s.wg.Wait()
}

func (s *Service) runLoop(ctx context.Context, gen int) {
	defer s.wg.Done()

	err := s.run(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	s.logger.Error("speech capture failed", "err", err)

	s.mu.Lock()
	current := s.gen == gen
	if current {
		s.stopLocked()
	}
	s.mu.Unlock()

	// A failure from a capture that was already stopped is stale.
	if current && s.OnError != nil {
		s.OnError(err)
	}
}

// run streams audio into the recognizer, reopening the recognition stream
// each time the provider closes it, until ctx is cancelled or either side
// fails.
func (s *Service) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	audio := make(chan []int16, 16)
	sourceDone := make(chan struct{})

	g.Go(func() error {
		defer close(audio)
		defer close(sourceDone)
		if err := s.source.Stream(ctx, audio); err != nil {
			return err
		}
		if ctx.Err() == nil {
			return ErrSourceEnded
		}
		return nil
	})

	g.Go(func() error {
		for {
			err := s.recognizer.Recognize(ctx, audio, s.emit)
			if err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-sourceDone:
				return nil
			default:
			}
			s.logger.Debug("recognition stream ended, reopening")
		}
	})

	return g.Wait()
}

func (s *Service) emit(r Result) {
	if r.Final {
		if s.OnFinal != nil {
			s.OnFinal(r.Text)
		}
		return
	}
	if s.OnInterim != nil {
		s.OnInterim(r.Text)
	}
}
