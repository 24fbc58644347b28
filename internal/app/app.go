// Package app wires a prompting session from configuration: scripts,
// playback loop and speech capture.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prompter/internal/config"
	"prompter/pkg/capture"
	"prompter/pkg/playback"
)

// App is one running prompter.
type App struct {
	cfg     *config.Config
	loop    *playback.Loop
	capture *capture.Service
	closers []func()
	logger  *slog.Logger

	// keysHeld, when set, drops key events while it reports true.
	keysHeld func() bool
}

// SpeechFactory builds the capture service. Tests replace it to avoid
// touching audio hardware.
type SpeechFactory func(ctx context.Context, cfg config.SpeechConfig, logger *slog.Logger) (*capture.Service, func(), error)

// New loads the initial scripts and wires speech capture. A missing or
// malformed initial script is returned as a *script.LoadError.
func New(ctx context.Context, cfg *config.Config, view playback.ViewSink, speech SpeechFactory, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if view == nil {
		view = playback.NopSink{}
	}
	pc, err := cfg.PlaybackConfig()
	if err != nil {
		return nil, err
	}

	loader := cfg.Loader()
	sess, err := playback.NewSession(pc, loader, time.Now())
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}

	var sc playback.SpeechCapture = playback.NopCapture{}
	if cfg.Speech.Enabled {
		if speech == nil {
			speech = GoogleSpeech
		}
		svc, closeFn, err := speech(ctx, cfg.Speech, logger)
		if err != nil {
			return nil, fmt.Errorf("speech capture: %w", err)
		}
		a.capture = svc
		a.closers = append(a.closers, closeFn)
		sc = svc
	}

	ctrl := playback.NewController(pc, sess, loader, view, sc, playback.WithLogger(logger))
	a.loop = playback.NewLoop(ctrl, 64)

	if a.capture != nil {
		a.capture.OnInterim = func(text string) { a.post(playback.InterimText(text)) }
		a.capture.OnFinal = func(text string) { a.post(playback.FinalText(text)) }
		a.capture.OnError = func(err error) {
			a.post(playback.Event{Kind: playback.CaptureFailed, Text: err.Error()})
		}
	}

	logger.Info("prompter ready",
		"variant", cfg.Variant,
		"lines", sess.Primary.Len(),
		"speech", cfg.Speech.Enabled,
	)
	return a, nil
}

// GoogleSpeech captures from the default microphone and transcribes with
// Google Cloud Speech-to-Text.
func GoogleSpeech(ctx context.Context, cfg config.SpeechConfig, logger *slog.Logger) (*capture.Service, func(), error) {
	if err := capture.Init(); err != nil {
		return nil, nil, err
	}
	rec, err := capture.NewGoogle(ctx, capture.GoogleConfig{
		APIKey:          cfg.APIKey,
		CredentialsFile: cfg.CredentialsFile,
		Language:        cfg.Language,
		SampleRate:      cfg.SampleRate,
		Model:           cfg.Model,
	})
	if err != nil {
		capture.Terminate()
		return nil, nil, err
	}
	mic := &capture.Mic{SampleRate: cfg.SampleRate, Gain: cfg.Gain, Logger: logger}
	svc, err := capture.New(mic, rec, logger)
	if err != nil {
		rec.Close()
		capture.Terminate()
		return nil, nil, err
	}
	return svc, func() {
		svc.Close()
		rec.Close()
		capture.Terminate()
	}, nil
}

func (a *App) post(ev playback.Event) {
	if err := a.loop.Post(ev); err != nil {
		a.logger.Debug("event dropped", "kind", ev.Kind, "err", err)
	}
}

// Post queues an input event. Safe from any goroutine.
func (a *App) Post(ev playback.Event) {
	a.post(ev)
}

// HoldKeys makes PostKey drop presses while held reports true, such as
// while a Typer is replaying text through the same keyboard hooks.
func (a *App) HoldKeys(held func() bool) {
	a.keysHeld = held
}

// PostKey queues a key press from a global hotkey.
func (a *App) PostKey(k playback.Kind) {
	if a.keysHeld != nil && a.keysHeld() {
		a.logger.Debug("key ignored while typing", "kind", k)
		return
	}
	a.post(playback.Key(k))
}

// Call runs fn on the playback goroutine.
func (a *App) Call(ctx context.Context, fn func(*playback.Session)) error {
	return a.loop.Call(ctx, fn)
}

// Run processes events until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.loop.Run(ctx)
}

// Close releases speech capture. Call it after Run returns.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
