package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"prompter/internal/app"
	"prompter/internal/config"
	plog "prompter/internal/log"
	"prompter/pkg/playback"
	"prompter/pkg/view"

	"github.com/getlantern/systray"
	hook "github.com/robotn/gohook"
)

var (
	prompter *app.App
	cancel   context.CancelFunc
	done     = make(chan struct{})
	typer    *view.Typer
	logger   *slog.Logger
	// embeddedAPIKey can be set via -ldflags "-X main.embeddedAPIKey=..."
	embeddedAPIKey string
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Log to a file; the tray app has no terminal.
	out := os.Stderr
	if f, err := plog.OpenFile(cfg.LogFile); err == nil {
		out = f
		defer f.Close()
	}
	logger = plog.Init(out, cfg.LogLevel)
	logger.Info("Prompter Application Started")

	if cfg.Speech.APIKey == "" && embeddedAPIKey != "" {
		cfg.Speech.APIKey = embeddedAPIKey
		logger.Info("Using embedded API Key")
	}

	systray.Run(func() { onReady(cfg) }, onExit)
}

func onReady(cfg *config.Config) {
	systray.SetIcon(view.IconIdle)
	systray.SetTitle("")
	systray.SetTooltip("Prompter")

	mNext := systray.AddMenuItem("Next line", "Show the next line")
	mSwitch := systray.AddMenuItem("Switch script", "Swap between the two scripts")
	mCapture := systray.AddMenuItem("Live transcription", "Show speech instead of the script")
	mDisplay := systray.AddMenuItem("Display mode", "Cycle the display layout")
	mPause := systray.AddMenuItem("Pause", "Pause speech capture")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	tray := view.NewTray()
	tray.OnCapture = func(on bool) {
		if on {
			mCapture.Check()
		} else {
			mCapture.Uncheck()
		}
	}
	sinks := view.Multi{tray}
	if cfg.Output.TypeLines {
		typer = view.NewTyper(logger)
		sinks = append(sinks, typer)
	}

	var ctx context.Context
	ctx, cancel = context.WithCancel(context.Background())

	var err error
	prompter, err = app.New(ctx, cfg, sinks, nil, logger)
	if err != nil {
		logger.Error("Failed to start prompter", "err", err)
		os.Exit(1)
	}

	go func() {
		defer close(done)
		prompter.Run(ctx)
	}()
	if typer != nil {
		prompter.HoldKeys(typer.Typing)
	}

	bindings, err := cfg.KeyBindings()
	if err != nil {
		logger.Error("Invalid key bindings", "err", err)
		os.Exit(1)
	}
	go startHotkeyListener(bindings)

	go func() {
		paused := false
		for {
			select {
			case <-mNext.ClickedCh:
				prompter.Post(playback.Key(playback.Advance))
			case <-mSwitch.ClickedCh:
				prompter.Post(playback.Key(playback.Switch))
			case <-mCapture.ClickedCh:
				prompter.Post(playback.Key(playback.ToggleCapture))
			case <-mDisplay.ClickedCh:
				prompter.Post(playback.Key(playback.ToggleDisplay))
			case <-mPause.ClickedCh:
				paused = !paused
				if paused {
					prompter.Post(playback.Key(playback.Pause))
					mPause.SetTitle("Resume")
				} else {
					prompter.Post(playback.Key(playback.Resume))
					mPause.SetTitle("Pause")
				}
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func onExit() {
	hook.End()
	if cancel != nil {
		cancel()
		<-done
	}
	if prompter != nil {
		prompter.Close()
	}
	if typer != nil {
		typer.Close()
	}
}

func startHotkeyListener(bindings map[playback.Kind][]string) {
	logger.Info("Listening for hotkeys...")
	for kind, keys := range bindings {
		kind := kind
		hook.Register(hook.KeyDown, keys, func(e hook.Event) {
			prompter.PostKey(kind)
		})
	}

	s := hook.Start()
	<-hook.Process(s)
}
