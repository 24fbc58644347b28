package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"prompter/internal/app"
	"prompter/internal/config"
	plog "prompter/internal/log"
	"prompter/pkg/playback"
	"prompter/pkg/view"
)

var commands = map[string]playback.Kind{
	"":  playback.Advance,
	"n": playback.Advance,
	"s": playback.Select,
	"w": playback.Switch,
	"c": playback.ToggleCapture,
	"d": playback.ToggleDisplay,
	"v": playback.ToggleVisibility,
	"p": playback.Pause,
	"r": playback.Resume,
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := plog.Init(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, view.NewConsole(os.Stdout), nil, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Run(ctx)
	}()

	fmt.Println("Enter: next line  s: select (twice quickly to switch)  w: switch  c: live transcription")
	fmt.Println("d: display mode  v: show/hide  p/r: pause/resume  q: quit. Ctrl+C to exit.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			<-done
			return
		case line, ok := <-lines:
			if !ok || line == "q" {
				stop()
				<-done
				return
			}
			kind, known := commands[line]
			if !known {
				fmt.Printf("unknown command %q\n", line)
				continue
			}
			a.Post(playback.Key(kind))
		}
	}
}
