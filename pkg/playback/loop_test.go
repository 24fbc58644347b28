package playback_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"prompter/pkg/playback"
	"prompter/pkg/view"
)

func startLoop(t *testing.T, lines []string) (*playback.Loop, *view.Recorder, context.CancelFunc, <-chan error) {
	t.Helper()
	cfg := cfgWith(func(c *playback.Config) { c.IgnoreAdvanceInCapture = false })
	loader := mapLoader{"a": lines, "b": {}}
	sess, err := playback.NewSession(cfg, loader, t0)
	if err != nil {
		t.Fatal(err)
	}
	rec := view.NewRecorder()
	loop := playback.NewLoop(playback.NewController(cfg, sess, loader, rec, nil), 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	t.Cleanup(cancel)
	return loop, rec, cancel, done
}

func TestLoop_SerializesKeysAndSpeech(t *testing.T) {
	t.Parallel()
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "line"
	}
	loop, rec, _, _ := startLoop(t, lines)

	if err := loop.Post(playback.Key(playback.ToggleCapture)); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				loop.Post(playback.Key(playback.Advance))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				loop.Post(playback.InterimText("partial"))
				loop.Post(playback.FinalText("spoken"))
			}
		}()
	}
	wg.Wait()

	var logLen, cursor int
	err := loop.Call(context.Background(), func(s *playback.Session) {
		logLen = len(s.Log)
		cursor = s.Primary.Cursor()
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if cursor != 100 {
		t.Errorf("cursor = %d, want 100", cursor)
	}
	if logLen != 200 {
		t.Errorf("log has %d lines, want 200", logLen)
	}
	if got := len(rec.Lines()); got != 200 {
		t.Errorf("view has %d lines, want 200", got)
	}
}

func TestLoop_StopsOnCancel(t *testing.T) {
	t.Parallel()
	loop, _, cancel, done := startLoop(t, []string{"a"})
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	if err := loop.Post(playback.Key(playback.Advance)); !errors.Is(err, playback.ErrStopped) {
		t.Errorf("Post after stop = %v, want ErrStopped", err)
	}
	if err := loop.Call(context.Background(), func(*playback.Session) {}); !errors.Is(err, playback.ErrStopped) {
		t.Errorf("Call after stop = %v, want ErrStopped", err)
	}
}
