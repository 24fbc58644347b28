package view

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-vgo/robotgo"

	"prompter/pkg/playback"
)

// Typer types every appended line into the focused window, for feeding a
// caption or notes app. Typing happens on its own goroutine so the
// playback loop never waits on the keyboard.
type Typer struct {
	playback.NopSink

	queue  chan string
	wg     sync.WaitGroup
	once   sync.Once
	typing atomic.Bool

	typeStr func(string, ...int)
	keyTap  func(string, ...interface{}) error
	delay   time.Duration
	// settle keeps Typing true after the last synthetic key, until the
	// global hook has seen it.
	settle  time.Duration
	logger  *slog.Logger
}

// NewTyper starts a Typer. Call Close to stop it.
func NewTyper(logger *slog.Logger) *Typer {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Typer{
		queue:   make(chan string, 32),
		typeStr: robotgo.TypeStr,
		keyTap:  robotgo.KeyTap,
		delay:   200 * time.Millisecond,
		settle:  100 * time.Millisecond,
		logger:  logger,
	}
	t.start()
	return t
}

func (t *Typer) start() {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for text := range t.queue {
			// Wait a bit for the advance key to be released.
			time.Sleep(t.delay)
			t.typeLine(text)
		}
	}()
}

func (t *Typer) typeLine(text string) {
	t.typing.Store(true)
	defer t.typing.Store(false)

	t.typeStr(text)
	if err := t.keyTap("enter"); err != nil {
		t.logger.Warn("typer: key tap failed", "err", err)
	}
	time.Sleep(t.settle)
}

// Typing reports whether the Typer is generating key events. Hotkey
// handlers drop presses while it is, since the hooks see synthetic keys
// too.
func (t *Typer) Typing() bool {
	return t.typing.Load()
}

// LineAppended queues text for typing. Lines are dropped if the keyboard
// falls far behind.
func (t *Typer) LineAppended(text string) {
	select {
	case t.queue <- text:
	default:
		t.logger.Warn("typer: queue full, dropping line")
	}
}

// Close stops typing after the queued lines are done. The Typer must not
// receive lines after Close.
func (t *Typer) Close() {
	t.once.Do(func() {
		close(t.queue)
		t.wg.Wait()
	})
}
