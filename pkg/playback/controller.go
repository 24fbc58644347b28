// Package playback turns key presses and transcription results into
// changes to a prompting session.
//
// A Controller is not safe for concurrent use. Hosts run it behind a Loop,
// which serializes key input and speech callbacks onto one goroutine.
package playback

import (
	"fmt"
	"log/slog"
	"time"

	"prompter/pkg/script"
)

// Controller applies Events to a Session.
type Controller struct {
	cfg     Config
	session *Session
	loader  script.Loader
	view    ViewSink
	capture SpeechCapture
	logger  *slog.Logger
	now     func() time.Time
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock sets the clock used for events that carry no timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController returns a Controller driving session. A nil view or capture
// is replaced with a no-op.
func NewController(cfg Config, session *Session, loader script.Loader, view ViewSink, capture SpeechCapture, opts ...Option) *Controller {
	if view == nil {
		view = NopSink{}
	}
	if capture == nil {
		capture = NopCapture{}
	}
	c := &Controller{
		cfg:     cfg,
		session: session,
		loader:  loader,
		view:    view,
		capture: capture,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session returns the session the controller drives.
func (c *Controller) Session() *Session { return c.session }

// Sync pushes the whole session state to the view. Hosts call it once
// after wiring the view.
func (c *Controller) Sync() {
	s := c.session
	c.view.LogCleared()
	for _, line := range s.Log {
		c.view.LineAppended(line)
	}
	c.view.Header(s.HeaderText)
	c.view.CaptureChanged(s.Capturing)
	c.view.Interim(s.InterimText)
	c.view.DisplayChanged(s.Display, s.Visible)
}

// Dispatch applies one event.
func (c *Controller) Dispatch(ev Event) {
	at := ev.At
	if at.IsZero() {
		at = c.now()
	}
	c.logger.Debug("playback event", "kind", ev.Kind, "at", at)

	switch ev.Kind {
	case Advance:
		c.advance()
	case Select:
		c.selectPress(at)
	case Switch:
		if c.cfg.DualScript {
			c.switchScript()
		}
	case ToggleDisplay:
		c.toggleDisplay()
	case ToggleVisibility:
		c.toggleVisibility()
	case ToggleCapture:
		c.toggleCapture()
	case Interim:
		c.interim(ev.Text)
	case Final:
		c.final(ev.Text)
	case CaptureFailed:
		c.captureFailed(ev.Text)
	case Pause:
		c.pause()
	case Resume:
		c.resume()
	case call:
		ev.fn()
	default:
		c.logger.Warn("ignoring unknown playback event", "kind", ev.Kind)
	}
}

// advance runs the Advance priority chain. The first matching rule wins.
func (c *Controller) advance() {
	s := c.session
	switch {
	case s.Capturing && c.cfg.IgnoreAdvanceInCapture:
		c.logger.Debug("advance ignored while capturing")

	case s.Primary.IsComplete():
		c.complete()

	case c.cfg.Training && s.InTraining && s.TrainingStore.IsComplete():
		s.InTraining = false
		s.ClearLog()
		c.view.LogCleared()
		c.logger.Info("training finished")

	case c.cfg.Training && s.Ready:
		s.HeaderText = ""
		c.view.Header("")
		s.Ready = false
		s.InTraining = true
		c.logger.Info("training started", "lines", s.TrainingStore.Len())

	case c.cfg.Training && s.InTraining:
		c.show(s.TrainingStore)

	default:
		c.show(s.Primary)
	}
}

func (c *Controller) complete() {
	s := c.session
	switch c.cfg.Policy {
	case PolicyLoop:
		s.ClearLog()
		s.Primary.Reset()
		c.view.LogCleared()
		c.logger.Info("script complete, looping", "slot", s.Slot)
	case PolicyStop:
		c.view.Notice(c.cfg.FinishedNotice)
	}
}

// show appends the next line of store to the log.
func (c *Controller) show(store *script.Store) {
	line, err := store.Advance()
	if err != nil {
		// Every caller checks IsComplete first.
		panic(fmt.Sprintf("playback: advance on complete script: %v", err))
	}
	c.session.Log = append(c.session.Log, line)
	c.view.LineAppended(line)
}

func (c *Controller) selectPress(at time.Time) {
	if !c.session.Select.Press(at) {
		return
	}
	if !c.cfg.DualScript {
		c.logger.Debug("double select ignored, single script")
		return
	}
	c.switchScript()
}

// switchScript swaps to the other slot and reloads it from the start. The
// displayed log is left as it is.
func (c *Controller) switchScript() {
	s := c.session
	next, id, label := SlotB, c.cfg.ScriptB, c.cfg.LabelB
	if s.Slot == SlotB {
		next, id, label = SlotA, c.cfg.ScriptA, c.cfg.LabelA
	}

	lines, err := c.loader.LoadScript(id)
	if err != nil {
		c.logger.Error("switch script", "slot", next, "err", err)
		c.view.Notice(fmt.Sprintf("Could not load %s", label))
		return
	}
	s.Slot = next
	s.Primary = script.Load(lines)
	c.logger.Info("switched script", "slot", next, "id", id, "lines", len(lines))
	c.view.Notice(label)
}

func (c *Controller) toggleDisplay() {
	s := c.session
	s.Display = s.Display.Next(c.cfg.ModeCycle)
	c.view.DisplayChanged(s.Display, s.Visible)
}

func (c *Controller) toggleVisibility() {
	s := c.session
	s.Visible = !s.Visible
	c.view.DisplayChanged(s.Display, s.Visible)
}

func (c *Controller) toggleCapture() {
	s := c.session
	s.Capturing = !s.Capturing
	s.ClearLog()
	c.view.LogCleared()

	if s.Capturing {
		c.view.CaptureChanged(true)
		if !s.Paused {
			c.capture.Start()
		}
		c.logger.Info("capture on")
		return
	}

	c.leaveCapture()
	c.logger.Info("capture off")
}

// leaveCapture returns the session to script playback. Capturing must
// already be false and the log cleared.
func (c *Controller) leaveCapture() {
	s := c.session
	s.InterimText = ""
	c.view.Interim("")
	c.view.CaptureChanged(false)
	s.Primary.Reset()
	c.capture.Stop()
}

// captureFailed leaves capture mode after the recognizer gave up.
func (c *Controller) captureFailed(reason string) {
	s := c.session
	if !s.Capturing {
		return
	}
	s.Capturing = false
	s.ClearLog()
	c.view.LogCleared()
	c.leaveCapture()
	c.view.Notice(c.cfg.CaptureFailedNotice)
	c.logger.Warn("capture off after failure", "reason", reason)
}

func (c *Controller) interim(text string) {
	s := c.session
	if !s.Capturing {
		return
	}
	s.InterimText = text
	c.view.Interim(text)
}

func (c *Controller) final(text string) {
	s := c.session
	if !s.Capturing {
		c.logger.Debug("dropping late transcription", "text", text)
		return
	}
	s.InterimText = ""
	c.view.Interim("")
	if text == "" {
		return
	}
	s.Log = append(s.Log, text)
	c.view.LineAppended(text)
}

func (c *Controller) pause() {
	s := c.session
	if s.Paused {
		return
	}
	s.Paused = true
	c.capture.Stop()
}

func (c *Controller) resume() {
	s := c.session
	if !s.Paused {
		return
	}
	s.Paused = false
	if s.Capturing {
		c.capture.Start()
	}
}
