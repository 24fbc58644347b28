package playback

import (
	"context"
	"errors"
)

// ErrStopped is returned when posting to a Loop that is no longer running.
var ErrStopped = errors.New("playback: loop stopped")

// Loop owns a Controller and applies events to it one at a time on the
// goroutine that calls Run. Post and Call are safe from any goroutine.
type Loop struct {
	ctrl   *Controller
	events chan Event
	done   chan struct{}
}

// NewLoop returns a Loop with room for buffer pending events.
func NewLoop(ctrl *Controller, buffer int) *Loop {
	return &Loop{
		ctrl:   ctrl,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// Run dispatches events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.ctrl.Sync()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			l.ctrl.Dispatch(ev)
		}
	}
}

// Post queues ev. It blocks while the queue is full and fails once Run has
// returned.
func (l *Loop) Post(ev Event) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.events <- ev:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Call runs fn on the loop goroutine with the session and waits for it to
// return. Everything posted before Call has been applied by then.
func (l *Loop) Call(ctx context.Context, fn func(*Session)) error {
	ran := make(chan struct{})
	ev := Event{Kind: call, fn: func() {
		defer close(ran)
		fn(l.ctrl.session)
	}}
	select {
	case l.events <- ev:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
