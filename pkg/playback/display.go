package playback

import (
	"fmt"
	"time"
)

// DisplayMode is the overlay layout the view should use.
type DisplayMode int

const (
	// DisplayInvisible hides the text panel.
	DisplayInvisible DisplayMode = iota
	// DisplayVuzix is a narrow panel centred on the right edge.
	DisplayVuzix
	// DisplayGlass is a wider panel in the top right corner.
	DisplayGlass
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayInvisible:
		return "invisible"
	case DisplayVuzix:
		return "vuzix"
	case DisplayGlass:
		return "glass"
	}
	return fmt.Sprintf("display(%d)", int(m))
}

// Next returns the mode after m in a cycle of the given length.
func (m DisplayMode) Next(cycle int) DisplayMode {
	return DisplayMode((int(m) + 1) % cycle)
}

// Debouncer detects double presses of one control.
//
// The reference time only moves on a single press, so a double press does
// not start a new window: presses at 0, 300 and 700 ms give one double
// press (at 300) and one single press (at 700, measured from 0).
type Debouncer struct {
	window time.Duration
	last   time.Time
}

// NewDebouncer returns a Debouncer whose window opens at start.
func NewDebouncer(window time.Duration, start time.Time) *Debouncer {
	return &Debouncer{window: window, last: start}
}

// Press records a press at t and reports whether it was a double press.
func (d *Debouncer) Press(t time.Time) bool {
	if t.Sub(d.last) <= d.window {
		return true
	}
	d.last = t
	return false
}

// Last returns the time of the most recent single press.
func (d *Debouncer) Last() time.Time { return d.last }
