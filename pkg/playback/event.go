package playback

import (
	"fmt"
	"time"
)

// Kind identifies an input to the controller.
type Kind int

const (
	// Advance shows the next line.
	Advance Kind = iota + 1
	// Select is a press of the switch control. Two presses inside the
	// double-press window swap scripts.
	Select
	// Switch swaps scripts directly, as a double Select does.
	Switch
	// ToggleDisplay steps the display mode cycle.
	ToggleDisplay
	// ToggleVisibility shows or hides the overlay.
	ToggleVisibility
	// ToggleCapture switches between scripted playback and live transcription.
	ToggleCapture
	// Interim carries an in-progress transcription.
	Interim
	// Final carries a committed transcription.
	Final
	// CaptureFailed reports that speech capture stopped on its own. Text
	// carries the error.
	CaptureFailed
	// Pause and Resume follow the host losing and regaining the foreground.
	Pause
	Resume

	call
)

var kindNames = map[Kind]string{
	Advance:          "advance",
	Select:           "select",
	Switch:           "switch",
	ToggleDisplay:    "toggle_display",
	ToggleVisibility: "toggle_visibility",
	ToggleCapture:    "toggle_capture",
	Interim:          "interim",
	Final:            "final",
	CaptureFailed:    "capture_failed",
	Pause:            "pause",
	Resume:           "resume",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the Kind named s, as used in key binding config.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", s)
}

// Event is one input delivered to the controller.
type Event struct {
	Kind Kind
	// Text is the transcription for Interim and Final.
	Text string
	// At is when the input happened. Zero means "when dispatched".
	At time.Time

	fn func()
}

// Key returns a key-press event stamped with the current time.
func Key(k Kind) Event {
	return Event{Kind: k, At: time.Now()}
}

// InterimText returns an Interim event.
func InterimText(text string) Event {
	return Event{Kind: Interim, Text: text}
}

// FinalText returns a Final event.
func FinalText(text string) Event {
	return Event{Kind: Final, Text: text}
}
