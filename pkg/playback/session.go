package playback

import (
	"fmt"
	"time"

	"prompter/pkg/script"
)

// Slot names one of the two alternate scripts.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

func (s Slot) String() string {
	if s == SlotB {
		return "B"
	}
	return "A"
}

// Session is the state of one prompting session. The host creates it and
// hands it to a Controller; after that only the playback loop touches it.
type Session struct {
	// Primary is the active script for Slot.
	Primary *script.Store
	Slot    Slot
	// TrainingStore is nil unless training is configured.
	TrainingStore *script.Store
	Ready         bool
	InTraining    bool

	// Log holds the lines shown so far, oldest first.
	Log []string

	Capturing   bool
	Paused      bool
	InterimText string
	HeaderText  string

	Display DisplayMode
	Visible bool

	Select *Debouncer
}

// NewSession loads the initial scripts for cfg. A load failure here is
// fatal to the session and is returned as a *script.LoadError.
func NewSession(cfg Config, loader script.Loader, now time.Time) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("playback config: %w", err)
	}

	lines, err := loader.LoadScript(cfg.ScriptA)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Primary: script.Load(lines),
		Slot:    SlotA,
		Visible: true,
		Select:  NewDebouncer(cfg.DoublePressWindow, now),
	}

	if cfg.Training {
		lines, err := loader.LoadScript(cfg.TrainingScript)
		if err != nil {
			return nil, err
		}
		s.TrainingStore = script.Load(lines)
		s.Ready = true
		s.HeaderText = cfg.TrainingHeader
	}
	return s, nil
}

// ClearLog empties the displayed log.
func (s *Session) ClearLog() {
	s.Log = nil
}
