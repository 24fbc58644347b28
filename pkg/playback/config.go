package playback

import (
	"fmt"
	"sort"
	"time"

	"prompter/pkg/script"
)

// CompletePolicy decides what Advance does once the script has run out.
type CompletePolicy int

const (
	// PolicyLoop clears the log and rewinds the script.
	PolicyLoop CompletePolicy = iota
	// PolicyStop leaves everything alone and shows a notice.
	PolicyStop
)

func (p CompletePolicy) String() string {
	switch p {
	case PolicyLoop:
		return "loop"
	case PolicyStop:
		return "stop"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy parses "loop" or "stop".
func ParsePolicy(s string) (CompletePolicy, error) {
	switch s {
	case "loop":
		return PolicyLoop, nil
	case "stop":
		return PolicyStop, nil
	}
	return 0, fmt.Errorf("unknown complete policy %q", s)
}

// DefaultDoublePressWindow is the longest gap between two Select presses
// that still counts as a double press.
const DefaultDoublePressWindow = 500 * time.Millisecond

// Config selects one coherent control scheme for a Controller.
type Config struct {
	Policy CompletePolicy
	// DualScript lets a double Select swap between ScriptA and ScriptB.
	DualScript bool
	// Training plays TrainingScript, gated by a ready step, before the
	// primary script.
	Training bool
	// ModeCycle is the number of display modes ToggleDisplay steps through
	// (2 or 3).
	ModeCycle int
	// IgnoreAdvanceInCapture swallows Advance while transcribing.
	IgnoreAdvanceInCapture bool

	DoublePressWindow time.Duration

	ScriptA        string
	ScriptB        string
	TrainingScript string
	LabelA         string
	LabelB         string

	FinishedNotice      string
	TrainingHeader      string
	CaptureFailedNotice string
}

// Variant names accepted by Preset.
const (
	VariantAssembly   = "assembly"
	VariantStop       = "stop"
	VariantTraining   = "training"
	VariantVisibility = "visibility"
)

// DefaultConfig is the assembly variant: two scripts, loop at the end,
// live transcription and a three-step display cycle.
func DefaultConfig() Config {
	return Config{
		Policy:                 PolicyLoop,
		DualScript:             true,
		ModeCycle:              3,
		IgnoreAdvanceInCapture: true,
		DoublePressWindow:      DefaultDoublePressWindow,
		ScriptA:                script.AssemblyA,
		ScriptB:                script.AssemblyB,
		TrainingScript:         script.Training,
		LabelA:                 "Assembly A",
		LabelB:                 "Assembly B",
		FinishedNotice:         "Script finished",
		TrainingHeader:         "Press next to begin training",
		CaptureFailedNotice:    "Speech recognition stopped",
	}
}

var presets = map[string]func(*Config){
	VariantAssembly: func(*Config) {},
	VariantStop: func(c *Config) {
		c.Policy = PolicyStop
		c.DualScript = false
	},
	VariantTraining: func(c *Config) {
		c.Policy = PolicyStop
		c.DualScript = false
		c.Training = true
	},
	VariantVisibility: func(c *Config) {
		c.ModeCycle = 2
	},
}

// Preset returns DefaultConfig adjusted for the named variant.
func Preset(name string) (Config, error) {
	apply, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown variant %q (known: %v)", name, Variants())
	}
	cfg := DefaultConfig()
	apply(&cfg)
	return cfg, nil
}

// Variants lists the preset names in sorted order.
func Variants() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate reports settings the controller cannot run with.
func (c Config) Validate() error {
	if c.ModeCycle != 2 && c.ModeCycle != 3 {
		return fmt.Errorf("mode cycle must be 2 or 3, got %d", c.ModeCycle)
	}
	if c.DoublePressWindow <= 0 {
		return fmt.Errorf("double press window must be positive, got %s", c.DoublePressWindow)
	}
	if c.ScriptA == "" {
		return fmt.Errorf("script A id is required")
	}
	if c.DualScript && c.ScriptB == "" {
		return fmt.Errorf("script B id is required for dual script playback")
	}
	if c.Training && c.TrainingScript == "" {
		return fmt.Errorf("training script id is required when training is enabled")
	}
	return nil
}
