// Package config loads the prompter YAML configuration.
package config

import (
	"time"

	"prompter/pkg/playback"
	"prompter/pkg/script"
)

// Config is the top-level configuration file.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// LogFile is where the tray app writes its log.
	LogFile  string              `yaml:"log_file"`
	Variant  string              `yaml:"variant"`
	Playback PlaybackConfig      `yaml:"playback"`
	Scripts  ScriptsConfig       `yaml:"scripts"`
	Speech   SpeechConfig        `yaml:"speech"`
	Keys     map[string][]string `yaml:"keys"`
	Output   OutputConfig        `yaml:"output"`
}

// PlaybackConfig overrides fields of the chosen variant. Unset fields keep
// the variant's value.
type PlaybackConfig struct {
	Policy                 string        `yaml:"policy"`
	DualScript             *bool         `yaml:"dual_script"`
	Training               *bool         `yaml:"training"`
	ModeCycle              int           `yaml:"mode_cycle"`
	IgnoreAdvanceInCapture *bool         `yaml:"ignore_advance_in_capture"`
	DoublePressWindow      time.Duration `yaml:"double_press_window"`
	FinishedNotice         string        `yaml:"finished_notice"`
	TrainingHeader         string        `yaml:"training_header"`
}

// ScriptRef points at one script. With no Path the built-in script named
// by ID is used.
type ScriptRef struct {
	ID    string `yaml:"id"`
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
}

// ScriptsConfig names the two alternate scripts and the training script.
type ScriptsConfig struct {
	A        ScriptRef `yaml:"a"`
	B        ScriptRef `yaml:"b"`
	Training ScriptRef `yaml:"training"`
}

// SpeechConfig configures live transcription.
type SpeechConfig struct {
	Enabled         bool    `yaml:"enabled"`
	Language        string  `yaml:"language"`
	SampleRate      int     `yaml:"sample_rate"`
	Gain            float64 `yaml:"gain"`
	Model           string  `yaml:"model"`
	APIKey          string  `yaml:"api_key"`
	CredentialsFile string  `yaml:"credentials_file"`
}

// OutputConfig configures extra outputs.
type OutputConfig struct {
	// TypeLines types each shown line into the focused window.
	TypeLines bool `yaml:"type_lines"`
}

// Default returns the configuration used when no file is given: the
// assembly variant with the built-in scripts.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		LogFile:  "/tmp/prompter.log",
		Variant:  playback.VariantAssembly,
		Scripts: ScriptsConfig{
			A:        ScriptRef{ID: script.AssemblyA, Label: "Assembly A"},
			B:        ScriptRef{ID: script.AssemblyB, Label: "Assembly B"},
			Training: ScriptRef{ID: script.Training},
		},
		Speech: SpeechConfig{
			Enabled:    true,
			Language:   "en-US",
			SampleRate: 16000,
			Gain:       32,
		},
		Keys: DefaultKeys(),
	}
}

// DefaultKeys binds the arrow keys and a few letters, mirroring a
// head-mounted display's touchpad and buttons. The hooks are global, so
// every binding is a chord with ctrl+alt.
func DefaultKeys() map[string][]string {
	return map[string][]string{
		playback.Advance.String():          {"right", "ctrl", "alt"},
		playback.Select.String():           {"enter", "ctrl", "alt"},
		playback.ToggleCapture.String():    {"left", "ctrl", "alt"},
		playback.ToggleDisplay.String():    {"b", "ctrl", "alt"},
		playback.ToggleVisibility.String(): {"v", "ctrl", "alt"},
	}
}
