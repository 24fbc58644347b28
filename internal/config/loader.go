package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"prompter/pkg/playback"
	"prompter/pkg/script"
)

// Load reads the YAML configuration file at path on top of Default and
// returns a validated Config.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over Default and validates it.
// A keys section replaces the default bindings as a whole.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	cfg.Keys = nil
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if cfg.Keys == nil {
		cfg.Keys = DefaultKeys()
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv loads the file named by PROMPTER_CONFIG, or Default when it is
// unset, then applies environment overrides.
func FromEnv() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("PROMPTER_CONFIG"); path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv("PROMPTER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PROMPTER_VARIANT"); v != "" {
		cfg.Variant = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" && cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = v
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if _, err := cfg.PlaybackConfig(); err != nil {
		errs = append(errs, err)
	}
	if _, err := cfg.KeyBindings(); err != nil {
		errs = append(errs, err)
	}

	if cfg.Speech.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("speech.sample_rate %d must not be negative", cfg.Speech.SampleRate))
	}
	if cfg.Speech.Gain < 0 {
		errs = append(errs, fmt.Errorf("speech.gain %.2f must not be negative", cfg.Speech.Gain))
	}

	return errors.Join(errs...)
}

// PlaybackConfig resolves the variant preset and applies the overrides.
func (c *Config) PlaybackConfig() (playback.Config, error) {
	variant := c.Variant
	if variant == "" {
		variant = playback.VariantAssembly
	}
	pc, err := playback.Preset(variant)
	if err != nil {
		return playback.Config{}, fmt.Errorf("variant: %w", err)
	}

	o := c.Playback
	if o.Policy != "" {
		if pc.Policy, err = playback.ParsePolicy(o.Policy); err != nil {
			return playback.Config{}, fmt.Errorf("playback.policy: %w", err)
		}
	}
	if o.DualScript != nil {
		pc.DualScript = *o.DualScript
	}
	if o.Training != nil {
		pc.Training = *o.Training
	}
	if o.ModeCycle != 0 {
		pc.ModeCycle = o.ModeCycle
	}
	if o.IgnoreAdvanceInCapture != nil {
		pc.IgnoreAdvanceInCapture = *o.IgnoreAdvanceInCapture
	}
	if o.DoublePressWindow != 0 {
		pc.DoublePressWindow = o.DoublePressWindow
	}
	if o.FinishedNotice != "" {
		pc.FinishedNotice = o.FinishedNotice
	}
	if o.TrainingHeader != "" {
		pc.TrainingHeader = o.TrainingHeader
	}

	s := c.Scripts
	pc.ScriptA = scriptID(s.A, "a")
	pc.ScriptB = scriptID(s.B, "b")
	pc.TrainingScript = scriptID(s.Training, "training")
	if s.A.Label != "" {
		pc.LabelA = s.A.Label
	}
	if s.B.Label != "" {
		pc.LabelB = s.B.Label
	}

	if err := pc.Validate(); err != nil {
		return playback.Config{}, fmt.Errorf("playback: %w", err)
	}
	return pc, nil
}

// scriptID is the id a script is loaded under. A script given only by path
// is keyed by its slot name.
func scriptID(ref ScriptRef, slot string) string {
	if ref.ID != "" {
		return ref.ID
	}
	if ref.Path != "" {
		return slot
	}
	return ""
}

// Loader returns a script loader that reads configured paths and falls back
// to the built-in scripts.
func (c *Config) Loader() script.Loader {
	paths := make(map[string]string)
	for _, pair := range []struct {
		ref  ScriptRef
		slot string
	}{
		{c.Scripts.A, "a"},
		{c.Scripts.B, "b"},
		{c.Scripts.Training, "training"},
	} {
		if pair.ref.Path != "" {
			paths[scriptID(pair.ref, pair.slot)] = pair.ref.Path
		}
	}
	return &script.FileLoader{Paths: paths, Fallback: script.Builtin()}
}

// KeyBindings parses the keys section into event kinds.
func (c *Config) KeyBindings() (map[playback.Kind][]string, error) {
	bindings := make(map[playback.Kind][]string, len(c.Keys))
	for name, keys := range c.Keys {
		kind, err := playback.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		switch kind {
		case playback.Interim, playback.Final, playback.CaptureFailed:
			return nil, fmt.Errorf("keys: %q cannot be bound to a key", name)
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("keys.%s: at least one key is required", name)
		}
		bindings[kind] = keys
	}
	return bindings, nil
}
