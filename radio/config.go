package radio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wizardyesterday/radiodiags-go/demod"
)

// AgcConfig mirrors the Harris AGC loop's tunables (spec.md §4.10).
type AgcConfig struct {
	Enabled          bool    `yaml:"enabled"`
	OperatingPointDb int32   `yaml:"operating_point_db"`
	Alpha            float64 `yaml:"alpha"`
	DeadbandDb       uint32  `yaml:"deadband_db"`
	BlankingLimit    uint32  `yaml:"blanking_limit"`
}

// SquelchConfig mirrors the signal detector's tunables.
type SquelchConfig struct {
	Enabled     bool  `yaml:"enabled"`
	ThresholdDb int32 `yaml:"threshold_db"`
	WordLength  uint  `yaml:"word_length"`
}

// FilterOverride describes one replacement coefficient table, keyed by the
// name of a built-in table (e.g. "am_tuner_decimator"). Config.Validate
// checks each override's tap count against its factor; NewState does not
// apply overrides, and the demodulator chains always use the built-in
// tables of package dsp.
type FilterOverride struct {
	Name   string    `yaml:"name"`
	Taps   []float64 `yaml:"taps"`
	Factor int       `yaml:"factor"`
	// Kind is "decimator" or "interpolator"; it selects which invariant
	// Factor is checked against: N mod M == 0 for a decimator, L | N for
	// an interpolator.
	Kind string `yaml:"kind"`
}

// Config is the startup configuration for a radio.State, loaded from YAML.
type Config struct {
	SampleRate  uint32           `yaml:"sample_rate"`
	FrequencyHz uint64           `yaml:"frequency_hz"`
	Mode        string           `yaml:"mode"`
	GainDb      int32            `yaml:"gain_db"`
	AutoGain    bool             `yaml:"auto_gain"`
	DemodGain   float64          `yaml:"demod_gain"`
	Agc         AgcConfig        `yaml:"agc"`
	Squelch     SquelchConfig    `yaml:"squelch"`
	Overrides   []FilterOverride `yaml:"coefficient_overrides,omitempty"`
}

// DefaultConfig returns the reference tunables: centre-referenced AGC at
// -12 dBFS, a word length matching the int8 front-end, and squelch
// disabled with its threshold preset to -30 dBFS.
func DefaultConfig() Config {
	return Config{
		SampleRate: 256000,
		Mode:       "NONE",
		DemodGain:  300,
		Agc: AgcConfig{
			Enabled:          true,
			OperatingPointDb: -12,
			Alpha:            0.0625,
			DeadbandDb:       1,
			BlankingLimit:    1,
		},
		Squelch: SquelchConfig{
			Enabled:     false,
			ThresholdDb: -30,
			WordLength:  7,
		},
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("radio: read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("radio: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field against the construction invariants named in
// spec.md §3/§6/§7, returning a construction error rather than letting a
// bad value reach a dsp constructor as a panic.
func (c Config) Validate() error {
	if c.SampleRate == 0 {
		return fmt.Errorf("radio: sample_rate must be positive")
	}
	if _, err := ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Agc.OperatingPointDb < -60 || c.Agc.OperatingPointDb > 0 {
		return fmt.Errorf("radio: agc.operating_point_db %d out of range [-60,0]", c.Agc.OperatingPointDb)
	}
	if c.Agc.Alpha <= 0.001 || c.Agc.Alpha >= 0.999 {
		return fmt.Errorf("radio: agc.alpha %v out of range (0.001,0.999)", c.Agc.Alpha)
	}
	if c.Agc.DeadbandDb > 10 {
		return fmt.Errorf("radio: agc.deadband_db %d out of range [0,10]", c.Agc.DeadbandDb)
	}
	if c.Agc.BlankingLimit > 10 {
		return fmt.Errorf("radio: agc.blanking_limit %d out of range [0,10]", c.Agc.BlankingLimit)
	}
	if c.Squelch.WordLength == 0 || c.Squelch.WordLength > 31 {
		return fmt.Errorf("radio: squelch.word_length %d out of range [1,31]", c.Squelch.WordLength)
	}

	for _, ov := range c.Overrides {
		if err := ov.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (ov FilterOverride) validate() error {
	if ov.Factor <= 0 {
		return fmt.Errorf("radio: override %q: factor must be positive", ov.Name)
	}
	if len(ov.Taps) == 0 {
		return fmt.Errorf("radio: override %q: taps must be non-empty", ov.Name)
	}

	switch ov.Kind {
	case "decimator":
		if len(ov.Taps)%ov.Factor != 0 {
			return fmt.Errorf("radio: override %q: tap count %d is not a multiple of decimation factor %d", ov.Name, len(ov.Taps), ov.Factor)
		}
	case "interpolator":
		if len(ov.Taps)%ov.Factor != 0 {
			return fmt.Errorf("radio: override %q: prototype length %d is not a multiple of interpolation factor %d", ov.Name, len(ov.Taps), ov.Factor)
		}
	default:
		return fmt.Errorf("radio: override %q: unknown kind %q, want \"decimator\" or \"interpolator\"", ov.Name, ov.Kind)
	}

	return nil
}

// ParseMode maps a configuration string onto a demod.Mode.
func ParseMode(s string) (demod.Mode, error) {
	switch s {
	case "", "NONE":
		return demod.ModeNone, nil
	case "AM":
		return demod.ModeAM, nil
	case "FM":
		return demod.ModeFM, nil
	case "WBFM":
		return demod.ModeWBFM, nil
	case "SSB_LSB":
		return demod.ModeSSBLower, nil
	case "SSB_USB":
		return demod.ModeSSBUpper, nil
	default:
		return demod.ModeNone, fmt.Errorf("radio: unknown mode %q", s)
	}
}
