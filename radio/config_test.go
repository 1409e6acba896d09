package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wizardyesterday/radiodiags-go/demod"
)

func Test_Config_DefaultValidates(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func Test_Config_RejectsBadMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "QUADRATURE_WHATEVER"
	assert.Error(t, cfg.Validate())
}

func Test_Config_RejectsOutOfRangeAgc(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agc.OperatingPointDb = -100
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Agc.Alpha = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Agc.DeadbandDb = 50
	assert.Error(t, cfg.Validate())
}

func Test_Config_RejectsBadWordLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Squelch.WordLength = 0
	assert.Error(t, cfg.Validate())
}

func Test_Config_OverrideValidatesDecimatorInvariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overrides = []FilterOverride{{
		Name: "bad", Kind: "decimator", Factor: 3, Taps: []float64{1, 2, 3, 4},
	}}
	assert.Error(t, cfg.Validate())

	cfg.Overrides[0].Taps = []float64{1, 2, 3, 4, 5, 6}
	assert.NoError(t, cfg.Validate())
}

func Test_Config_OverrideRejectsUnknownKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overrides = []FilterOverride{{Name: "x", Kind: "sprocket", Factor: 2, Taps: []float64{1, 2}}}
	assert.Error(t, cfg.Validate())
}

func Test_ParseMode_RoundTrips(t *testing.T) {
	cases := map[string]demod.Mode{
		"":        demod.ModeNone,
		"NONE":    demod.ModeNone,
		"AM":      demod.ModeAM,
		"FM":      demod.ModeFM,
		"WBFM":    demod.ModeWBFM,
		"SSB_LSB": demod.ModeSSBLower,
		"SSB_USB": demod.ModeSSBUpper,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("bogus")
	assert.Error(t, err)
}
