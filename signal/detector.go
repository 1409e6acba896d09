// Package signal implements level-based signal presence detection: a block
// detector that converts averaged magnitude into a present/absent decision,
// and a tracker that turns a raw per-block decision into a
// start/present/end event stream.
package signal

import (
	"fmt"

	"github.com/wizardyesterday/radiodiags-go/dsp"
)

// Detector estimates signal level over a block of complex samples and
// compares it against a threshold, referenced to the antenna by subtracting
// the current front-end gain from the measured level. This mirrors
// radioDiags' SignalDetector: magnitude is block-averaged, converted to
// dBFS, and the current RF gain is subtracted so the threshold is meaningful
// regardless of how much gain the front end is currently applying.
type Detector struct {
	dbfs        *dsp.DbfsCalculator
	thresholdDb int32
	gainDb      int32
	magnitude   uint32 // last raw block-mean magnitude, pre-dBFS, pre-gain-reference
}

// NewDetector constructs a detector for signal words of the given bit width,
// with an initial threshold expressed in antenna-referred dBFS.
func NewDetector(wordLength uint, thresholdDb int32) (*Detector, error) {
	c, err := dsp.NewDbfsCalculator(wordLength)
	if err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}

	return &Detector{
		dbfs:        c,
		thresholdDb: thresholdDb,
	}, nil
}

// SetThreshold updates the detection threshold, in antenna-referred dBFS.
func (d *Detector) SetThreshold(thresholdDb int32) {
	d.thresholdDb = thresholdDb
}

// Threshold returns the current detection threshold.
func (d *Detector) Threshold() int32 {
	return d.thresholdDb
}

// SetGain records the front end's current RF gain in dB, used to reference
// measured levels back to the antenna.
func (d *Detector) SetGain(gainDb int32) {
	d.gainDb = gainDb
}

// Detect reduces a block of complex magnitude samples to a single
// block-averaged level, converts it to antenna-referred dBFS, and reports
// whether that level meets or exceeds the threshold. It returns the decision
// and the measured level so callers (e.g. diagnostics) can inspect it. The
// raw, pre-dBFS mean is retained and available via SignalMagnitude.
func (d *Detector) Detect(magnitudes []uint32) (present bool, levelDb int32) {
	if len(magnitudes) == 0 {
		d.magnitude = 0
		return false, d.dbfs.MagnitudeToDbfs(0) - d.gainDb
	}

	var sum uint64
	for _, m := range magnitudes {
		sum += uint64(m)
	}
	mean := uint32(sum / uint64(len(magnitudes)))
	d.magnitude = mean

	levelDb = d.dbfs.MagnitudeToDbfs(mean) - d.gainDb
	present = levelDb >= d.thresholdDb

	return present, levelDb
}

// SignalMagnitude returns the last raw block-mean magnitude computed by
// Detect, for display purposes — distinct from the dBFS, gain-referenced
// level Detect itself uses for the present/absent decision.
func (d *Detector) SignalMagnitude() uint32 {
	return d.magnitude
}
