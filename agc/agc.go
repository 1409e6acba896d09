// Package agc implements the Harris automatic gain control loop: a gain
// integrator that adjusts front-end RF gain to hold the measured signal
// level at a configured operating point, referenced to the antenna.
package agc

import (
	"fmt"
	"math"

	"github.com/wizardyesterday/radiodiags-go/dsp"
)

// GainControl is the hardware collaborator an AGC loop drives: something
// that can report and set a front end's current RF gain, in whole
// decibels, clamped to [0, MaxGainDb].
type GainControl interface {
	HardwareGainDb() uint32
	SetHardwareGainDb(gainDb uint32)
}

// MaxGainDb is the adjustable gain range used throughout this loop: 0 to
// 46dB, the IF amplifier's range in the reference receiver.
const MaxGainDb = 46

// Loop is the Harris AGC: "On the Design, Implementation, and Performance
// of a Microprocessor-Controlled AGC System for a Digital Receiver",
// adapted from radioDiags' AutomaticGainControl. Gain is adjusted by a
// leaky integrator of the error between the operating point and the
// measured signal level, with rail clamping, a deadband to suppress
// oscillation, and a blanking interval after every adjustment so the AGC
// doesn't chase its own transient.
type Loop struct {
	hw GainControl

	enabled          bool
	operatingPointDb int32
	alpha            float64
	deadbandDb       int32
	blankingLimit    uint32

	dbfs *dsp.DbfsCalculator

	gainDb         uint32
	filteredGainDb float64
	blankingCount  uint32
	gainAdjusted   bool

	lastSignalMagnitude     uint32
	lastNormalizedLevelInDb int32
}

// NewLoop constructs an AGC loop around the given gain control collaborator,
// measuring levels as wordLength-bit magnitudes.
func NewLoop(hw GainControl, wordLength uint, operatingPointDb int32) (*Loop, error) {
	c, err := dsp.NewDbfsCalculator(wordLength)
	if err != nil {
		return nil, fmt.Errorf("agc: %w", err)
	}

	return &Loop{
		hw:               hw,
		enabled:          true,
		operatingPointDb: operatingPointDb,
		alpha:            0.0625,
		deadbandDb:       1,
		blankingLimit:    1,
		dbfs:             c,
		gainDb:           hw.HardwareGainDb(),
		filteredGainDb:   float64(hw.HardwareGainDb()),
	}, nil
}

// SetOperatingPoint changes the target antenna-referenced signal level, in
// dBFS.
func (l *Loop) SetOperatingPoint(operatingPointDb int32) {
	l.operatingPointDb = operatingPointDb
}

// SetFilterCoefficient sets alpha, the integrator's time constant. Larger
// values converge faster but overshoot more. Valid range is (0.001,0.999),
// matching the reference implementation and radio.Config.Validate.
func (l *Loop) SetFilterCoefficient(alpha float64) error {
	if alpha <= 0.001 || alpha >= 0.999 {
		return fmt.Errorf("agc: filter coefficient must be in (0.001,0.999), got %v", alpha)
	}
	l.alpha = alpha
	return nil
}

// SetDeadband sets the deadband, in decibels: gain errors with absolute
// value at or below this are treated as zero, to prevent gain oscillation
// around the operating point. Valid range is [0,10], matching the
// reference implementation.
func (l *Loop) SetDeadband(deadbandDb uint32) error {
	if deadbandDb > 10 {
		return fmt.Errorf("agc: deadband must be in [0,10], got %d", deadbandDb)
	}
	l.deadbandDb = int32(deadbandDb)
	return nil
}

// SetBlankingLimit sets the number of measurements to ignore immediately
// after a gain adjustment, in [0,10]. Zero disables blanking.
func (l *Loop) SetBlankingLimit(limit uint32) error {
	if limit > 10 {
		return fmt.Errorf("agc: blanking limit must be in [0,10], got %d", limit)
	}
	l.blankingLimit = limit
	l.resetBlanking()
	return nil
}

// Enable turns the loop on.
func (l *Loop) Enable() { l.enabled = true }

// Disable turns the loop off; Run becomes a no-op until re-enabled.
func (l *Loop) Disable() { l.enabled = false }

// Enabled reports whether the loop is running.
func (l *Loop) Enabled() bool { return l.enabled }

func (l *Loop) resetBlanking() {
	l.blankingCount = 0
	l.gainAdjusted = false
}

// Run processes one signal magnitude measurement, possibly adjusting the
// front end's gain. It first reconciles the loop's idea of the current gain
// with whatever the hardware actually reports — something outside the loop
// (a manual gain command, a front-end reset) may have changed it — then, if
// not currently blanked, runs one iteration of the Harris integrator.
func (l *Loop) Run(signalMagnitude uint32) {
	if !l.enabled {
		return
	}

	if hwGain := l.hw.HardwareGainDb(); hwGain != l.gainDb {
		l.gainDb = hwGain
		l.filteredGainDb = float64(hwGain)
	}

	allowedToRun := true
	if l.gainAdjusted {
		if l.blankingCount < l.blankingLimit {
			l.blankingCount++
			allowedToRun = false
		} else {
			l.resetBlanking()
		}
	}

	if allowedToRun {
		l.runHarris(signalMagnitude)
	}
}

func (l *Loop) runHarris(signalMagnitude uint32) {
	l.lastSignalMagnitude = signalMagnitude

	signalDb := l.dbfs.MagnitudeToDbfs(signalMagnitude)
	l.lastNormalizedLevelInDb = signalDb - int32(l.gainDb)

	gainError := l.operatingPointDb - signalDb

	// Don't chase the rails: if we're already pinned at max (or min) gain
	// and the error would push further in that direction, treat it as no
	// error at all rather than let the integrator wind up uselessly.
	switch {
	case l.gainDb == MaxGainDb && gainError > 0:
		gainError = 0
	case l.gainDb == 0 && gainError < 0:
		gainError = 0
	}

	if int32(math.Abs(float64(gainError))) <= l.deadbandDb {
		gainError = 0
	}

	l.filteredGainDb += l.alpha * float64(gainError)

	if l.filteredGainDb > MaxGainDb {
		l.filteredGainDb = MaxGainDb
	} else if l.filteredGainDb < 0 {
		l.filteredGainDb = 0
	}

	l.gainDb = uint32(l.filteredGainDb)

	if gainError != 0 {
		l.hw.SetHardwareGainDb(l.gainDb)
		l.gainAdjusted = true
	}
}

// Snapshot is a point-in-time view of the loop's internal state, for
// diagnostics — the Go counterpart of the reference implementation's
// display routine.
type Snapshot struct {
	Enabled             bool
	OperatingPointDb    int32
	FilterCoefficient   float64
	DeadbandDb          int32
	BlankingLimit       uint32
	BlankingCount       uint32
	GainDb              uint32
	LastSignalMagnitude uint32
	NormalizedLevelDb   int32
}

// Snapshot returns the loop's current internal state.
func (l *Loop) Snapshot() Snapshot {
	return Snapshot{
		Enabled:             l.enabled,
		OperatingPointDb:    l.operatingPointDb,
		FilterCoefficient:   l.alpha,
		DeadbandDb:          l.deadbandDb,
		BlankingLimit:       l.blankingLimit,
		BlankingCount:       l.blankingCount,
		GainDb:              l.gainDb,
		LastSignalMagnitude: l.lastSignalMagnitude,
		NormalizedLevelDb:   l.lastNormalizedLevelInDb,
	}
}
