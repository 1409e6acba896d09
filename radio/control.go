package radio

import (
	"fmt"

	"github.com/wizardyesterday/radiodiags-go/demod"
)

// SetFrequency tunes the front-end, applying the configured warp
// correction. This is a front-end operation (spec.md §5): it is guarded by
// the same mutex the sample thread takes around its own front-end reads,
// not routed through the command queue.
func (s *State) SetFrequency(hz uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	corrected := warp(hz, s.warpPpm)
	if err := s.device.SetFrequency(corrected); err != nil {
		return fmt.Errorf("radio: set frequency: %w", err)
	}
	s.frequencyHz = hz
	return nil
}

// Frequency returns the last frequency requested (pre-warp-correction).
func (s *State) Frequency() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frequencyHz
}

// SetWarpPpm sets the frequency-correction factor applied by future
// SetFrequency calls.
func (s *State) SetWarpPpm(ppm int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warpPpm = ppm
}

func warp(hz uint64, ppm int32) uint64 {
	if ppm == 0 {
		return hz
	}
	correction := int64(hz) * int64(ppm) / 1_000_000
	corrected := int64(hz) + correction
	if corrected < 0 {
		return 0
	}
	return uint64(corrected)
}

// SetSampleRate records the front-end's complex sample rate. It does not
// itself retune any hardware clock (explicit non-goal: hardware tuning
// internals); it is bookkeeping a caller can read back via SampleRate.
func (s *State) SetSampleRate(sps uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bandwidthHz = sps
}

// SampleRate returns the recorded front-end sample rate.
func (s *State) SampleRate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bandwidthHz
}

// SetBandwidth records the requested IF bandwidth. Like SetSampleRate, this
// is bookkeeping only; wiring it to a real front-end's filter control is
// outside this package's scope.
func (s *State) SetBandwidth(hz uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bandwidthHz = hz
}

// Bandwidth returns the last bandwidth recorded.
func (s *State) Bandwidth() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bandwidthHz
}

// SetGainDb sets the front-end gain directly, bypassing the AGC loop. If
// the AGC is also enabled, its next tick will observe the hardware value
// diverging from its tracked gain and adopt it (spec.md §4.10 step 1),
// rather than immediately overriding this call.
func (s *State) SetGainDb(db int32, auto bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.device.SetGain(db, auto); err != nil {
		return fmt.Errorf("radio: set gain: %w", err)
	}
	return nil
}

// GainDb returns the front-end's last reported gain.
func (s *State) GainDb() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device.Gain()
}

// SetMode requests a demodulator mode change. The change is applied by the
// sample thread at the next block boundary (spec.md §5), not immediately.
func (s *State) SetMode(mode demod.Mode) {
	s.enqueue(func() {
		s.dispatcher.SetMode(mode)
		s.mu.Lock()
		s.mode = mode
		s.mu.Unlock()
	})
}

// Mode returns the mode the sample thread most recently applied. Because
// mode changes are asynchronous, this can briefly lag a just-issued
// SetMode.
func (s *State) Mode() demod.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetDemodGain adjusts a single chain's baseband gain.
func (s *State) SetDemodGain(mode demod.Mode, gain float64) {
	s.enqueue(func() {
		s.dispatcher.SetGainForMode(mode, gain)
	})
}

// Agc exposes the AGC loop's control surface. All methods are applied on
// the sample thread via the command queue, since the loop is owned
// exclusively by it.
type Agc struct{ state *State }

// Agc returns the AGC control surface for this radio.
func (s *State) Agc() Agc { return Agc{state: s} }

// Enable turns the AGC loop on.
func (a Agc) Enable() { a.state.enqueue(func() { a.state.agcLoop.Enable() }) }

// Disable turns the AGC loop off; gain stays at its last value.
func (a Agc) Disable() { a.state.enqueue(func() { a.state.agcLoop.Disable() }) }

// SetOperatingPoint sets the AGC's target signal level in dBFS.
func (a Agc) SetOperatingPoint(dbfs int32) {
	a.state.enqueue(func() { a.state.agcLoop.SetOperatingPoint(dbfs) })
}

// SetAlpha sets the AGC integrator's filter coefficient. A value outside
// (0.001,0.999) is rejected on the sample thread: the loop keeps its previous
// coefficient and the rejection is logged as a warning, not returned to the
// caller. Config.Validate applies the same (0.001,0.999) bound synchronously.
func (a Agc) SetAlpha(alpha float64) {
	a.state.enqueue(func() {
		if err := a.state.agcLoop.SetFilterCoefficient(alpha); err != nil {
			a.state.logger.Warn("agc: reject alpha", "err", err)
		}
	})
}

// SetDeadband sets the AGC's no-action window in dB.
func (a Agc) SetDeadband(db uint32) {
	a.state.enqueue(func() {
		if err := a.state.agcLoop.SetDeadband(db); err != nil {
			a.state.logger.Warn("agc: reject deadband", "err", err)
		}
	})
}

// SetBlanking sets the number of ticks suppressed after a gain change.
func (a Agc) SetBlanking(ticks uint32) {
	a.state.enqueue(func() {
		if err := a.state.agcLoop.SetBlankingLimit(ticks); err != nil {
			a.state.logger.Warn("agc: reject blanking limit", "err", err)
		}
	})
}

// SquelchControl exposes the squelch's control surface, applied via the
// command queue for the same ownership reason as Agc.
type SquelchControl struct{ state *State }

// Squelch returns the squelch control surface for this radio.
func (s *State) Squelch() SquelchControl { return SquelchControl{state: s} }

// SetThreshold sets the squelch's dBFS threshold.
func (sq SquelchControl) SetThreshold(dbfs int32) {
	sq.state.enqueue(func() { sq.state.squelch.SetThreshold(dbfs) })
}

// SetEnabled turns squelching on or off.
func (sq SquelchControl) SetEnabled(enabled bool) {
	sq.state.enqueue(func() { sq.state.squelch.SetEnabled(enabled) })
}
