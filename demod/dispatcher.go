package demod

import "fmt"

// Dispatcher owns one instance of every demodulator chain and routes IQ
// samples through whichever one is currently active, switching chains only
// at the caller's block boundaries so a chain never sees a partial block
// from before a mode change.
type Dispatcher struct {
	am   *AMChain
	fm   *FMChain
	wbfm *WBFMChain
	ssb  *SSBChain

	mode Mode
}

// NewDispatcher constructs a dispatcher with every chain instantiated and
// reset, starting in ModeNone.
func NewDispatcher() (*Dispatcher, error) {
	am, err := NewAMChain()
	if err != nil {
		return nil, fmt.Errorf("demod: %w", err)
	}
	fm, err := NewFMChain()
	if err != nil {
		return nil, fmt.Errorf("demod: %w", err)
	}
	wbfm, err := NewWBFMChain()
	if err != nil {
		return nil, fmt.Errorf("demod: %w", err)
	}
	ssb, err := NewSSBChain()
	if err != nil {
		return nil, fmt.Errorf("demod: %w", err)
	}

	return &Dispatcher{am: am, fm: fm, wbfm: wbfm, ssb: ssb, mode: ModeNone}, nil
}

// SetMode switches the active chain. The newly active chain is reset so it
// starts from a clean filter state rather than replaying stale history from
// whatever was last demodulated on it.
func (d *Dispatcher) SetMode(mode Mode) {
	if mode == d.mode {
		return
	}
	d.mode = mode

	switch mode {
	case ModeAM:
		d.am.Reset()
	case ModeFM:
		d.fm.Reset()
	case ModeWBFM:
		d.wbfm.Reset()
	case ModeSSBLower:
		d.ssb.SetSideband(false)
		d.ssb.Reset()
	case ModeSSBUpper:
		d.ssb.SetSideband(true)
		d.ssb.Reset()
	}
}

// Mode returns the currently active mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

// SetGain forwards the gain setting to every chain, so switching modes
// doesn't silently reset gain to each chain's own default.
func (d *Dispatcher) SetGain(gain float64) {
	d.am.SetGain(gain)
	d.fm.SetGain(gain)
	d.wbfm.SetGain(gain)
	d.ssb.SetGain(gain)
}

// SetGainForMode sets the demodulator gain of a single chain, identified by
// mode, leaving the others untouched. SSB's two sidebands share one chain,
// so either SSB mode addresses the same gain.
func (d *Dispatcher) SetGainForMode(mode Mode, gain float64) {
	switch mode {
	case ModeAM:
		d.am.SetGain(gain)
	case ModeFM:
		d.fm.SetGain(gain)
	case ModeWBFM:
		d.wbfm.SetGain(gain)
	case ModeSSBLower, ModeSSBUpper:
		d.ssb.SetGain(gain)
	}
}

// InputSampleRate returns the complex sample rate the active chain expects.
func (d *Dispatcher) InputSampleRate() uint32 {
	switch d.mode {
	case ModeAM:
		return d.am.InputSampleRate()
	case ModeFM:
		return d.fm.InputSampleRate()
	case ModeWBFM:
		return d.wbfm.InputSampleRate()
	case ModeSSBLower, ModeSSBUpper:
		return d.ssb.InputSampleRate()
	default:
		return 256000
	}
}

// Process routes one block of IQ samples through the active chain,
// appending any PCM output to out. In ModeNone it is a no-op.
func (d *Dispatcher) Process(iq []int8, out []int16) []int16 {
	switch d.mode {
	case ModeAM:
		return d.am.Process(iq, out)
	case ModeFM:
		return d.fm.Process(iq, out)
	case ModeWBFM:
		return d.wbfm.Process(iq, out)
	case ModeSSBLower, ModeSSBUpper:
		return d.ssb.Process(iq, out)
	default:
		return out
	}
}
