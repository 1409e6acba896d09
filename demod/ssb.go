package demod

import (
	"github.com/wizardyesterday/radiodiags-go/dsp"
)

// SSBChain is the Hilbert-pair single-sideband demodulator, grounded on
// SsbDemodulator: I and Q are independently decimated 256k -> 64k -> 16k ->
// 8k by three cascaded decimator stages, then I is pushed through a pure
// delay line while Q is pushed through a 31-tap Hilbert transformer; the two
// arms are summed to recover the lower sideband, or differenced to recover
// the upper sideband (open question resolved to I_delayed + Q_hilbert for
// LSB, confirmed against the reference demodulateSignal implementation).
type SSBChain struct {
	iStage1, iStage2, iStage3 *dsp.Decimator
	qStage1, qStage2, qStage3 *dsp.Decimator

	delay        *dsp.FirFilter
	phaseShifter *dsp.FirFilter
	dcRemoval    *dsp.IirFilter

	upperSideband bool
	gain          float64
}

// NewSSBChain constructs an SSB demodulator chain, defaulting to lower
// sideband demodulation.
func NewSSBChain() (*SSBChain, error) {
	mk := func(taps []float64, m int) (*dsp.Decimator, error) {
		return dsp.NewDecimator(taps, m)
	}

	iStage1, err := mk(dsp.SSBStage1DecimatorCoefficients, 4)
	if err != nil {
		return nil, err
	}
	qStage1, err := mk(dsp.SSBStage1DecimatorCoefficients, 4)
	if err != nil {
		return nil, err
	}
	iStage2, err := mk(dsp.SSBStage2DecimatorCoefficients, 4)
	if err != nil {
		return nil, err
	}
	qStage2, err := mk(dsp.SSBStage2DecimatorCoefficients, 4)
	if err != nil {
		return nil, err
	}
	iStage3, err := mk(dsp.SSBStage3DecimatorCoefficients, 2)
	if err != nil {
		return nil, err
	}
	qStage3, err := mk(dsp.SSBStage3DecimatorCoefficients, 2)
	if err != nil {
		return nil, err
	}

	return &SSBChain{
		iStage1: iStage1, iStage2: iStage2, iStage3: iStage3,
		qStage1: qStage1, qStage2: qStage2, qStage3: qStage3,
		delay:        dsp.NewFirFilter(dsp.SSBDelayCoefficients),
		phaseShifter: dsp.NewFirFilter(dsp.SSBPhaseShifterCoefficients),
		dcRemoval:    dsp.NewIirFilter(dsp.DCRemovalNumerator, dsp.DCRemovalDenominator),
		gain:         300,
	}, nil
}

// SetSideband selects upper (usb=true) or lower (usb=false) sideband
// demodulation.
func (c *SSBChain) SetSideband(usb bool) { c.upperSideband = usb }

// Reset clears all filter and decimator state.
func (c *SSBChain) Reset() {
	c.iStage1.Reset()
	c.iStage2.Reset()
	c.iStage3.Reset()
	c.qStage1.Reset()
	c.qStage2.Reset()
	c.qStage3.Reset()
	c.delay.Reset()
	c.phaseShifter.Reset()
	c.dcRemoval.Reset()
}

// SetGain sets the demodulator gain applied to the combined sideband signal.
func (c *SSBChain) SetGain(gain float64) { c.gain = gain }

// InputSampleRate returns 256000.
func (c *SSBChain) InputSampleRate() uint32 { return 256000 }

func (c *SSBChain) decimateI(x float64) (float64, bool) {
	y, ok := c.iStage1.Decimate(x)
	if !ok {
		return 0, false
	}
	y, ok = c.iStage2.Decimate(y)
	if !ok {
		return 0, false
	}
	return c.iStage3.Decimate(y)
}

func (c *SSBChain) decimateQ(x float64) (float64, bool) {
	y, ok := c.qStage1.Decimate(x)
	if !ok {
		return 0, false
	}
	y, ok = c.qStage2.Decimate(y)
	if !ok {
		return 0, false
	}
	return c.qStage3.Decimate(y)
}

// Process consumes interleaved IQ samples and appends recovered PCM audio
// to out.
func (c *SSBChain) Process(iq []int8, out []int16) []int16 {
	for k := 0; k+1 < len(iq); k += 2 {
		i, iOk := c.decimateI(float64(iq[k]))
		q, qOk := c.decimateQ(float64(iq[k+1]))
		if !iOk || !qOk {
			continue
		}

		iDelayed := c.delay.Filter(i)
		qShifted := c.phaseShifter.Filter(q)

		var combined float64
		if c.upperSideband {
			combined = iDelayed - qShifted
		} else {
			combined = iDelayed + qShifted
		}

		dcFree := c.dcRemoval.Filter(combined)
		out = append(out, clampToInt16(c.gain*dcFree))
	}

	return out
}
