package demod

import (
	"github.com/wizardyesterday/radiodiags-go/dsp"
)

// AMChain is the envelope-detection AM demodulator, grounded on
// AmDemodulator: the complex sample rate is reduced from 256kS/s to
// 64kS/s by a pair of independent decimators on I and Q, the envelope is
// estimated with Robertson's magnitude approximation, DC is removed with a
// single-pole IIR highpass, and the result is decimated again (64k -> 16k
// -> 8k) to the PCM rate.
type AMChain struct {
	iTuner *dsp.Decimator
	qTuner *dsp.Decimator

	postDemod *dsp.Decimator
	audio     *dsp.Decimator

	dcRemoval *dsp.IirFilter

	gain float64
}

// NewAMChain constructs an AM demodulator chain.
func NewAMChain() (*AMChain, error) {
	iTuner, err := dsp.NewDecimator(dsp.AMTunerDecimatorCoefficients, 4)
	if err != nil {
		return nil, err
	}
	qTuner, err := dsp.NewDecimator(dsp.AMTunerDecimatorCoefficients, 4)
	if err != nil {
		return nil, err
	}
	postDemod, err := dsp.NewDecimator(dsp.AMPostDemodDecimatorCoefficients, 4)
	if err != nil {
		return nil, err
	}
	audio, err := dsp.NewDecimator(dsp.AMAudioDecimatorCoefficients, 2)
	if err != nil {
		return nil, err
	}

	return &AMChain{
		iTuner:    iTuner,
		qTuner:    qTuner,
		postDemod: postDemod,
		audio:     audio,
		dcRemoval: dsp.NewIirFilter(dsp.DCRemovalNumerator, dsp.DCRemovalDenominator),
		gain:      300,
	}, nil
}

// Reset clears all filter and decimator state.
func (c *AMChain) Reset() {
	c.iTuner.Reset()
	c.qTuner.Reset()
	c.postDemod.Reset()
	c.audio.Reset()
	c.dcRemoval.Reset()
}

// SetGain sets the demodulator gain applied after envelope detection.
func (c *AMChain) SetGain(gain float64) { c.gain = gain }

// InputSampleRate returns 256000.
func (c *AMChain) InputSampleRate() uint32 { return 256000 }

// Process consumes interleaved IQ samples and appends recovered PCM audio
// to out.
func (c *AMChain) Process(iq []int8, out []int16) []int16 {
	for k := 0; k+1 < len(iq); k += 2 {
		i, iOk := c.iTuner.Decimate(float64(iq[k]))
		q, qOk := c.qTuner.Decimate(float64(iq[k+1]))
		if !iOk || !qOk {
			continue
		}

		envelope := dsp.Magnitude(i, q)
		dcFree := c.dcRemoval.Filter(envelope)
		demodulated := c.gain * dcFree

		stage1, ok := c.postDemod.Decimate(demodulated)
		if !ok {
			continue
		}
		pcm, ok := c.audio.Decimate(stage1)
		if !ok {
			continue
		}

		out = append(out, clampToInt16(pcm))
	}

	return out
}
