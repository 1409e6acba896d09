package dsp

import "fmt"

// Decimator is a commutated FIR decimator: M consecutive input samples are
// staged into a pipeline and a single convolution is evaluated once every M
// inputs, yielding decimated-rate computation without zero-stuffing. The tap
// count must be a positive multiple of the decimation factor.
type Decimator struct {
	fir *FirFilter
	m   int

	stage    []float64
	stageIdx int
}

// NewDecimator constructs a decimator with the given taps and decimation
// factor m. It returns an error if len(taps) is not a positive multiple of
// m, per the filter-length / decimation-factor construction invariant.
func NewDecimator(taps []float64, m int) (*Decimator, error) {
	if m <= 0 {
		return nil, fmt.Errorf("dsp: decimation factor must be positive, got %d", m)
	}
	if len(taps) == 0 || len(taps)%m != 0 {
		return nil, fmt.Errorf("dsp: filter length %d is not a multiple of decimation factor %d", len(taps), m)
	}

	d := &Decimator{
		fir:   NewFirFilter(taps),
		m:     m,
		stage: make([]float64, m),
	}
	d.Reset()

	return d, nil
}

// Reset clears the FIR state and the staging buffer.
func (d *Decimator) Reset() {
	d.fir.Reset()
	for k := range d.stage {
		d.stage[k] = 0
	}
	d.stageIdx = 0
}

// Decimate stages one input sample. It returns (output, true) once every M
// samples, and (0, false) otherwise.
func (d *Decimator) Decimate(x float64) (float64, bool) {
	d.stage[d.stageIdx] = x
	d.stageIdx++

	if d.stageIdx != d.m {
		return 0, false
	}
	d.stageIdx = 0

	for k := 0; k < d.m-1; k++ {
		d.fir.shiftIn(d.stage[k])
	}
	y := d.fir.Filter(d.stage[d.m-1])

	return y, true
}
