package dsp

import "fmt"

// DecimatorQ15 is the fixed-point counterpart of Decimator, built around
// FirFilterQ15 the same way Decimator is built around FirFilter.
type DecimatorQ15 struct {
	fir *FirFilterQ15
	m   int

	stage    []int16
	stageIdx int
}

// NewDecimatorQ15 constructs a Q15 decimator from floating-point prototype
// taps and a decimation factor m.
func NewDecimatorQ15(taps []float64, m int) (*DecimatorQ15, error) {
	if m <= 0 {
		return nil, fmt.Errorf("dsp: decimation factor must be positive, got %d", m)
	}
	if len(taps) == 0 || len(taps)%m != 0 {
		return nil, fmt.Errorf("dsp: filter length %d is not a multiple of decimation factor %d", len(taps), m)
	}

	d := &DecimatorQ15{
		fir:   NewFirFilterQ15(taps),
		m:     m,
		stage: make([]int16, m),
	}
	d.Reset()

	return d, nil
}

// Reset clears the FIR state and the staging buffer.
func (d *DecimatorQ15) Reset() {
	d.fir.Reset()
	for k := range d.stage {
		d.stage[k] = 0
	}
	d.stageIdx = 0
}

// Decimate stages one Q15 input sample, returning (output, true) once every
// M samples.
func (d *DecimatorQ15) Decimate(x int16) (int16, bool) {
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
