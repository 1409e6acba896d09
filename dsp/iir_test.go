package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IirFilter_DcRemovalDecaysToZero(t *testing.T) {
	f := NewIirFilter(DCRemovalNumerator, DCRemovalDenominator)

	var last float64
	for i := 0; i < 500; i++ {
		last = f.Filter(1)
	}
	assert.InDelta(t, 0, last, 1e-3)
}

func Test_IirFilter_ResetClearsState(t *testing.T) {
	f := NewIirFilter(DCRemovalNumerator, DCRemovalDenominator)
	for i := 0; i < 10; i++ {
		f.Filter(1)
	}
	f.Reset()

	// Right after reset, feeding the first sample of a fresh DC step should
	// reproduce the filter's very first-ever response.
	fresh := NewIirFilter(DCRemovalNumerator, DCRemovalDenominator)
	assert.Equal(t, fresh.Filter(1), f.Filter(1))
}

func Test_IirFilter_PureFirWhenNoPoles(t *testing.T) {
	f := NewIirFilter([]float64{0.5, 0.5}, nil)
	ff := NewFirFilter([]float64{0.5, 0.5})

	for _, x := range []float64{1, -1, 2, 0, 3} {
		assert.Equal(t, ff.Filter(x), f.Filter(x))
	}
}
