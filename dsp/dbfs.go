package dsp

import (
	"fmt"
	"math"
)

const dbfsLookupMax = 256

// DbfsCalculator converts a linear signal magnitude into decibels below
// full scale (dBFS) using a scaled lookup table, following the approach in
// radioDiags' dbfsCalculator: a table covering magnitudes [0,256] is built
// once, and larger magnitudes are folded into range by repeated halving,
// each halving adding 6dB of overhead.
type DbfsCalculator struct {
	fullScale   uint32
	fullScaleDb int32
	table       [dbfsLookupMax + 1]int32
}

// NewDbfsCalculator constructs a calculator for a signal word length of w
// bits, 1 <= w <= 31.
func NewDbfsCalculator(w uint) (*DbfsCalculator, error) {
	if w < 1 || w > 31 {
		return nil, fmt.Errorf("dsp: dBFS word length must be in [1,31], got %d", w)
	}

	c := &DbfsCalculator{
		fullScale: (uint32(1) << w) - 1,
	}
	c.fullScaleDb = int32(math.Floor(20 * math.Log10(float64(c.fullScale))))

	for i := 1; i <= dbfsLookupMax; i++ {
		c.table[i] = int32(math.Floor(20 * math.Log10(float64(i))))
	}
	c.table[0] = c.table[1]

	return c, nil
}

// MagnitudeToDbfs converts a linear magnitude to dBFS, always <= 0 for
// legal magnitudes.
func (c *DbfsCalculator) MagnitudeToDbfs(m uint32) int32 {
	if m > c.fullScale {
		m = c.fullScale
	}

	var overhead int32
	for m > dbfsLookupMax {
		m /= 2
		overhead += 6
	}

	return c.table[m] + overhead - c.fullScaleDb
}
