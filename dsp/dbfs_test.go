package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_DbfsCalculator_RejectsBadWordLength(t *testing.T) {
	_, err := NewDbfsCalculator(0)
	assert.Error(t, err)

	_, err = NewDbfsCalculator(32)
	assert.Error(t, err)
}

func Test_DbfsCalculator_KnownValues(t *testing.T) {
	c, err := NewDbfsCalculator(7)
	assert.NoError(t, err)

	assert.Equal(t, int32(0), c.MagnitudeToDbfs(127))
	assert.Equal(t, int32(-6), c.MagnitudeToDbfs(64))
	assert.Equal(t, int32(-42), c.MagnitudeToDbfs(1))
	assert.Equal(t, int32(-42), c.MagnitudeToDbfs(0))
}

func Test_DbfsCalculator_MonotonicInMagnitude(t *testing.T) {
	c, err := NewDbfsCalculator(12)
	assert.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Uint32Range(0, 1<<12-1).Draw(t, "a")
		b := rapid.Uint32Range(0, 1<<12-1).Draw(t, "b")

		if a > b {
			a, b = b, a
		}

		assert.LessOrEqual(t, c.MagnitudeToDbfs(a), c.MagnitudeToDbfs(b))
	})
}

func Test_DbfsCalculator_ClipsAboveFullScale(t *testing.T) {
	c, err := NewDbfsCalculator(7)
	assert.NoError(t, err)

	assert.Equal(t, c.MagnitudeToDbfs(127), c.MagnitudeToDbfs(9999))
}
