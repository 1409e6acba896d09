package demod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AMChain_DecimatesByThirtyTwo(t *testing.T) {
	c, err := NewAMChain()
	assert.NoError(t, err)

	iq := make([]int8, 32*2*64)
	for k := 0; k < len(iq); k += 2 {
		iq[k] = 20
		iq[k+1] = 0
	}

	out := c.Process(iq, nil)
	assert.Equal(t, 64, len(out))
}

func Test_AMChain_ResetIsIdempotent(t *testing.T) {
	c, err := NewAMChain()
	assert.NoError(t, err)

	iq := make([]int8, 32*2*8)
	for k := 0; k < len(iq); k += 2 {
		iq[k], iq[k+1] = 30, 10
	}

	c.Process(iq, nil)
	c.Reset()
	c.Reset()

	c2, err := NewAMChain()
	assert.NoError(t, err)

	out1 := c.Process(iq, nil)
	out2 := c2.Process(iq, nil)
	assert.Equal(t, out2, out1)
}

func Test_AMChain_InputSampleRate(t *testing.T) {
	c, err := NewAMChain()
	assert.NoError(t, err)
	assert.Equal(t, uint32(256000), c.InputSampleRate())
}
