package demod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SSBChain_DecimatesByThirtyTwo(t *testing.T) {
	c, err := NewSSBChain()
	assert.NoError(t, err)

	iq := make([]int8, 32*2*40)
	for k := 0; k < len(iq); k += 2 {
		iq[k] = 15
		iq[k+1] = 15
	}

	out := c.Process(iq, nil)
	assert.Equal(t, 40, len(out))
}

func Test_SSBChain_SidebandSelectionChangesOutput(t *testing.T) {
	iq := make([]int8, 32*2*20)
	for k := 0; k < len(iq); k += 2 {
		iq[k] = 20
		iq[k+1] = 5
	}

	lsb, err := NewSSBChain()
	assert.NoError(t, err)
	lsb.SetSideband(false)

	usb, err := NewSSBChain()
	assert.NoError(t, err)
	usb.SetSideband(true)

	lsbOut := lsb.Process(iq, nil)
	usbOut := usb.Process(iq, nil)

	assert.NotEqual(t, lsbOut, usbOut)
}
