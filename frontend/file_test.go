package frontend

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FileDevice_ReadsExactBlocks(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50, 60}
	dev := NewFileDevice(bytes.NewReader(data), 256000)

	buf := make([]int8, 4)
	n, err := dev.ReadIQ(context.Background(), buf)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int8{10, 20, 30, 40}, buf)
}

func Test_FileDevice_ReturnsEOFWhenExhausted(t *testing.T) {
	dev := NewFileDevice(bytes.NewReader([]byte{1, 2}), 256000)

	buf := make([]int8, 4)
	_, err := dev.ReadIQ(context.Background(), buf)
	assert.ErrorIs(t, err, io.EOF)
}

func Test_FileDevice_SetFrequencyAndGainAreReadBack(t *testing.T) {
	dev := NewFileDevice(bytes.NewReader(nil), 256000)
	assert.NoError(t, dev.SetFrequency(14313000))
	assert.Equal(t, uint64(14313000), dev.Frequency())

	assert.NoError(t, dev.SetGain(20, false))
	assert.Equal(t, int32(20), dev.Gain())
}
