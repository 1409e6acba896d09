package frontend

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_TunerPairedDevice_SamplesFromSourceTunesViaTuner(t *testing.T) {
	source := NewFileDevice(bytes.NewReader([]byte{1, 2, 3, 4}), 256000)
	tuner := NewFileDevice(bytes.NewReader(nil), 256000)
	dev := NewTunerPairedDevice(source, tuner)

	buf := make([]int8, 2)
	n, err := dev.ReadIQ(context.Background(), buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int8{1, 2}, buf)

	assert.NoError(t, dev.SetFrequency(7000000))
	assert.Equal(t, uint64(7000000), dev.Frequency())
	assert.Equal(t, uint64(0), source.Frequency(), "frequency must route to the tuner, not the sample source")
}
