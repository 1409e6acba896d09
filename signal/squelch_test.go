package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Squelch_OpensAndCloses(t *testing.T) {
	d, err := NewDetector(7, -20)
	assert.NoError(t, err)
	sq := NewSquelch(d)

	ev, open := sq.Update([]uint32{1})
	assert.Equal(t, Noise, ev)
	assert.False(t, open)

	ev, open = sq.Update([]uint32{127})
	assert.Equal(t, StartOfSignal, ev)
	assert.True(t, open)

	ev, open = sq.Update([]uint32{1})
	assert.Equal(t, EndOfSignal, ev)
	assert.True(t, open, "the tail block of a signal should still pass audio")

	ev, open = sq.Update([]uint32{1})
	assert.Equal(t, Noise, ev)
	assert.False(t, open)
}

func Test_Squelch_SubscribeObservesTransitions(t *testing.T) {
	d, err := NewDetector(7, -20)
	assert.NoError(t, err)
	sq := NewSquelch(d)

	var seen []Event
	sq.Subscribe(func(e Event) { seen = append(seen, e) })

	sq.Update([]uint32{1})
	sq.Update([]uint32{127})

	assert.Equal(t, []Event{Noise, StartOfSignal}, seen)
}

func Test_Squelch_DisabledAlwaysOpen(t *testing.T) {
	d, err := NewDetector(7, -20)
	assert.NoError(t, err)
	sq := NewSquelch(d)
	sq.SetEnabled(false)

	_, open := sq.Update([]uint32{1})
	assert.True(t, open)
	assert.False(t, sq.Enabled())
}
