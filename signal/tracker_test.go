package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Tracker_NoiseHolds(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, Noise, tr.Update(false))
	assert.Equal(t, Noise, tr.Update(false))
	assert.Equal(t, NoSignal, tr.State())
}

func Test_Tracker_FullCycle(t *testing.T) {
	tr := NewTracker()

	assert.Equal(t, StartOfSignal, tr.Update(true))
	assert.Equal(t, Tracking, tr.State())

	assert.Equal(t, SignalPresent, tr.Update(true))
	assert.Equal(t, SignalPresent, tr.Update(true))

	assert.Equal(t, EndOfSignal, tr.Update(false))
	assert.Equal(t, NoSignal, tr.State())

	assert.Equal(t, Noise, tr.Update(false))
}

func Test_Tracker_ResetReturnsToNoSignalSilently(t *testing.T) {
	tr := NewTracker()
	tr.Update(true)
	assert.Equal(t, Tracking, tr.State())

	tr.Reset()
	assert.Equal(t, NoSignal, tr.State())

	assert.Equal(t, StartOfSignal, tr.Update(true))
}

func Test_Tracker_SubscribeReceivesEvents(t *testing.T) {
	tr := NewTracker()

	var seen []Event
	tr.Subscribe(func(e Event) { seen = append(seen, e) })

	tr.Update(true)
	tr.Update(true)
	tr.Update(false)

	assert.Equal(t, []Event{StartOfSignal, SignalPresent, EndOfSignal}, seen)
}

// Test_Tracker_Grammar walks every present/absent sequence of length 4 and
// checks the ordering of the resulting events: StartOfSignal and Noise only
// outside a tracked span, SignalPresent and EndOfSignal only inside one. A
// span still open after the fourth block is not an error, since the
// sequence is simply cut off there.
func Test_Tracker_Grammar(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		tr := NewTracker()
		inTrack := false

		for bit := 0; bit < 4; bit++ {
			present := mask&(1<<bit) != 0
			ev := tr.Update(present)

			switch ev {
			case StartOfSignal:
				assert.False(t, inTrack, "StartOfSignal while already tracking, mask=%04b", mask)
				inTrack = true
			case SignalPresent:
				assert.True(t, inTrack, "SignalPresent outside a tracked span, mask=%04b", mask)
			case EndOfSignal:
				assert.True(t, inTrack, "EndOfSignal without a matching start, mask=%04b", mask)
				inTrack = false
			case Noise:
				assert.False(t, inTrack, "Noise while tracking, mask=%04b", mask)
			}
		}
	}
}
