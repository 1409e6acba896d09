package radio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wizardyesterday/radiodiags-go/signal"
)

func Test_Scanner_RequiresRangeBeforeStart(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	s := newTestState(t, device)
	sc := NewScanner(s)

	assert.Error(t, sc.Start())
}

func Test_Scanner_AdvancesOnNoiseAndWrapsAtEnd(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	s := newTestState(t, device)
	sc := NewScanner(s)

	assert.NoError(t, sc.SetRange(1000, 2000, 500))
	assert.NoError(t, sc.Start())
	assert.Equal(t, uint64(1000), device.Frequency())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sc.Run(ctx)

	s.publishEvent(signal.Noise)
	waitForFrequency(t, device, 1500)

	s.publishEvent(signal.Noise)
	waitForFrequency(t, device, 2000)

	s.publishEvent(signal.Noise) // wraps past end
	waitForFrequency(t, device, 1000)
}

func Test_Scanner_StaysParkedWhileTracking(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	s := newTestState(t, device)
	sc := NewScanner(s)

	assert.NoError(t, sc.SetRange(1000, 2000, 500))
	assert.NoError(t, sc.Start())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sc.Run(ctx)

	s.publishEvent(signal.StartOfSignal)
	s.publishEvent(signal.SignalPresent)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, uint64(1000), device.Frequency())
}

func Test_Scanner_StopPreventsAdvance(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	s := newTestState(t, device)
	sc := NewScanner(s)

	assert.NoError(t, sc.SetRange(1000, 2000, 500))
	assert.NoError(t, sc.Start())
	sc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sc.Run(ctx)

	s.publishEvent(signal.Noise)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, uint64(1000), device.Frequency())
}

func waitForFrequency(t *testing.T, device *fakeDevice, want uint64) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if device.Frequency() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("frequency never reached %d, last was %d", want, device.Frequency())
}
