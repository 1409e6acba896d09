package radio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wizardyesterday/radiodiags-go/demod"
	"github.com/wizardyesterday/radiodiags-go/signal"
)

// fakeDevice is a minimal in-memory frontend.Device: it emits a constant
// IQ pattern for a fixed number of blocks, then blocks until its context is
// cancelled, mimicking a front-end whose read unblocks promptly on
// shutdown (spec.md §5's one-second cancellation guarantee).
type fakeDevice struct {
	mu         sync.Mutex
	freq       uint64
	gain       int32
	rate       uint32
	blocksLeft int
	i, q       int8
}

func (f *fakeDevice) ReadIQ(ctx context.Context, buf []int8) (int, error) {
	f.mu.Lock()
	if f.blocksLeft <= 0 {
		f.mu.Unlock()
		<-ctx.Done()
		return 0, nil
	}
	f.blocksLeft--
	i, q := f.i, f.q
	f.mu.Unlock()

	for k := 0; k+1 < len(buf); k += 2 {
		buf[k], buf[k+1] = i, q
	}
	return len(buf), nil
}

func (f *fakeDevice) SetFrequency(hz uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freq = hz
	return nil
}

func (f *fakeDevice) Frequency() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.freq
}

func (f *fakeDevice) SetGain(db int32, auto bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gain = db
	return nil
}

func (f *fakeDevice) Gain() int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gain
}

func (f *fakeDevice) SampleRate() uint32 { return f.rate }
func (f *fakeDevice) Close() error       { return nil }

func newTestState(t *testing.T, device *fakeDevice) *State {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Squelch.Enabled = false
	cfg.Mode = "AM"

	s, err := NewState(cfg, device, nil, nil)
	assert.NoError(t, err)
	return s
}

func Test_State_RunStopsPromptlyOnCancellation(t *testing.T) {
	device := &fakeDevice{rate: 256000, i: 20, q: 5, blocksLeft: 2}
	s := newTestState(t, device)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return within one second of cancellation")
	}
}

func Test_State_SetModeAppliesOnlyAfterDrainCommands(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	cfg := DefaultConfig()
	cfg.Squelch.Enabled = false
	s, err := NewState(cfg, device, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, demod.ModeNone, s.Mode())

	s.SetMode(demod.ModeAM)
	assert.Equal(t, demod.ModeNone, s.Mode(), "mode change should not be visible before a block boundary")

	s.drainCommands()
	assert.Equal(t, demod.ModeAM, s.Mode())
}

func Test_State_SetFrequencyAppliesWarpCorrection(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	s := newTestState(t, device)

	s.SetWarpPpm(1_000_000) // +100% for an exact, easy-to-check correction
	assert.NoError(t, s.SetFrequency(1000))

	assert.Equal(t, uint64(2000), device.Frequency())
	assert.Equal(t, uint64(1000), s.Frequency())
}

func Test_State_SetGainDbForwardsToDevice(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	s := newTestState(t, device)

	assert.NoError(t, s.SetGainDb(30, false))
	assert.Equal(t, int32(30), s.GainDb())
}

func Test_State_OnSignalEventReceivesSquelchTransitions(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	s := newTestState(t, device)

	var seen []signal.Event
	s.OnSignalEvent(func(e signal.Event) { seen = append(seen, e) })

	s.squelch.SetEnabled(true)
	s.squelch.Update([]uint32{1000})
	s.squelch.Update([]uint32{0})

	assert.NotEmpty(t, seen)
}

func Test_State_AgcAndSquelchControlsAreQueuedNotImmediate(t *testing.T) {
	device := &fakeDevice{rate: 256000}
	s := newTestState(t, device)

	s.Agc().Disable()
	s.Squelch().SetEnabled(true)
	assert.True(t, s.agcLoop.Enabled(), "queued command should not apply before a drain")
	assert.False(t, s.squelch.Enabled(), "queued command should not apply before a drain")

	s.drainCommands()
	assert.False(t, s.agcLoop.Enabled())
	assert.True(t, s.squelch.Enabled())
}
