package frontend

import (
	"context"
	"fmt"
	"sync"

	hamlib "github.com/xylo04/goHamlib"
)

// HamlibTuner satisfies the frequency/gain half of Device by talking to a
// rig over Hamlib, for receivers whose tuning runs through rigctld rather
// than direct USB control. It is not a source of IQ samples: ReadIQ always
// fails, since sample acquisition for these receivers runs over a separate
// audio path outside this package's scope.
type HamlibTuner struct {
	mu  sync.Mutex
	rig *hamlib.Rig
	vfo hamlib.Vfo

	freq uint64
	gain int32
	rate uint32
}

// NewHamlibTuner opens a rig of the given Hamlib model number over the
// supplied port (e.g. "localhost:4532" for rigctld, or a serial device
// path for a direct model).
func NewHamlibTuner(model int, port string, sampleRate uint32) (*HamlibTuner, error) {
	rig := hamlib.NewRig(model)
	rig.SetConf("rig_pathname", port)
	if err := rig.Open(); err != nil {
		return nil, fmt.Errorf("frontend: hamlib open: %w", err)
	}

	return &HamlibTuner{rig: rig, vfo: hamlib.VfoCurrent, rate: sampleRate}, nil
}

// ReadIQ is unsupported: HamlibTuner only controls tuning, it is not an IQ
// source.
func (h *HamlibTuner) ReadIQ(ctx context.Context, buf []int8) (int, error) {
	return 0, fmt.Errorf("frontend: hamlib tuner does not supply IQ samples")
}

// SetFrequency tunes the rig's active VFO.
func (h *HamlibTuner) SetFrequency(hz uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.rig.SetFreq(h.vfo, float64(hz)); err != nil {
		return fmt.Errorf("frontend: hamlib set freq: %w", err)
	}
	h.freq = hz
	return nil
}

// Frequency returns the last frequency this adapter set.
func (h *HamlibTuner) Frequency() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.freq
}

// SetGain sets RF gain through Hamlib's generic level API. Hamlib has no
// uniform "automatic gain" level; requesting auto here is rejected rather
// than silently ignored.
func (h *HamlibTuner) SetGain(db int32, auto bool) error {
	if auto {
		return fmt.Errorf("frontend: hamlib tuner has no automatic gain level")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.rig.SetLevel(h.vfo, hamlib.LevelRf, float64(db)); err != nil {
		return fmt.Errorf("frontend: hamlib set gain: %w", err)
	}
	h.gain = db
	return nil
}

// Gain returns the last gain this adapter set.
func (h *HamlibTuner) Gain() int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gain
}

// SampleRate returns the configured audio/IQ rate, for bookkeeping only —
// this adapter does not itself produce samples at that rate.
func (h *HamlibTuner) SampleRate() uint32 { return h.rate }

// Close releases the rig handle.
func (h *HamlibTuner) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rig.Close()
}
