package frontend

import "context"

// TunerPairedDevice composes an IQ-sample source with a separate tuning
// control path, for receivers such as the Hamlib-controlled rigs in
// hamlib.go whose sample acquisition and frequency/gain control run over
// entirely different transports. Samples come from source; SetFrequency,
// Frequency, SetGain, and Gain are delegated to tuner instead.
type TunerPairedDevice struct {
	source Device
	tuner  Device
}

// NewTunerPairedDevice pairs source (an IQ stream) with tuner (a
// frequency/gain control path).
func NewTunerPairedDevice(source, tuner Device) *TunerPairedDevice {
	return &TunerPairedDevice{source: source, tuner: tuner}
}

func (d *TunerPairedDevice) ReadIQ(ctx context.Context, buf []int8) (int, error) {
	return d.source.ReadIQ(ctx, buf)
}

func (d *TunerPairedDevice) SetFrequency(hz uint64) error { return d.tuner.SetFrequency(hz) }
func (d *TunerPairedDevice) Frequency() uint64             { return d.tuner.Frequency() }
func (d *TunerPairedDevice) SetGain(db int32, auto bool) error {
	return d.tuner.SetGain(db, auto)
}
func (d *TunerPairedDevice) Gain() int32        { return d.tuner.Gain() }
func (d *TunerPairedDevice) SampleRate() uint32 { return d.source.SampleRate() }

func (d *TunerPairedDevice) Close() error {
	sourceErr := d.source.Close()
	tunerErr := d.tuner.Close()
	if sourceErr != nil {
		return sourceErr
	}
	return tunerErr
}
