// Package frontend defines the boundary between the demodulation pipeline
// and the tuner hardware. No USB or control-transfer code lives here — that
// remains an external collaborator — only the narrow interface the sample
// loop depends on, plus adapters that wire real libraries to it.
package frontend

import (
	"context"
	"fmt"
)

// Device is everything the sample loop needs from a tuner front-end: a
// blocking IQ read and a small control surface for frequency and gain. A
// real rtlsdr/SoapySDR binding satisfies this; none is implemented here.
type Device interface {
	// ReadIQ blocks until buf is filled with interleaved signed-8-bit I/Q
	// samples, or ctx is done, or an error occurs. It returns the number
	// of bytes read, which is 0 on a clean cancellation.
	ReadIQ(ctx context.Context, buf []int8) (int, error)

	// SetFrequency tunes the front-end to hz.
	SetFrequency(hz uint64) error
	// Frequency returns the last frequency set, or the hardware's
	// power-on default if none has been set yet.
	Frequency() uint64

	// SetGain sets the tuner's RF/IF gain in dB. auto requests the
	// hardware's built-in AGC instead of a manual value.
	SetGain(db int32, auto bool) error
	// Gain returns the last gain reported by the hardware.
	Gain() int32

	// SampleRate returns the complex sample rate this device is
	// configured for.
	SampleRate() uint32

	// Close releases the underlying hardware handle. ReadIQ callers
	// blocked in a read must return promptly once Close is called.
	Close() error
}

// ErrNoDevice is returned by adapters when no matching hardware is present.
var ErrNoDevice = fmt.Errorf("frontend: no device present")
