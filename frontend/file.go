package frontend

import (
	"context"
	"fmt"
	"io"
)

// FileDevice replays raw interleaved I/Q bytes from a reader — a capture
// file or a pipe from an external capture tool — as a Device. It has no
// tuning hardware behind it: SetFrequency and SetGain only update the
// values Frequency/Gain report back, for a diagnostic shell to display.
// This is the file-based test harness spec.md names as an external
// collaborator, wired in as a Device so the rest of the pipeline can run
// without real tuner hardware attached.
type FileDevice struct {
	r    io.Reader
	rate uint32
	freq uint64
	gain int32
}

// NewFileDevice wraps r as a Device reporting sampleRate as its configured
// complex sample rate.
func NewFileDevice(r io.Reader, sampleRate uint32) *FileDevice {
	return &FileDevice{r: r, rate: sampleRate}
}

// ReadIQ fills buf from the underlying reader. It returns promptly with
// io.EOF once the source is exhausted rather than blocking; it also
// returns early if ctx is already done.
func (f *FileDevice) ReadIQ(ctx context.Context, buf []int8) (int, error) {
	select {
	case <-ctx.Done():
		return 0, nil
	default:
	}

	raw := make([]byte, len(buf))
	n, err := io.ReadFull(f.r, raw)
	for k := 0; k < n; k++ {
		buf[k] = int8(raw[k])
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("frontend: file device: %w", err)
	}
	return n, nil
}

// SetFrequency records the requested frequency for display purposes only.
func (f *FileDevice) SetFrequency(hz uint64) error {
	f.freq = hz
	return nil
}

// Frequency returns the last frequency recorded.
func (f *FileDevice) Frequency() uint64 { return f.freq }

// SetGain records the requested gain for display purposes only.
func (f *FileDevice) SetGain(db int32, auto bool) error {
	f.gain = db
	return nil
}

// Gain returns the last gain recorded.
func (f *FileDevice) Gain() int32 { return f.gain }

// SampleRate returns the configured playback rate.
func (f *FileDevice) SampleRate() uint32 { return f.rate }

// Close is a no-op unless the underlying reader is also an io.Closer.
func (f *FileDevice) Close() error {
	if c, ok := f.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
