// Package indicator drives a GPIO line from signal-tracker state, turning
// the squelch/signal-present transitions of package signal into a
// front-panel LED.
package indicator

import (
	"fmt"

	gpiocdev "github.com/warthog618/go-gpiocdev"

	"github.com/wizardyesterday/radiodiags-go/signal"
)

// Line drives a single GPIO output high while the signal tracker is in the
// Tracking state, and low otherwise.
type Line struct {
	line *gpiocdev.Line
	lit  bool
}

// NewLine requests offset on chip (e.g. "gpiochip0") as an output, initially
// low.
func NewLine(chip string, offset int) (*Line, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("indicator: request line: %w", err)
	}
	return &Line{line: l}, nil
}

// Observe is registered as the signal tracker's event callback. It lights
// the line on StartOfSignal/SignalPresent and extinguishes it on
// Noise/EndOfSignal, following the tracker's Tracking state. This differs
// from the squelch gate, which still passes audio on the EndOfSignal block.
func (l *Line) Observe(event signal.Event) {
	switch event {
	case signal.StartOfSignal, signal.SignalPresent:
		l.set(true)
	case signal.Noise, signal.EndOfSignal:
		l.set(false)
	}
}

func (l *Line) set(on bool) {
	if on == l.lit {
		return
	}
	l.lit = on

	value := 0
	if on {
		value = 1
	}
	// Best-effort: an indicator LED is diagnostic, not load-bearing, so a
	// write failure here must not interrupt the sample thread it is
	// observing.
	_ = l.line.SetValue(value)
}

// Close releases the GPIO line.
func (l *Line) Close() error {
	return l.line.Close()
}
