package radio

import (
	"context"
	"fmt"
	"sync"

	"github.com/wizardyesterday/radiodiags-go/signal"
)

// Scanner implements the scanner control interface of spec.md §6: while
// active, it retunes the front-end to the next frequency in [start,end]
// every time the signal tracker reports Noise or EndOfSignal, and stays
// parked on a frequency while the tracker reports a signal present. It
// consumes the bounded, drop-oldest event channel rather than subscribing
// directly, matching spec.md §9's "bounded channel" guidance for
// advisory signal-state consumers.
type Scanner struct {
	state *State

	mu              sync.Mutex
	start, end, step uint64
	current         uint64
	active          bool
	rangeConfigured bool
}

// NewScanner builds a scanner over state. The caller must still call
// SetRange and Start before it tunes anything.
func NewScanner(state *State) *Scanner {
	return &Scanner{state: state}
}

// SetRange configures the scan boundaries. It may be called while stopped
// or running; a running scan picks up the new range on its next advance.
func (sc *Scanner) SetRange(start, end, step uint64) error {
	if step == 0 {
		return fmt.Errorf("radio: scanner step must be positive")
	}
	if start > end {
		return fmt.Errorf("radio: scanner start %d is after end %d", start, end)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.start, sc.end, sc.step = start, end, step
	sc.rangeConfigured = true
	return nil
}

// Start begins scanning, parking initially on the range's start frequency.
func (sc *Scanner) Start() error {
	sc.mu.Lock()
	if !sc.rangeConfigured {
		sc.mu.Unlock()
		return fmt.Errorf("radio: scanner range not configured")
	}
	sc.active = true
	sc.current = sc.start
	freq := sc.current
	sc.mu.Unlock()

	return sc.state.SetFrequency(freq)
}

// Stop pauses scanning; the frequency stays where it last landed.
func (sc *Scanner) Stop() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.active = false
}

// Active reports whether the scanner is currently stepping.
func (sc *Scanner) Active() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.active
}

// Run consumes tracker events until ctx is cancelled. It is meant to run in
// its own goroutine alongside State.Run.
func (sc *Scanner) Run(ctx context.Context) {
	events := sc.state.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event != signal.Noise && event != signal.EndOfSignal {
				continue
			}
			if !sc.Active() {
				continue
			}
			if err := sc.advance(); err != nil {
				sc.state.logger.Warn("scanner: advance failed", "err", err)
			}
		}
	}
}

func (sc *Scanner) advance() error {
	sc.mu.Lock()
	next := sc.current + sc.step
	if next > sc.end {
		next = sc.start
	}
	sc.current = next
	sc.mu.Unlock()

	return sc.state.SetFrequency(next)
}
