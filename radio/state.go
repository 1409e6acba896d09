// Package radio ties the DSP pipeline to a tuner front-end: it owns the
// sample thread / control thread concurrency model, the AGC and squelch
// feedback loops, and the control surface an external shell drives.
package radio

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/wizardyesterday/radiodiags-go/agc"
	"github.com/wizardyesterday/radiodiags-go/demod"
	"github.com/wizardyesterday/radiodiags-go/dsp"
	"github.com/wizardyesterday/radiodiags-go/frontend"
	"github.com/wizardyesterday/radiodiags-go/signal"
)

// PCMSink receives one block of demodulated audio per call, synchronously
// on the sample thread. It must not block: spec.md §5 forbids suspension
// in the sample loop's callbacks.
type PCMSink func(samples []int16) error

// blockBytes is the front-end read size; spec.md §6 calls out 16384 or
// 32768 as typical.
const blockBytes = 32768

// deviceGainControl adapts a frontend.Device to agc.GainControl, taking
// State's mutex around every call since SetGain/Gain are front-end
// operations regardless of which goroutine issues them.
type deviceGainControl struct {
	state *State
}

func (g deviceGainControl) HardwareGainDb() uint32 {
	g.state.mu.Lock()
	defer g.state.mu.Unlock()
	v := g.state.device.Gain()
	if v < 0 {
		return 0
	}
	return uint32(v)
}

func (g deviceGainControl) SetHardwareGainDb(gainDb uint32) {
	g.state.mu.Lock()
	defer g.state.mu.Unlock()
	if err := g.state.device.SetGain(int32(gainDb), false); err != nil {
		g.state.logger.Warn("agc: hardware gain set failed", "err", err)
	}
}

// State is the shared radio-state object of spec.md §5: it holds the
// configuration snapshot and the front-end handle, and is the only thing
// the control thread and sample thread both touch. Everything reachable
// only from the sample loop (the dispatcher, the AGC loop, the squelch) is
// never touched directly by a control-thread method — those enqueue a
// command instead, applied at the next block boundary.
type State struct {
	mu     sync.Mutex // guards device + the snapshot fields below
	device frontend.Device

	frequencyHz uint64
	bandwidthHz uint64
	warpPpm     int32

	dispatcher *demod.Dispatcher
	agcLoop    *agc.Loop
	squelch    *signal.Squelch
	mode       demod.Mode // last mode the sample thread actually applied

	sink   PCMSink
	logger *log.Logger

	commands chan func()
	events   chan signal.Event
}

// NewState builds a radio.State around device, applying cfg's initial
// tunables. sink receives demodulated PCM; it may be nil to discard audio
// (useful for headless squelch/AGC testing).
func NewState(cfg Config, device frontend.Device, sink PCMSink, logger *log.Logger) (*State, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dispatcher, err := demod.NewDispatcher()
	if err != nil {
		return nil, fmt.Errorf("radio: %w", err)
	}
	dispatcher.SetGain(cfg.DemodGain)

	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	dispatcher.SetMode(mode)

	detector, err := signal.NewDetector(cfg.Squelch.WordLength, cfg.Squelch.ThresholdDb)
	if err != nil {
		return nil, fmt.Errorf("radio: %w", err)
	}
	squelch := signal.NewSquelch(detector)
	squelch.SetEnabled(cfg.Squelch.Enabled)

	s := &State{
		device:      device,
		frequencyHz: cfg.FrequencyHz,
		bandwidthHz: uint64(cfg.SampleRate),
		dispatcher:  dispatcher,
		squelch:     squelch,
		mode:        mode,
		sink:        sink,
		logger:      logger,
		commands:    make(chan func(), 16),
		events:      make(chan signal.Event, 8),
	}

	agcLoop, err := agc.NewLoop(deviceGainControl{state: s}, cfg.Squelch.WordLength, cfg.Agc.OperatingPointDb)
	if err != nil {
		return nil, fmt.Errorf("radio: %w", err)
	}
	if err := agcLoop.SetFilterCoefficient(cfg.Agc.Alpha); err != nil {
		return nil, err
	}
	if err := agcLoop.SetDeadband(cfg.Agc.DeadbandDb); err != nil {
		return nil, err
	}
	if err := agcLoop.SetBlankingLimit(cfg.Agc.BlankingLimit); err != nil {
		return nil, err
	}
	if cfg.Agc.Enabled {
		agcLoop.Enable()
	} else {
		agcLoop.Disable()
	}
	s.agcLoop = agcLoop

	squelch.Subscribe(s.publishEvent)

	return s, nil
}

// publishEvent is the tracker observer registered at construction: a
// bounded, drop-oldest relay from the sample thread to anything reading
// Events(), per spec.md §9's "bounded channel with drop-oldest policy".
func (s *State) publishEvent(event signal.Event) {
	select {
	case s.events <- event:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- event:
		default:
		}
	}
}

// Events returns the channel of signal-tracker transitions. A scanner or UI
// consumes it; missed events under backpressure are acceptable since they
// are advisory, not authoritative.
func (s *State) Events() <-chan signal.Event { return s.events }

// OnSignalEvent registers an additional direct observer of signal-tracker
// transitions, invoked synchronously on the sample thread alongside
// publishEvent. Unlike Events(), this callback never misses a transition
// under backpressure — it is for low-latency consumers such as a front-panel
// indicator, which must not allocate or block.
func (s *State) OnSignalEvent(fn func(signal.Event)) {
	s.squelch.Subscribe(fn)
}

// Run is the sample thread: it reads blocks from the front-end, feeds them
// through the active demodulator chain and the squelch/AGC feedback loops,
// and delivers PCM to sink. It returns when ctx is cancelled or the
// front-end read fails terminally.
func (s *State) Run(ctx context.Context) error {
	iq := make([]int8, blockBytes)
	var magnitudes []uint32
	var pcm []int16

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		s.drainCommands()

		n, err := s.readBlock(ctx, iq)
		if err != nil {
			return fmt.Errorf("radio: front-end read: %w", err)
		}
		if n == 0 {
			continue // cancelled mid-read
		}
		block := iq[:n-(n%2)]

		magnitudes = blockMagnitudes(block, magnitudes[:0])
		mean := meanMagnitude(magnitudes)

		s.agcLoop.Run(mean)
		_, open := s.squelch.Update(magnitudes)

		if !open {
			continue
		}

		pcm = s.dispatcher.Process(block, pcm[:0])
		if len(pcm) == 0 || s.sink == nil {
			continue
		}
		if err := s.sink(pcm); err != nil {
			s.logger.Warn("pcm sink failed", "err", err)
		}
	}
}

// drainCommands applies every pending demodulator-state mutation enqueued
// by the control thread. It runs only on the sample thread, which is the
// sole owner of the dispatcher, AGC loop, and squelch.
func (s *State) drainCommands() {
	for {
		select {
		case cmd := <-s.commands:
			cmd()
		default:
			return
		}
	}
}

// enqueue posts a command for the sample thread to apply at the next block
// boundary. If the queue is full the command is dropped rather than
// blocking the control thread; callers needing a guarantee should retry.
func (s *State) enqueue(cmd func()) {
	select {
	case s.commands <- cmd:
	default:
		s.logger.Warn("radio: command queue full, dropping request")
	}
}

func (s *State) readBlock(ctx context.Context, buf []int8) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device.ReadIQ(ctx, buf)
}

func blockMagnitudes(iq []int8, out []uint32) []uint32 {
	for k := 0; k+1 < len(iq); k += 2 {
		out = append(out, uint32(dsp.MagnitudeInt8(iq[k], iq[k+1])))
	}
	return out
}

func meanMagnitude(magnitudes []uint32) uint32 {
	if len(magnitudes) == 0 {
		return 0
	}
	var sum uint64
	for _, m := range magnitudes {
		sum += uint64(m)
	}
	return uint32(sum / uint64(len(magnitudes)))
}
