package signal

// State is a tracker's current position in the signal-presence automaton.
type State int

const (
	// NoSignal is the state in which consecutive blocks report no signal
	// present.
	NoSignal State = iota
	// Tracking is the state entered once a signal has been declared
	// present, held across subsequent present blocks.
	Tracking
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Tracking:
		return "Tracking"
	default:
		return "NoSignal"
	}
}

// Event is emitted once per block fed to a Tracker.
type Event int

const (
	// Noise is emitted while in NoSignal and the block reports absent.
	Noise Event = iota
	// StartOfSignal is emitted on the NoSignal -> Tracking transition.
	StartOfSignal
	// SignalPresent is emitted on every Tracking block after the first.
	SignalPresent
	// EndOfSignal is emitted on the Tracking -> NoSignal transition.
	EndOfSignal
)

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e {
	case StartOfSignal:
		return "StartOfSignal"
	case SignalPresent:
		return "SignalPresent"
	case EndOfSignal:
		return "EndOfSignal"
	default:
		return "Noise"
	}
}

// Tracker is the two-state automaton from radioDiags' SignalTracker: it
// turns a raw per-block present/absent decision into a start/present/end
// event stream. It does no debouncing: a single block's decision changes
// state, so one noisy block is enough to emit StartOfSignal or EndOfSignal.
type Tracker struct {
	state     State
	observers []func(Event)
}

// NewTracker constructs a tracker starting in NoSignal.
func NewTracker() *Tracker {
	return &Tracker{state: NoSignal}
}

// Subscribe registers fn to be called with every event Update produces,
// in addition to Update's own return value. This is the narrow observer
// capability a scanner or front-panel indicator uses instead of holding a
// back-pointer into the tracker.
func (t *Tracker) Subscribe(fn func(Event)) {
	t.observers = append(t.observers, fn)
}

// Reset returns the tracker to NoSignal without emitting an event.
func (t *Tracker) Reset() {
	t.state = NoSignal
}

// State returns the tracker's current state.
func (t *Tracker) State() State {
	return t.state
}

// Update advances the automaton by one block's present/absent decision and
// returns the event for that block. The transition table is exactly:
//
//	NoSignal,  !present -> NoSignal,  Noise
//	NoSignal,   present -> Tracking,  StartOfSignal
//	Tracking,   present -> Tracking,  SignalPresent
//	Tracking,  !present -> NoSignal,  EndOfSignal
func (t *Tracker) Update(present bool) Event {
	event := t.transition(present)
	for _, observe := range t.observers {
		observe(event)
	}
	return event
}

func (t *Tracker) transition(present bool) Event {
	switch t.state {
	case NoSignal:
		if present {
			t.state = Tracking
			return StartOfSignal
		}
		return Noise
	default: // Tracking
		if present {
			return SignalPresent
		}
		t.state = NoSignal
		return EndOfSignal
	}
}
