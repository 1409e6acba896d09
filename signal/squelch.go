package signal

// Squelch composites a Detector and a Tracker into a single audio gate:
// audio is considered open from StartOfSignal through EndOfSignal inclusive,
// following radioDiags' convention of gating PCM output on the tracker
// rather than the raw per-block detection.
type Squelch struct {
	detector *Detector
	tracker  *Tracker
	enabled  bool
	open     bool
}

// NewSquelch constructs a squelch gate around the given detector, enabled by
// default.
func NewSquelch(d *Detector) *Squelch {
	return &Squelch{
		detector: d,
		tracker:  NewTracker(),
		enabled:  true,
	}
}

// SetEnabled turns squelching on or off. Disabling immediately opens the
// gate and resets the tracker, so the next re-enable starts from a clean
// NoSignal state. While disabled, Update does not run the detector.
func (s *Squelch) SetEnabled(enabled bool) {
	s.enabled = enabled
	if !enabled {
		s.open = true
		s.tracker.Reset()
	}
}

// Enabled reports whether squelching is currently active.
func (s *Squelch) Enabled() bool {
	return s.enabled
}

// SetThreshold forwards to the underlying detector.
func (s *Squelch) SetThreshold(thresholdDb int32) {
	s.detector.SetThreshold(thresholdDb)
}

// SetGain forwards to the underlying detector.
func (s *Squelch) SetGain(gainDb int32) {
	s.detector.SetGain(gainDb)
}

// SignalMagnitude forwards to the underlying detector's last raw block-mean
// magnitude, for display.
func (s *Squelch) SignalMagnitude() uint32 {
	return s.detector.SignalMagnitude()
}

// Update feeds one block of complex magnitudes through the detector and
// tracker, returning the tracker event for the block and whether audio
// should currently pass. When squelching is disabled, audio always passes,
// the tracker is not advanced and its observers are not called; the
// returned event is Noise.
func (s *Squelch) Update(magnitudes []uint32) (event Event, open bool) {
	if !s.enabled {
		return Noise, true
	}

	present, _ := s.detector.Detect(magnitudes)
	event = s.tracker.Update(present)

	switch event {
	case StartOfSignal, SignalPresent, EndOfSignal:
		s.open = true
	default:
		s.open = false
	}
	if event == EndOfSignal {
		// Audio still carries the tail end of this block; the gate closes
		// starting with the next Noise block.
		s.open = true
	}

	return event, s.open
}

// Open reports whether the gate is currently passing audio.
func (s *Squelch) Open() bool {
	return s.open
}

// Subscribe registers fn against the underlying tracker, so a scanner or
// front-panel indicator can observe signal-state transitions without
// holding a back-pointer into the squelch internals.
func (s *Squelch) Subscribe(fn func(Event)) {
	s.tracker.Subscribe(fn)
}
