package dsp

import "fmt"

// Interpolator is a polyphase interpolator: the prototype filter of length
// N is decomposed into L sub-filters of length q = N/L, each operating on
// one phase of the interpolated output. For every input sample, all L
// sub-filters are evaluated against a shared state ring (which advances
// once per input, not once per sub-filter), producing L output samples in
// order p0..p(L-1). This achieves interpolation at the pre-interpolation
// (lower) sample rate instead of zero-stuffing and filtering at the
// higher rate.
type Interpolator struct {
	l int
	q int

	// coeffs holds the L sub-filters concatenated as p0 ‖ p1 ‖ … ‖ p(L-1),
	// each of length q, where p_i[k] = protoTaps[i + k*L].
	coeffs []float64

	state []float64
	i     int
}

// NewInterpolator constructs an interpolator from prototype taps and an
// interpolation factor l. It returns an error unless l evenly divides
// len(protoTaps).
func NewInterpolator(protoTaps []float64, l int) (*Interpolator, error) {
	if l <= 0 {
		return nil, fmt.Errorf("dsp: interpolation factor must be positive, got %d", l)
	}
	if len(protoTaps) == 0 || len(protoTaps)%l != 0 {
		return nil, fmt.Errorf("dsp: prototype filter length %d is not a multiple of interpolation factor %d", len(protoTaps), l)
	}

	q := len(protoTaps) / l
	coeffs := make([]float64, len(protoTaps))

	idx := 0
	for sub := 0; sub < l; sub++ {
		for k := 0; k < q; k++ {
			coeffs[idx] = protoTaps[sub+k*l]
			idx++
		}
	}

	p := &Interpolator{
		l:      l,
		q:      q,
		coeffs: coeffs,
		state:  make([]float64, q),
	}
	p.Reset()

	return p, nil
}

// Reset zeros the shared state ring and rewinds the index.
func (p *Interpolator) Reset() {
	for k := range p.state {
		p.state[k] = 0
	}
	p.i = 0
}

// Interpolate consumes one input sample and writes L output samples into
// out (which must have length >= L), returning the slice sliced to length L.
func (p *Interpolator) Interpolate(x float64, out []float64) []float64 {
	p.state[p.i] = x

	for sub := 0; sub < p.l; sub++ {
		out[sub] = p.subfilter(sub)
	}

	p.i++
	if p.i == p.q {
		p.i = 0
	}

	return out[:p.l]
}

func (p *Interpolator) subfilter(sub int) float64 {
	h := p.coeffs[sub*p.q : (sub+1)*p.q]

	var y float64
	idx := p.i
	for k := 0; k < p.q; k++ {
		y += h[k] * p.state[idx]
		idx--
		if idx < 0 {
			idx = p.q - 1
		}
	}

	return y
}
