// Package filter provides adaptive low-pass smoothing for continuous
// control signals (cursor position, scroll speed).
package filter

import (
	"math"
	"time"
)

// lowPass is a simple exponential smoother whose coefficient is chosen
// per call by the enclosing OneEuro filter.
type lowPass struct {
	raw    float64
	smooth float64
	primed bool
}

func (lp *lowPass) filter(value, alpha float64) float64 {
	if !lp.primed {
		lp.raw = value
		lp.smooth = value
		lp.primed = true
		return value
	}
	lp.raw = value
	lp.smooth = alpha*value + (1-alpha)*lp.smooth
	return lp.smooth
}

// OneEuro implements the One Euro filter (Casiez et al., 2012): an
// exponential smoother whose cutoff frequency adapts to the signal's
// speed. Slow signals get heavy smoothing (low jitter), fast signals
// get light smoothing (low lag).
//
// One instance filters one scalar and is not safe for concurrent use.
type OneEuro struct {
	minCutoff float64
	beta      float64
	dCutoff   float64

	x        lowPass
	dx       lowPass
	lastTime time.Time
}

// New creates a OneEuro filter. minCutoff is the cutoff frequency (Hz)
// at zero speed, beta scales how aggressively the cutoff grows with
// speed, dCutoff is the fixed cutoff for the derivative estimate.
func New(minCutoff, beta, dCutoff float64) *OneEuro {
	return &OneEuro{
		minCutoff: minCutoff,
		beta:      beta,
		dCutoff:   dCutoff,
	}
}

// Filter smooths value observed at the given timestamp.
//
// The first call seeds the filter and returns value unchanged. A
// non-positive elapsed time (clock went backwards, or two calls in the
// same tick) returns the previous output unchanged rather than
// dividing by zero.
func (f *OneEuro) Filter(value float64, now time.Time) float64 {
	if f.lastTime.IsZero() {
		f.lastTime = now
		return f.x.filter(value, 1)
	}

	dt := now.Sub(f.lastTime).Seconds()
	if dt <= 0 {
		return f.x.smooth
	}

	rate := 1 / dt
	dv := (value - f.x.raw) * rate
	dvHat := f.dx.filter(dv, alpha(rate, f.dCutoff))

	cutoff := f.minCutoff + f.beta*math.Abs(dvHat)
	out := f.x.filter(value, alpha(rate, cutoff))

	f.lastTime = now
	return out
}

// Reset discards all state; the next Filter call re-seeds. Used when
// the control hand disappears or the stop gesture intentionally
// releases smoothing momentum.
func (f *OneEuro) Reset() {
	f.x = lowPass{}
	f.dx = lowPass{}
	f.lastTime = time.Time{}
}

func alpha(rate, cutoff float64) float64 {
	tau := 1 / (2 * math.Pi * cutoff)
	te := 1 / rate
	return 1 / (1 + tau/te)
}
