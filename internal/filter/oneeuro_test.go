package filter

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestOneEuro_FirstCallSeeds(t *testing.T) {
	f := New(1.0, 0.02, 1.0)

	if got := f.Filter(42.0, t0); got != 42.0 {
		t.Errorf("expected seed value 42.0, got %f", got)
	}
}

func TestOneEuro_NonPositiveDtReturnsLastOutput(t *testing.T) {
	f := New(1.0, 0.02, 1.0)

	f.Filter(10.0, t0)
	out := f.Filter(20.0, t0.Add(16*time.Millisecond))

	// Same timestamp again: output must not change.
	if got := f.Filter(99.0, t0.Add(16*time.Millisecond)); got != out {
		t.Errorf("zero dt: expected %f, got %f", out, got)
	}

	// Clock going backwards behaves the same.
	if got := f.Filter(99.0, t0); got != out {
		t.Errorf("negative dt: expected %f, got %f", out, got)
	}
}

func TestOneEuro_ConvergesWithoutOvershoot(t *testing.T) {
	f := New(1.0, 0, 1.0)

	out := f.Filter(0, t0)
	now := t0
	for i := 1; i <= 200; i++ {
		now = now.Add(16 * time.Millisecond)
		next := f.Filter(1.0, now)
		if next < out {
			t.Fatalf("step %d: output moved away from target (%f -> %f)", i, out, next)
		}
		if next > 1.0 {
			t.Fatalf("step %d: overshoot past target: %f", i, next)
		}
		out = next
	}

	if math.Abs(out-1.0) > 0.01 {
		t.Errorf("expected convergence near 1.0, got %f", out)
	}
}

func TestOneEuro_BetaReducesLag(t *testing.T) {
	// With a larger beta the cutoff opens up under fast motion, so the
	// adaptive filter must track a moving target more closely than a
	// zero-beta one.
	slow := New(1.0, 0, 1.0)
	fast := New(1.0, 5.0, 1.0)

	now := t0
	var slowOut, fastOut float64
	for i := 0; i <= 100; i++ {
		v := float64(i) * 10 // fast ramp
		slowOut = slow.Filter(v, now)
		fastOut = fast.Filter(v, now)
		now = now.Add(16 * time.Millisecond)
	}

	target := 1000.0
	if math.Abs(fastOut-target) >= math.Abs(slowOut-target) {
		t.Errorf("expected beta to reduce lag: beta=5 err %f, beta=0 err %f",
			math.Abs(fastOut-target), math.Abs(slowOut-target))
	}
}

func TestOneEuro_Reset(t *testing.T) {
	f := New(1.0, 0.02, 1.0)

	f.Filter(10.0, t0)
	f.Filter(20.0, t0.Add(16*time.Millisecond))
	f.Reset()

	// After reset the next call seeds again: no smoothing from history.
	if got := f.Filter(500.0, t0.Add(32*time.Millisecond)); got != 500.0 {
		t.Errorf("expected re-seed to 500.0, got %f", got)
	}
}
