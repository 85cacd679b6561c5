package detector

import (
	"math"
	"testing"
)

func TestPlanarDistance(t *testing.T) {
	a := Point3D{X: 0, Y: 0, Z: 5}
	b := Point3D{X: 3, Y: 4, Z: -5}

	// Z is ignored: depth from a single camera is too noisy to gate
	// classification on.
	if got := PlanarDistance(a, b); got != 5 {
		t.Errorf("expected 5, got %f", got)
	}
}

func TestHandLandmarks_Scale(t *testing.T) {
	h := Pose(false, true, false, false, false)

	// Fixture geometry: wrist (0.5,0.9), middle MCP (0.5,0.7).
	if got := h.Scale(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("expected scale 0.2, got %f", got)
	}
}

func TestHandLandmarks_Valid(t *testing.T) {
	h := Pose(true, true, true, true, true)
	if !h.Valid() {
		t.Error("expected fixture hand to be valid")
	}

	var nilHand *HandLandmarks
	if nilHand.Valid() {
		t.Error("expected nil hand to be invalid")
	}

	// All landmarks coincident: zero scale, nothing to classify.
	degenerate := &HandLandmarks{}
	if degenerate.Valid() {
		t.Error("expected degenerate hand to be invalid")
	}
}

func TestShift(t *testing.T) {
	h := Pose(false, true, false, false, false)
	moved := Shift(h, 0.1, -0.2)

	if moved.Points[Wrist].X != h.Points[Wrist].X+0.1 {
		t.Errorf("expected shifted wrist X, got %f", moved.Points[Wrist].X)
	}
	if moved.Points[Wrist].Y != h.Points[Wrist].Y-0.2 {
		t.Errorf("expected shifted wrist Y, got %f", moved.Points[Wrist].Y)
	}

	// Shape-preserving: scale is unchanged.
	if math.Abs(moved.Scale()-h.Scale()) > 1e-9 {
		t.Errorf("expected scale preserved, got %f", moved.Scale())
	}
}
