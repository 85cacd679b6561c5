// Package detector provides hand detection interfaces and types for the
// mudra gesture control pipeline.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position in normalized image coordinates.
// X and Y are in [0,1] relative to the frame; Z is an optional relative
// depth estimate and may be zero for detectors that do not supply it.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one hand's 21-point skeleton as reported by the
// detector for a single frame. It is read-only to the decision layer.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PlanarDistance returns the Euclidean distance between two landmarks in
// the image plane, ignoring depth. Gesture thresholds are planar because
// the Z estimate from the detector is far noisier than X/Y.
func PlanarDistance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Scale returns the hand's reference size: the planar distance from the
// wrist to the middle-finger base. Gesture thresholds are expressed as
// multiples of this so they hold at any distance from the camera.
func (h *HandLandmarks) Scale() float64 {
	return PlanarDistance(h.Points[Wrist], h.Points[MiddleMCP])
}

// Valid reports whether the landmark set is usable for classification.
// A degenerate hand (zero scale, typically an all-zero record from a
// detector hiccup) is treated the same as no hand at all.
func (h *HandLandmarks) Valid() bool {
	if h == nil {
		return false
	}
	return h.Scale() > 1e-6
}
