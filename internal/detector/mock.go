package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, including swapping
// them while a pipeline is running.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Canonical pose fixtures.
//
// All fixtures share one hand geometry: wrist at (0.5, 0.9), fingers
// pointing up (decreasing Y), hand scale (wrist to middle MCP) = 0.2.
// Joint positions are chosen so each pose lands cleanly on one side of
// every classification threshold.

// Pose builds a right-hand landmark set with the given per-finger
// extension states, in thumb/index/middle/ring/pinky order.
func Pose(thumb, index, middle, ring, pinky bool) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.9}

	// Finger bases.
	h.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.70}
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.70}
	h.Points[RingMCP] = Point3D{X: 0.44, Y: 0.70}
	h.Points[PinkyMCP] = Point3D{X: 0.38, Y: 0.72}

	h.Points[ThumbCMC] = Point3D{X: 0.58, Y: 0.84}
	h.Points[ThumbMCP] = Point3D{X: 0.63, Y: 0.78}
	if thumb {
		h.Points[ThumbIP] = Point3D{X: 0.70, Y: 0.70}
		h.Points[ThumbTip] = Point3D{X: 0.78, Y: 0.63}
	} else {
		// Tucked against the palm, just outside the index base.
		h.Points[ThumbIP] = Point3D{X: 0.61, Y: 0.76}
		h.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.78}
	}

	if index {
		h.Points[IndexPIP] = Point3D{X: 0.58, Y: 0.63}
		h.Points[IndexDIP] = Point3D{X: 0.59, Y: 0.57}
		h.Points[IndexTip] = Point3D{X: 0.60, Y: 0.52}
	} else {
		h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.66}
		h.Points[IndexDIP] = Point3D{X: 0.56, Y: 0.70}
		h.Points[IndexTip] = Point3D{X: 0.55, Y: 0.73}
	}

	if middle {
		h.Points[MiddlePIP] = Point3D{X: 0.49, Y: 0.62}
		h.Points[MiddleDIP] = Point3D{X: 0.475, Y: 0.55}
		h.Points[MiddleTip] = Point3D{X: 0.46, Y: 0.50}
	} else {
		h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.65}
		h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.70}
		h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.74}
	}

	if ring {
		h.Points[RingPIP] = Point3D{X: 0.41, Y: 0.63}
		h.Points[RingDIP] = Point3D{X: 0.40, Y: 0.57}
		h.Points[RingTip] = Point3D{X: 0.39, Y: 0.53}
	} else {
		h.Points[RingPIP] = Point3D{X: 0.43, Y: 0.66}
		h.Points[RingDIP] = Point3D{X: 0.43, Y: 0.70}
		h.Points[RingTip] = Point3D{X: 0.44, Y: 0.74}
	}

	if pinky {
		h.Points[PinkyPIP] = Point3D{X: 0.35, Y: 0.66}
		h.Points[PinkyDIP] = Point3D{X: 0.34, Y: 0.61}
		h.Points[PinkyTip] = Point3D{X: 0.33, Y: 0.57}
	} else {
		h.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.68}
		h.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.72}
		h.Points[PinkyTip] = Point3D{X: 0.39, Y: 0.75}
	}

	return h
}

// FistPose returns a closed fist (drag gesture).
func FistPose() HandLandmarks { return Pose(false, false, false, false, false) }

// OpenPalmPose returns an open hand with all fingers extended (stop).
func OpenPalmPose() HandLandmarks { return Pose(true, true, true, true, true) }

// IndexOnlyPose returns a pointing index finger (left click).
func IndexOnlyPose() HandLandmarks { return Pose(false, true, false, false, false) }

// PeaceSignPose returns spread index and middle fingers (right click).
// The fingertips are far enough apart not to read as the scroll pose.
func PeaceSignPose() HandLandmarks { return Pose(false, true, true, false, false) }

// GunPose returns extended thumb and index (double click). The thumb
// tip sits more than one hand scale from the index tip so the
// loose-pinch guard does not suppress it.
func GunPose() HandLandmarks { return Pose(true, true, false, false, false) }

// ThreeFingersPose returns index, middle and ring extended (scroll up).
func ThreeFingersPose() HandLandmarks { return Pose(false, true, true, true, false) }

// FourFingersPose returns all fingers but the thumb extended (scroll down).
func FourFingersPose() HandLandmarks { return Pose(false, true, true, true, true) }

// PinchPose returns a thumb-to-index pinch (cursor move override).
func PinchPose() HandLandmarks {
	h := Pose(false, true, false, false, false)
	h.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.62}
	h.Points[ThumbTip] = Point3D{X: 0.59, Y: 0.54}
	return h
}

// ScrollPose returns index and middle extended with the tips held
// together (scroll-activate override).
func ScrollPose() HandLandmarks {
	h := Pose(false, true, true, false, false)
	h.Points[IndexDIP] = Point3D{X: 0.555, Y: 0.57}
	h.Points[IndexTip] = Point3D{X: 0.53, Y: 0.52}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.55}
	h.Points[MiddleTip] = Point3D{X: 0.51, Y: 0.51}
	return h
}

// Shift returns a copy of h with every landmark translated by (dx, dy).
// Useful for simulating hand movement across frames.
func Shift(h HandLandmarks, dx, dy float64) HandLandmarks {
	out := h
	for i := range out.Points {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}
