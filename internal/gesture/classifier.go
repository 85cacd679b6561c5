package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Classification is the result of classifying one hand on one frame.
type Classification struct {
	Key        Key     `json:"key"`
	Label      string  `json:"label"`
	Action     Action  `json:"action"`
	Confidence float64 `json:"confidence"`
}

// ClassifierConfig holds the distance thresholds for rule-based
// classification. Factors are multiples of the hand scale (wrist to
// middle-finger base), making them invariant to hand distance.
type ClassifierConfig struct {
	// ExtensionRatio is how much farther from the wrist a fingertip
	// must be than its PIP joint to count as extended.
	ExtensionRatio float64
	// ThumbClearFactor is the minimum thumb-tip distance from the
	// index base for the thumb to count as extended rather than
	// tucked against the palm.
	ThumbClearFactor float64
	// PinchFactor scales the pinch/move override threshold.
	PinchFactor float64
	// PinchFloor is the absolute lower bound on the pinch threshold,
	// protecting very small/distant hands.
	PinchFloor float64
	// PairTogetherFactor scales the index/middle-together threshold
	// for the scroll-activate override.
	PairTogetherFactor float64
	// DoubleClickGuardFactor scales the loose-pinch distance below
	// which the two-finger gun pose is suppressed.
	DoubleClickGuardFactor float64
}

// DefaultClassifierConfig returns the tuned production thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ExtensionRatio:         1.05,
		ThumbClearFactor:       0.45,
		PinchFactor:            0.3,
		PinchFloor:             0.02,
		PairTogetherFactor:     0.6,
		DoubleClickGuardFactor: 1.0,
	}
}

// Classifier maps a single hand's landmark snapshot to a gesture
// classification. It is a pure function of its input and holds no
// per-hand state; one instance serves any number of hands.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// unknown is returned when no table entry matches.
var unknown = Classification{
	Key:        KeyUnknown,
	Label:      string(KeyUnknown),
	Action:     ActionNone,
	Confidence: 0,
}

// Classify analyzes one hand and returns its gesture classification.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Classification {
	if !hand.Valid() {
		return unknown
	}

	scale := hand.Scale()
	pts := &hand.Points
	pinchDist := detector.PlanarDistance(pts[detector.ThumbTip], pts[detector.IndexTip])

	// Pinch/move override: thumb and index tips touching means cursor
	// control regardless of what the rest of the hand is doing.
	pinchThresh := c.cfg.PinchFactor * scale
	if pinchThresh < c.cfg.PinchFloor {
		pinchThresh = c.cfg.PinchFloor
	}
	if pinchDist < pinchThresh {
		return Classification{
			Key:        KeyCursorMove,
			Label:      LabelFor(KeyCursorMove),
			Action:     ActionMoveCursor,
			Confidence: 1.0,
		}
	}

	states := c.fingerStates(hand, scale)

	// Scroll-activate override: index and middle extended and held
	// together, ring down. Checked before the table because this pose
	// is hard to hold with a perfectly consistent extension vector.
	if states[1] && states[2] && !states[3] {
		pair := detector.PlanarDistance(pts[detector.IndexTip], pts[detector.MiddleTip])
		if pair < c.cfg.PairTogetherFactor*scale {
			return Classification{
				Key:        KeyScrollActive,
				Label:      LabelFor(KeyScrollActive),
				Action:     ActionScroll,
				Confidence: 1.0,
			}
		}
	}

	// A loose pinch reads as thumb+index extended; keep it from being
	// mistaken for the dedicated gun pose.
	def, ok := Resolve(states, func(d Definition) bool {
		return d.Key == KeyDoubleClick && pinchDist < c.cfg.DoubleClickGuardFactor*scale
	})
	if !ok {
		return unknown
	}

	return Classification{
		Key:        def.Key,
		Label:      def.Label,
		Action:     def.Action,
		Confidence: 1.0,
	}
}

// fingerStates computes the per-finger extension vector in
// thumb/index/middle/ring/pinky order.
func (c *Classifier) fingerStates(hand *detector.HandLandmarks, scale float64) [5]bool {
	pts := &hand.Points
	wrist := pts[detector.Wrist]

	// Tip farther from the wrist than the PIP joint, by a margin.
	// Rotation-invariant, so a tilted hand classifies the same.
	extended := func(tip, pip int) bool {
		return detector.PlanarDistance(pts[tip], wrist) >
			c.cfg.ExtensionRatio*detector.PlanarDistance(pts[pip], wrist)
	}

	var states [5]bool
	states[0] = c.thumbExtended(hand, scale)
	states[1] = extended(detector.IndexTip, detector.IndexPIP)
	states[2] = extended(detector.MiddleTip, detector.MiddlePIP)
	states[3] = extended(detector.RingTip, detector.RingPIP)
	states[4] = extended(detector.PinkyTip, detector.PinkyPIP)
	return states
}

// thumbExtended requires the tip to be farther from the wrist than both
// the IP and MCP joints, and clear of the index base. The second check
// distinguishes an extended thumb from one tucked against the palm,
// which the joint-ordering test alone cannot do.
func (c *Classifier) thumbExtended(hand *detector.HandLandmarks, scale float64) bool {
	pts := &hand.Points
	wrist := pts[detector.Wrist]

	tipDist := detector.PlanarDistance(pts[detector.ThumbTip], wrist)
	if tipDist <= detector.PlanarDistance(pts[detector.ThumbIP], wrist) {
		return false
	}
	if tipDist <= detector.PlanarDistance(pts[detector.ThumbMCP], wrist) {
		return false
	}

	clear := detector.PlanarDistance(pts[detector.ThumbTip], pts[detector.IndexMCP])
	return clear > c.cfg.ThumbClearFactor*scale
}
