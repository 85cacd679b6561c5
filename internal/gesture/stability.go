package gesture

// StableGesture is the per-tick output of the stability buffer: the
// accepted key/action for a hand, with Stable reporting whether this
// tick's window reached quorum (false means the previous accepted key
// was retained unchanged).
type StableGesture struct {
	Key    Key    `json:"key"`
	Action Action `json:"action"`
	Stable bool   `json:"stable"`
}

// StabilityConfig tunes the temporal voting window.
type StabilityConfig struct {
	// WindowSize is the number of recent raw keys considered.
	WindowSize int
	// Quorum is the minimum count the most frequent key needs within
	// the window to be accepted as stable.
	Quorum int
	// VelocityLockSpeed is the cursor speed (pixels per tick) above
	// which the buffer refuses to leave a movement gesture. Mid-swipe
	// the detector flickers to partial poses; locking the key keeps
	// the cursor from stuttering.
	VelocityLockSpeed float64
}

// DefaultStabilityConfig returns the tuned production window.
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{
		WindowSize:        6,
		Quorum:            4,
		VelocityLockSpeed: 50,
	}
}

// StabilityBuffer turns the flickering per-frame classifier output into
// a stable gesture key by majority vote over a rolling window. One
// buffer tracks one hand.
type StabilityBuffer struct {
	cfg    StabilityConfig
	window []Key

	stableKey    Key
	stableAction Action
}

// NewStabilityBuffer creates a buffer with the given configuration.
func NewStabilityBuffer(cfg StabilityConfig) *StabilityBuffer {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 6
	}
	if cfg.Quorum <= 0 || cfg.Quorum > cfg.WindowSize {
		cfg.Quorum = (cfg.WindowSize*2 + 2) / 3
	}
	return &StabilityBuffer{
		cfg:          cfg,
		window:       make([]Key, 0, cfg.WindowSize),
		stableKey:    KeyUnknown,
		stableAction: ActionNone,
	}
}

// Push inserts this tick's raw classification and resolves the stable
// gesture. cursorSpeed is the executor-reported cursor displacement in
// pixels over the last tick, used for the velocity lock.
func (b *StabilityBuffer) Push(raw Classification, cursorSpeed float64) StableGesture {
	key := raw.Key

	// Velocity lock: while the cursor is moving fast under a movement
	// gesture, force the raw key to that gesture before it enters the
	// window.
	if cursorSpeed > b.cfg.VelocityLockSpeed && IsMovementKey(b.stableKey) {
		key = b.stableKey
	}

	if len(b.window) == b.cfg.WindowSize {
		copy(b.window, b.window[1:])
		b.window = b.window[:b.cfg.WindowSize-1]
	}
	b.window = append(b.window, key)

	// The scroll pose is intrinsically harder to hold with perfect
	// consistency; a single appearance in the window selects it.
	for _, k := range b.window {
		if k == KeyScrollActive {
			b.accept(KeyScrollActive, raw)
			return StableGesture{Key: b.stableKey, Action: b.stableAction, Stable: true}
		}
	}

	best, count := b.mostFrequent()
	if count < b.cfg.Quorum {
		// Unstable tick: previous accepted key stands.
		return StableGesture{Key: b.stableKey, Action: b.stableAction, Stable: false}
	}

	b.accept(best, raw)
	return StableGesture{Key: b.stableKey, Action: b.stableAction, Stable: true}
}

// Reset clears the window and the accepted key, for when the hand
// leaves the frame.
func (b *StabilityBuffer) Reset() {
	b.window = b.window[:0]
	b.stableKey = KeyUnknown
	b.stableAction = ActionNone
}

// StableKey returns the currently accepted key.
func (b *StabilityBuffer) StableKey() Key {
	return b.stableKey
}

func (b *StabilityBuffer) accept(key Key, raw Classification) {
	b.stableKey = key
	if key == raw.Key {
		b.stableAction = raw.Action
	} else {
		// The vote settled on a key other than this tick's raw
		// output; re-derive its action from the table.
		b.stableAction = ActionFor(key)
	}
}

func (b *StabilityBuffer) mostFrequent() (Key, int) {
	counts := make(map[Key]int, len(b.window))
	best := KeyUnknown
	bestCount := 0
	for _, k := range b.window {
		counts[k]++
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best, bestCount
}
