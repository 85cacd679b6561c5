package control

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// TriggerState carries all per-hand mutable trigger bookkeeping. It is
// an explicit value threaded through each tick rather than ambient
// state, so the decision logic stays pure and testable. One instance
// per tracked hand; zero value is the neutral state.
type TriggerState struct {
	// HeldKey is the stable key of the current hold episode.
	HeldKey gesture.Key
	// HoldStart is when HeldKey last changed.
	HoldStart time.Time
	// Triggered latches after a click fires, once per hold episode.
	Triggered bool
	// NeedsReset suppresses all click output until a stable non-click
	// gesture is observed.
	NeedsReset bool
	// LastMovement is the last tick a movement-class action executed.
	LastMovement time.Time
	// ScrollBaseline is the index-tip Y captured when scroll was
	// freshly entered; scroll speed is displacement from it.
	ScrollBaseline float64
	// LastScrollActive is the last tick scroll-activate was directly
	// detected; the sticky grace window hangs off it.
	LastScrollActive time.Time
	// FirstSeen is when the hand entered the frame, anchoring the
	// entry debounce window.
	FirstSeen time.Time
}

// Command is the resolved action for one tick after trigger gating.
// A zero Command (ActionNone) means nothing is to be executed.
type Command struct {
	Key    gesture.Key
	Action gesture.Action
	// ScrollSpeed is set for ActionScroll; positive scrolls up.
	ScrollSpeed float64
}

// TriggerConfig tunes the hold/debounce/grace timing.
type TriggerConfig struct {
	// EntryDebounce suppresses everything while a newly detected hand
	// settles.
	EntryDebounce time.Duration
	// ClickHoldDelay is how long a single/right-click key must be
	// held before firing.
	ClickHoldDelay time.Duration
	// DoubleClickHoldDelay is the (longer) hold for double-click.
	DoubleClickHoldDelay time.Duration
	// MovementGrace blocks clicks for this long after any
	// movement-class execution, so a swipe cannot end in an
	// accidental click.
	MovementGrace time.Duration
	// ScrollGrace keeps scroll active after detection drops it,
	// smoothing noisy release. Independent of MovementGrace; the two
	// are not required to be equal.
	ScrollGrace time.Duration
	// ScrollMultiplier converts normalized index-tip displacement
	// from the scroll baseline into speed units.
	ScrollMultiplier float64
}

// DefaultTriggerConfig returns the tuned production timing.
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		EntryDebounce:        800 * time.Millisecond,
		ClickHoldDelay:       300 * time.Millisecond,
		DoubleClickHoldDelay: 600 * time.Millisecond,
		MovementGrace:        400 * time.Millisecond,
		ScrollGrace:          500 * time.Millisecond,
		ScrollMultiplier:     100,
	}
}

// TriggerMachine enforces hold-to-activate, single-shot firing,
// debounce and reset semantics over the stability buffer's output.
// The machine itself is stateless; all mutation happens on the
// TriggerState passed to Step.
type TriggerMachine struct {
	cfg TriggerConfig
}

// NewTriggerMachine creates a machine with the given timing.
func NewTriggerMachine(cfg TriggerConfig) *TriggerMachine {
	return &TriggerMachine{cfg: cfg}
}

// Reset returns the state to neutral, as when the hand leaves the
// frame. The next Step restarts the entry debounce.
func (m *TriggerMachine) Reset(st *TriggerState) {
	*st = TriggerState{}
}

// Step advances the state machine by one tick and returns the command
// to execute. A nil or malformed hand is treated as no hand: full
// reset, no command. Step never panics on bad input.
func (m *TriggerMachine) Step(st *TriggerState, ev gesture.StableGesture, hand *detector.HandLandmarks, now time.Time) Command {
	if !hand.Valid() {
		m.Reset(st)
		return Command{Key: gesture.KeyUnknown, Action: gesture.ActionNone}
	}

	// Hand-entry debounce: let the detector settle before any action.
	if st.FirstSeen.IsZero() {
		st.FirstSeen = now
	}
	if now.Sub(st.FirstSeen) < m.cfg.EntryDebounce {
		return Command{Key: ev.Key, Action: gesture.ActionNone}
	}

	// A stable non-click gesture is the release that re-arms clicks.
	if st.NeedsReset && ev.Stable && !gesture.IsClickKey(ev.Key) {
		st.NeedsReset = false
	}

	// Each change of the stable key opens a new hold episode.
	if ev.Key != st.HeldKey {
		st.HeldKey = ev.Key
		st.HoldStart = now
		st.Triggered = false
	}

	indexY := hand.Points[detector.IndexTip].Y

	if ev.Key == gesture.KeyScrollActive {
		// Re-latch the zero baseline on fresh entry only; within the
		// grace window the old baseline keeps displacement coherent.
		if st.LastScrollActive.IsZero() || now.Sub(st.LastScrollActive) > m.cfg.ScrollGrace {
			st.ScrollBaseline = indexY
		}
		st.LastScrollActive = now
		return m.scrollCommand(st, indexY)
	}

	// Sticky scroll: detection dropped the pose but we are inside the
	// grace window, so scroll continues as if it had not.
	if !st.LastScrollActive.IsZero() && now.Sub(st.LastScrollActive) < m.cfg.ScrollGrace {
		return m.scrollCommand(st, indexY)
	}

	if gesture.IsMovementKey(ev.Key) {
		// Movement is never delayed: it executes every tick, stamps
		// the grace window and restarts any pending click hold.
		st.LastMovement = now
		st.HoldStart = now
		st.Triggered = false
		return Command{Key: ev.Key, Action: ev.Action}
	}

	if gesture.IsClickKey(ev.Key) {
		return m.clickCommand(st, ev, now)
	}

	// Discrete scroll gestures repeat each tick; the executor's
	// cooldown throttles the actual wheel events.
	if ev.Key == gesture.KeyScrollUp || ev.Key == gesture.KeyScrollDown {
		return Command{Key: ev.Key, Action: ev.Action}
	}

	return Command{Key: ev.Key, Action: gesture.ActionNone}
}

func (m *TriggerMachine) scrollCommand(st *TriggerState, indexY float64) Command {
	// Screen Y grows downward; moving the hand up scrolls up.
	speed := (st.ScrollBaseline - indexY) * m.cfg.ScrollMultiplier
	return Command{
		Key:         gesture.KeyScrollActive,
		Action:      gesture.ActionScroll,
		ScrollSpeed: speed,
	}
}

func (m *TriggerMachine) clickCommand(st *TriggerState, ev gesture.StableGesture, now time.Time) Command {
	none := Command{Key: ev.Key, Action: gesture.ActionNone}

	if st.NeedsReset || st.Triggered {
		return none
	}

	delay := m.cfg.ClickHoldDelay
	if ev.Key == gesture.KeyDoubleClick {
		delay = m.cfg.DoubleClickHoldDelay
	}
	if now.Sub(st.HoldStart) < delay {
		return none
	}

	// Don't fire right after a swipe; the hand is probably still in
	// transit through a click-shaped pose.
	if !st.LastMovement.IsZero() && now.Sub(st.LastMovement) < m.cfg.MovementGrace {
		return none
	}

	st.Triggered = true
	st.NeedsReset = true
	return Command{Key: ev.Key, Action: ev.Action}
}
