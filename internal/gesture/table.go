// Package gesture provides rule-based gesture classification and the
// temporal stability layer that filters detector flicker.
package gesture

// Key identifies a gesture in the fixed control vocabulary.
type Key string

// Table keys plus the two override keys resolved before table lookup.
const (
	KeyUnknown     Key = "UNKNOWN"
	KeyDrag        Key = "DRAG"
	KeyStop        Key = "STOP"
	KeyDoubleClick Key = "DOUBLE_CLICK"
	KeyLeftClick   Key = "LEFT_CLICK"
	KeyRightClick  Key = "RIGHT_CLICK"
	KeyScrollUp    Key = "SCROLL_UP"
	KeyScrollDown  Key = "SCROLL_DOWN"

	// KeyCursorMove is the pinch/move override.
	KeyCursorMove Key = "CURSOR_CONTROL"
	// KeyScrollActive is the two-fingers-together scroll override.
	KeyScrollActive Key = "SCROLL_ACTIVE"
)

// Action is the command token handed to the action executor.
type Action string

const (
	ActionNone        Action = "none"
	ActionMoveCursor  Action = "move_cursor"
	ActionDrag        Action = "drag"
	ActionLeftClick   Action = "left_click"
	ActionRightClick  Action = "right_click"
	ActionDoubleClick Action = "double_click"
	ActionScrollUp    Action = "scroll_up"
	ActionScrollDown  Action = "scroll_down"
	// ActionScroll is the speed-driven scroll emitted while the
	// scroll-activate override is held.
	ActionScroll Action = "scroll"
	ActionStop   Action = "stop"
)

// Definition is one entry of the fixed gesture table. Pattern is the
// per-finger extension state in thumb/index/middle/ring/pinky order.
type Definition struct {
	Key      Key
	Pattern  [5]bool
	Label    string
	Action   Action
	Priority int
}

// table is the fixed gesture vocabulary, kept sorted by ascending
// priority. Two entries may share a pattern (LEFT_CLICK and the legacy
// CURSOR_CONTROL fallback both use index-only); the lower priority
// number wins, deterministically, by scan order. Do not rely on any
// other ordering.
var table = []Definition{
	{Key: KeyDrag, Pattern: [5]bool{false, false, false, false, false}, Label: "DRAG (Fist)", Action: ActionDrag, Priority: 1},
	{Key: KeyStop, Pattern: [5]bool{true, true, true, true, true}, Label: "STOP", Action: ActionStop, Priority: 1},
	{Key: KeyDoubleClick, Pattern: [5]bool{true, true, false, false, false}, Label: "DOUBLE CLICK (Gun)", Action: ActionDoubleClick, Priority: 2},
	{Key: KeyLeftClick, Pattern: [5]bool{false, true, false, false, false}, Label: "LEFT CLICK (Index)", Action: ActionLeftClick, Priority: 2},
	{Key: KeyRightClick, Pattern: [5]bool{false, true, true, false, false}, Label: "RIGHT CLICK (Peace)", Action: ActionRightClick, Priority: 2},
	{Key: KeyScrollUp, Pattern: [5]bool{false, true, true, true, false}, Label: "SCROLL UP (3 fingers)", Action: ActionScrollUp, Priority: 2},
	{Key: KeyScrollDown, Pattern: [5]bool{false, true, true, true, true}, Label: "SCROLL DOWN (4 fingers)", Action: ActionScrollDown, Priority: 2},
	{Key: KeyCursorMove, Pattern: [5]bool{false, true, false, false, false}, Label: "PINCH TO MOVE", Action: ActionNone, Priority: 99},
}

// Resolve returns the lowest-priority-number table entry whose pattern
// exactly matches states. Entries for which skip returns true are
// passed over; skip may be nil. The second return is false when no
// entry matches.
func Resolve(states [5]bool, skip func(Definition) bool) (Definition, bool) {
	for _, def := range table {
		if def.Pattern != states {
			continue
		}
		if skip != nil && skip(def) {
			continue
		}
		return def, true
	}
	return Definition{}, false
}

// ActionFor returns the action token for a key, covering the override
// keys the table does not carry. Used to re-derive the action when the
// stability layer settles on a key different from the raw classifier
// output.
func ActionFor(key Key) Action {
	switch key {
	case KeyCursorMove:
		return ActionMoveCursor
	case KeyScrollActive:
		return ActionScroll
	}
	for _, def := range table {
		if def.Key == key {
			return def.Action
		}
	}
	return ActionNone
}

// LabelFor returns the display label for a key.
func LabelFor(key Key) string {
	switch key {
	case KeyCursorMove:
		return "PINCH TO MOVE"
	case KeyScrollActive:
		return "SCROLL"
	}
	for _, def := range table {
		if def.Key == key {
			return def.Label
		}
	}
	return string(KeyUnknown)
}

// IsMovementKey reports whether key belongs to the movement class:
// gestures executed every tick with no hold delay.
func IsMovementKey(key Key) bool {
	return key == KeyCursorMove || key == KeyDrag || key == KeyStop
}

// IsClickKey reports whether key belongs to the click class: gestures
// gated by hold-to-activate and single-shot latching.
func IsClickKey(key Key) bool {
	return key == KeyLeftClick || key == KeyRightClick || key == KeyDoubleClick
}
