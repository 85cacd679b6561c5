package gesture

import "testing"

func TestResolve_PriorityTieBreak(t *testing.T) {
	// Index-only matches both LEFT_CLICK (priority 2) and the legacy
	// CURSOR_CONTROL fallback (priority 99); the lower number wins.
	def, ok := Resolve([5]bool{false, true, false, false, false}, nil)
	if !ok {
		t.Fatal("expected a match for index-only")
	}
	if def.Key != KeyLeftClick {
		t.Errorf("expected %s, got %s", KeyLeftClick, def.Key)
	}
}

func TestResolve_SkipFallsThrough(t *testing.T) {
	// Skipping LEFT_CLICK exposes the lower-priority CURSOR_CONTROL
	// entry with the same pattern.
	def, ok := Resolve([5]bool{false, true, false, false, false}, func(d Definition) bool {
		return d.Key == KeyLeftClick
	})
	if !ok {
		t.Fatal("expected fallback match")
	}
	if def.Key != KeyCursorMove {
		t.Errorf("expected %s, got %s", KeyCursorMove, def.Key)
	}
	if def.Action != ActionNone {
		t.Errorf("expected action %s, got %s", ActionNone, def.Action)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	if _, ok := Resolve([5]bool{true, false, true, false, true}, nil); ok {
		t.Error("expected no match for alternating pattern")
	}
}

func TestTable_SortedByPriority(t *testing.T) {
	last := 0
	for i, def := range table {
		if def.Priority < last {
			t.Fatalf("entry %d (%s) out of priority order", i, def.Key)
		}
		last = def.Priority
	}
}

func TestActionFor_OverrideKeys(t *testing.T) {
	if got := ActionFor(KeyCursorMove); got != ActionMoveCursor {
		t.Errorf("cursor move: expected %s, got %s", ActionMoveCursor, got)
	}
	if got := ActionFor(KeyScrollActive); got != ActionScroll {
		t.Errorf("scroll active: expected %s, got %s", ActionScroll, got)
	}
	if got := ActionFor(KeyUnknown); got != ActionNone {
		t.Errorf("unknown: expected %s, got %s", ActionNone, got)
	}
}

func TestKeyClasses(t *testing.T) {
	movement := []Key{KeyCursorMove, KeyDrag, KeyStop}
	for _, k := range movement {
		if !IsMovementKey(k) {
			t.Errorf("%s should be a movement key", k)
		}
		if IsClickKey(k) {
			t.Errorf("%s should not be a click key", k)
		}
	}

	clicks := []Key{KeyLeftClick, KeyRightClick, KeyDoubleClick}
	for _, k := range clicks {
		if !IsClickKey(k) {
			t.Errorf("%s should be a click key", k)
		}
		if IsMovementKey(k) {
			t.Errorf("%s should not be a movement key", k)
		}
	}
}
