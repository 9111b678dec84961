package core

import "testing"

func TestActionForKey(t *testing.T) {
	tests := []struct {
		key      string
		expected Action
	}{
		{"ArrowLeft", ActionLeft},
		{"KeyA", ActionLeft},
		{"ArrowRight", ActionRight},
		{"KeyD", ActionRight},
		{"Space", ActionJump},
		{"ArrowUp", ActionJump},
		{"KeyW", ActionJump},
		{"KeyP", ActionPause},
		{"Escape", ActionPause},
		{"KeyR", ActionRestart},
		{"Enter", ActionStart},
		{"KeyZ", ActionNone},
		{"", ActionNone},
	}

	for _, tc := range tests {
		if got := ActionForKey(tc.key); got != tc.expected {
			t.Errorf("ActionForKey(%q) = %v, expected %v", tc.key, got, tc.expected)
		}
	}
}

func TestKeySetEdges(t *testing.T) {
	k := NewKeySet()

	action, edge := k.Press("Space")
	if action != ActionJump || !edge {
		t.Fatalf("first press = (%v, %v), expected (Jump, true)", action, edge)
	}

	// Holding the key again is not a new edge
	if _, edge := k.Press("Space"); edge {
		t.Error("repeated press should not produce an edge")
	}

	// A second key bound to the same action is not a new edge either
	if _, edge := k.Press("ArrowUp"); edge {
		t.Error("second key for held action should not produce an edge")
	}

	if !k.TakeEdge(ActionJump) {
		t.Error("TakeEdge should report the pending jump edge")
	}
	if k.TakeEdge(ActionJump) {
		t.Error("TakeEdge should consume the edge")
	}

	k.Release("Space")
	if !k.Held(ActionJump) {
		t.Error("jump should still be held via ArrowUp")
	}
	k.Release("ArrowUp")
	if k.Held(ActionJump) {
		t.Error("jump should be released")
	}

	if _, edge := k.Press("KeyW"); !edge {
		t.Error("press after full release should be an edge")
	}
}

func TestKeySetIgnoresUnknownKeys(t *testing.T) {
	k := NewKeySet()

	if action, edge := k.Press("F13"); action != ActionNone || edge {
		t.Errorf("unknown key press = (%v, %v)", action, edge)
	}
	if len(k.Keys()) != 0 {
		t.Errorf("unknown key should not be tracked, got %v", k.Keys())
	}
	if k.Release("F13") != ActionNone {
		t.Error("unknown key release should map to ActionNone")
	}
}

func TestKeySetReset(t *testing.T) {
	k := NewKeySet()
	k.Press("KeyA")
	k.Press("KeyD")

	keys := k.Keys()
	if len(keys) != 2 || keys[0] != "KeyA" || keys[1] != "KeyD" {
		t.Errorf("Keys() = %v, expected [KeyA KeyD]", keys)
	}

	k.ClearEdges()
	if k.TakeEdge(ActionLeft) {
		t.Error("ClearEdges should drop pending edges")
	}
	if !k.Held(ActionLeft) {
		t.Error("ClearEdges should keep held keys")
	}

	k.Reset()
	if k.Held(ActionLeft) || k.Held(ActionRight) {
		t.Error("Reset should release all keys")
	}
}

func TestActionString(t *testing.T) {
	if ActionJump.String() != "Jump" {
		t.Errorf("ActionJump.String() = %q", ActionJump.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("unknown action String() = %q", Action(99).String())
	}
}
