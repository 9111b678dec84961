package core

import "sort"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the engine to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // ArrowLeft, KeyA - move or switch lane left
	ActionRight          // ArrowRight, KeyD - move or switch lane right
	ActionJump           // Space, ArrowUp, KeyW - jump (grounded only)
	ActionPause          // KeyP, Escape - pause/unpause
	ActionRestart        // KeyR - restart the run
	ActionStart          // Enter - leave the ready screen
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionStart:
		return "Start"
	default:
		return "Unknown"
	}
}

// KeyBindings maps browser KeyboardEvent.code values to actions.
// Keys missing from the map are not part of the handled set.
var KeyBindings = map[string]Action{
	"ArrowLeft":  ActionLeft,
	"KeyA":       ActionLeft,
	"ArrowRight": ActionRight,
	"KeyD":       ActionRight,
	"ArrowUp":    ActionJump,
	"KeyW":       ActionJump,
	"Space":      ActionJump,
	"KeyP":       ActionPause,
	"Escape":     ActionPause,
	"KeyR":       ActionRestart,
	"Enter":      ActionStart,
}

// ActionForKey returns the action bound to key, or ActionNone.
func ActionForKey(key string) Action {
	return KeyBindings[key]
}

// KeySet tracks which bound keys are held and which actions saw a key-down
// edge since they were last consumed. Holding a second key bound to an already
// held action does not produce a new edge.
type KeySet struct {
	pressed map[string]bool
	edges   map[Action]bool
}

// NewKeySet creates an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{
		pressed: make(map[string]bool),
		edges:   make(map[Action]bool),
	}
}

// Press marks key as held. It returns the bound action and whether this press
// was a key-down edge for that action. Unbound keys are ignored.
func (k *KeySet) Press(key string) (Action, bool) {
	action := ActionForKey(key)
	if action == ActionNone {
		return ActionNone, false
	}
	wasHeld := k.Held(action)
	k.pressed[key] = true
	if wasHeld {
		return action, false
	}
	k.edges[action] = true
	return action, true
}

// Release marks key as no longer held. Unbound keys are ignored.
func (k *KeySet) Release(key string) Action {
	action := ActionForKey(key)
	if action == ActionNone {
		return ActionNone
	}
	delete(k.pressed, key)
	return action
}

// Held returns true if any key bound to the action is currently pressed.
func (k *KeySet) Held(a Action) bool {
	for key := range k.pressed {
		if KeyBindings[key] == a {
			return true
		}
	}
	return false
}

// TakeEdge reports whether the action had a pending key-down edge and consumes it.
func (k *KeySet) TakeEdge(a Action) bool {
	if !k.edges[a] {
		return false
	}
	delete(k.edges, a)
	return true
}

// ClearEdges drops every pending key-down edge but keeps held keys.
func (k *KeySet) ClearEdges() {
	for a := range k.edges {
		delete(k.edges, a)
	}
}

// Reset releases all keys and drops pending edges.
func (k *KeySet) Reset() {
	for key := range k.pressed {
		delete(k.pressed, key)
	}
	k.ClearEdges()
}

// Keys returns the currently pressed keys in sorted order.
func (k *KeySet) Keys() []string {
	keys := make([]string, 0, len(k.pressed))
	for key := range k.pressed {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
