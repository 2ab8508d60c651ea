// internal/controls/button.go
package controls

import "time"

// Timing defaults. Both are wall-clock durations, independent of tick rate.
const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultHold     = 2 * time.Second
)

// ActionKind is what a button produced on a tick.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionNavigate
	ActionClear
)

func (k ActionKind) String() string {
	switch k {
	case ActionNavigate:
		return "navigate"
	case ActionClear:
		return "clear"
	default:
		return "none"
	}
}

// Action is emitted by a button. Step is only meaningful for ActionNavigate.
type Action struct {
	Kind   ActionKind
	Button string
	Step   int
}

// Spec describes one logical button.
type Spec struct {
	Name string

	// Step is the selection delta on a short press: -1, +1, or 0 for none.
	Step int

	// HoldClears makes a press held for the hold delay request a clear.
	HoldClears bool
}

// Timing holds the debounce and hold thresholds.
type Timing struct {
	Debounce time.Duration
	Hold     time.Duration
}

func (t Timing) withDefaults() Timing {
	if t.Debounce <= 0 {
		t.Debounce = DefaultDebounce
	}
	if t.Hold <= 0 {
		t.Hold = DefaultHold
	}
	return t
}

// Button is the per-button state machine:
//
//   Idle -> Pressed -> Idle                 (short press: Navigate on release)
//   Idle -> Pressed -> LongFired -> Idle    (hold: Clear once, nothing on release)
//
// It is fed the raw level once per tick and never blocks.
type Button struct {
	spec   Spec
	timing Timing

	pressed   bool
	pressedAt time.Time
	longFired bool

	lastEdge time.Time
	anyEdge  bool
}

func NewButton(spec Spec, timing Timing) *Button {
	return &Button{spec: spec, timing: timing.withDefaults()}
}

func (b *Button) Name() string { return b.spec.Name }

// Pressed reports the debounced state.
func (b *Button) Pressed() bool { return b.pressed }

// Update samples the button level at now and returns the action fired, if any.
func (b *Button) Update(now time.Time, level bool) Action {
	if level != b.pressed && b.acceptEdge(now) {
		if level {
			b.pressed = true
			b.pressedAt = now
			b.longFired = false
			return b.checkHold(now)
		}
		return b.release(now)
	}

	if b.pressed {
		return b.checkHold(now)
	}
	return Action{}
}

func (b *Button) acceptEdge(now time.Time) bool {
	if b.anyEdge && now.Sub(b.lastEdge) < b.timing.Debounce {
		return false
	}
	b.lastEdge = now
	b.anyEdge = true
	return true
}

func (b *Button) release(now time.Time) Action {
	held := now.Sub(b.pressedAt)
	fired := b.longFired

	b.pressed = false
	b.pressedAt = time.Time{}
	b.longFired = false

	if fired || held >= b.timing.Hold || b.spec.Step == 0 {
		return Action{}
	}
	return Action{Kind: ActionNavigate, Button: b.spec.Name, Step: b.spec.Step}
}

func (b *Button) checkHold(now time.Time) Action {
	if !b.spec.HoldClears || b.longFired {
		return Action{}
	}
	if now.Sub(b.pressedAt) < b.timing.Hold {
		return Action{}
	}
	b.longFired = true
	return Action{Kind: ActionClear, Button: b.spec.Name}
}
