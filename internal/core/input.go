package core

// Action represents a semantic platform action, abstracted from physical key presses.
// Gameplay input (slides and taps) travels separately in InputFrame.
type Action int

const (
	ActionNone     Action = iota
	ActionStart           // Enter - start the run after the countdown
	ActionPause           // P - pause/unpause
	ActionContinue        // C - revive after game over
	ActionRestart         // R - new run after game over
	ActionQuit            // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionContinue:
		return "Continue"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is the input registered during one simulation tick: at most one
// slide vector, one tap flag, and any platform actions.
type InputFrame struct {
	Slide   Vec2
	Tap     bool
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// SetSlide registers a slide (swipe) direction; a later slide in the same
// tick replaces the earlier one.
func (f *InputFrame) SetSlide(v Vec2) {
	f.Slide = v
}

// SetTap registers a tap.
func (f *InputFrame) SetTap() {
	f.Tap = true
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets the frame to neutral for the next tick.
func (f *InputFrame) Clear() {
	f.Slide = Vec2{}
	f.Tap = false
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
