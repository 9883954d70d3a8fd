package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/pywebdev/academy/internal/state"
	"github.com/pywebdev/academy/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that can hold keyboard focus in a
// text field. While CapturesInput is true the app root leaves global keys
// such as "/" and "?" to the screen.
type InputCapturer interface {
	CapturesInput() bool
}

// Resumer is implemented by screens that refresh themselves when the screen
// above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// DispatchMsg asks the app root to apply commands to the selection store,
// in order.
type DispatchMsg struct {
	Commands []state.Command
}

// Dispatch returns a command emitting a DispatchMsg.
func Dispatch(cmds ...state.Command) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	return func() tea.Msg {
		return DispatchMsg{Commands: cmds}
	}
}

// StateChangedMsg is delivered to every stacked screen after the app root
// has applied a DispatchMsg.
type StateChangedMsg struct {
	Prev state.State
	Next state.State
}
