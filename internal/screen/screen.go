// Package screen defines the contract between the app shell and the screens
// it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/penilai/internal/ui/layout"
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

// InputCapturer is implemented by screens that edit text in place. While
// CapturesInput is true the shell forwards Esc to the screen instead of
// navigating back.
type InputCapturer interface {
	CapturesInput() bool
}

// ContextProvider is implemented by screens that show a short status on the
// right of the header.
type ContextProvider interface {
	HeaderContext() string
}
