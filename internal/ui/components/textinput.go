package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penilai/internal/ui/theme"
)

// ScoreInput wraps bubbles/textinput for entering a numeric score. Only
// digits and a single decimal separator are accepted; a comma is read as a
// decimal point.
type ScoreInput struct {
	Model textinput.Model
	err   string
}

// NewScoreInput creates a focused score input.
func NewScoreInput(placeholder string) ScoreInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 6
	ti.Focus()
	return ScoreInput{Model: ti}
}

// SetValue prefills the input.
func (t *ScoreInput) SetValue(v string) {
	t.Model.SetValue(v)
	t.Model.CursorEnd()
}

// Init returns the initial command.
func (t ScoreInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages, dropping keys that cannot be part of a number.
func (t ScoreInput) Update(msg tea.Msg) (ScoreInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.Text != "" {
		for _, r := range kmsg.Text {
			switch {
			case r >= '0' && r <= '9':
			case r == '.' || r == ',':
				if strings.ContainsAny(t.Model.Value(), ".,") {
					return t, nil
				}
			default:
				return t, nil
			}
		}
	}
	t.err = ""

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input and any error from the last Float call.
func (t ScoreInput) View() string {
	view := t.Model.View()
	if t.err != "" {
		view += "  " + lipgloss.NewStyle().Foreground(theme.Error).Render(t.err)
	}
	return view
}

// Value returns the raw text.
func (t ScoreInput) Value() string {
	return t.Model.Value()
}

// Float parses the value.
func (t ScoreInput) Float() (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t.Model.Value()), ",", "."), 64)
}

// SetError shows msg next to the input until the next edit.
func (t *ScoreInput) SetError(msg string) {
	t.err = msg
}
