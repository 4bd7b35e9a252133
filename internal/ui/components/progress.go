package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/penilai/internal/ui/theme"
)

// PassMark is the grade at which the bar turns from amber to green.
const PassMark = 75

// Bar is a horizontal 0-100 gauge with a label on the left and the value on
// the right, used for the live final score.
type Bar struct {
	Label string
	Score int
	Width int
}

// ScoreBar returns a bar for a 0-100 grade. Out-of-range scores are clamped.
func ScoreBar(label string, score, width int) Bar {
	return Bar{Label: label, Score: min(max(score, 0), 100), Width: width}
}

func (b Bar) fill() lipgloss.Style {
	switch {
	case b.Score >= PassMark:
		return theme.ProgressFilled
	case b.Score > 0:
		return theme.ProgressFilled.Background(theme.Accent)
	default:
		return theme.ProgressEmpty
	}
}

// View renders the bar on one line.
func (b Bar) View() string {
	label := ""
	if b.Label != "" {
		label = theme.Body.Render(b.Label) + "  "
	}
	value := fmt.Sprintf("  %3d%%", b.Score)

	track := max(b.Width-lipgloss.Width(label)-len(value), 4)
	filled := track * b.Score / 100

	return label +
		b.fill().Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", track-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(value)
}
