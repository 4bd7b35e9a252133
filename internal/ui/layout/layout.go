// Package layout draws the frame around every screen: a header naming the
// screen and the rubric being graded, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/penilai/internal/ui/theme"
)

const (
	MinWidth  = 72
	MinHeight = 20

	// Below this height screens drop level descriptions and indicators.
	CompactHeight = 30
)

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

func (h KeyHint) render() string {
	return lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
}

// IsCompactHeight reports whether screens should render their short form.
func IsCompactHeight(height int) bool {
	return height < CompactHeight
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf("Penilai needs at least %dx%d.\nThe terminal is %dx%d.",
			MinWidth, MinHeight, width, height))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader shows the app name on the left, the screen title in the
// middle and context (scheme, student) on the right.
func RenderHeader(title, context string, width int) string {
	left := theme.Title.Render("  Penilai")
	center := theme.Body.Render(title)
	right := theme.Status.Render(context)

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	return bar.Width(width).Render(
		left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter lays hints out left to right, wrapping onto another line
// instead of letting the last hints run off the edge.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	inner := max(width-6, 1)

	var lines []string
	line := ""
	for _, h := range hints {
		part := h.render()
		switch {
		case line == "":
			line = part
		case lipgloss.Width(line)+len(sep)+lipgloss.Width(part) > inner:
			lines = append(lines, line)
			line = part
		default:
			line += sep + part
		}
	}
	lines = append(lines, line)

	for i := range lines {
		lines[i] = "  " + lines[i]
	}
	return bar.Width(width).Render(strings.Join(lines, "\n"))
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return header + "\n" + body + "\n" + footer
}
