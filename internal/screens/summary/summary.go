// Package summary shows the grades a sync produced.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penilai/internal/grading"
	"github.com/abhisek/penilai/internal/router"
	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/screen"
	"github.com/abhisek/penilai/internal/store"
	"github.com/abhisek/penilai/internal/ui/layout"
	"github.com/abhisek/penilai/internal/ui/theme"
)

// SummaryScreen displays every student's final score after a sync.
type SummaryScreen struct {
	rubric  rubric.Rubric
	results []grading.Result
	grades  []store.Grade
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(r rubric.Rubric, results []grading.Result, grades []store.Grade) *SummaryScreen {
	return &SummaryScreen{rubric: r, results: results, grades: grades}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Grades Synced"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to rubric"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, router.PopToRoot
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("%d grades saved", len(s.grades))))
	b.WriteString("\n")

	sub := s.rubric.DisplayLabel()
	if len(s.grades) > 0 {
		g := s.grades[0]
		sub = fmt.Sprintf("%s  %s  %s", sub, g.AssessmentType, g.Date.Format("2006-01-02"))
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(sub))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	n := len(s.rubric.Criteria)
	nameWidth := 0
	for _, r := range s.results {
		nameWidth = max(nameWidth, lipgloss.Width(r.Student))
	}
	for _, r := range s.results {
		line := fmt.Sprintf("%-*s   %3d   %d/%d scored", nameWidth, r.Student, r.Score, r.Scored, n)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if !r.Complete(n) {
			style = style.Foreground(theme.Accent)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if incomplete := s.incomplete(); incomplete > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(fmt.Sprintf("%d student(s) have unscored criteria, counted as 0", incomplete))))
	}
	return b.String()
}

func (s *SummaryScreen) incomplete() int {
	n := 0
	for _, r := range s.results {
		if !r.Complete(len(s.rubric.Criteria)) {
			n++
		}
	}
	return n
}
