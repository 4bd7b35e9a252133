package scoring

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/ui/components"
	"github.com/abhisek/penilai/internal/ui/layout"
	"github.com/abhisek/penilai/internal/ui/theme"
)

func (s *ScoringScreen) View(width, height int) string {
	var b strings.Builder
	student := s.currentStudent()
	criteria := s.sess.Rubric.Criteria

	b.WriteString(theme.Title.Render(student))
	b.WriteString("\n")
	score, _ := s.sess.FinalScore(student)
	b.WriteString(components.ScoreBar("Final score", score, min(width-4, 60)).View())
	b.WriteString("\n\n")

	// Keep the cursor row visible: each criterion takes two lines, three
	// with the level description.
	perRow := 2
	if !layout.IsCompactHeight(height) {
		perRow = 3
	}
	visible := max((height-6)/perRow, 1)
	first := 0
	if s.cursor >= visible {
		first = s.cursor - visible + 1
	}
	last := min(first+visible, len(criteria))

	for i := first; i < last; i++ {
		b.WriteString(s.renderCriterion(i, width, perRow == 3))
	}
	if last < len(criteria) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  … %d more", len(criteria)-last)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case s.err != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.err))
	case s.status != "":
		b.WriteString(theme.Status.Render(s.status))
	}
	return b.String()
}

func (s *ScoringScreen) renderCriterion(i, width int, detailed bool) string {
	c := s.sess.Rubric.Criteria[i]
	selected := i == s.cursor

	marker := "  "
	nameStyle := theme.Unselected
	if selected {
		marker = "> "
		nameStyle = theme.Selected
	}
	name := fmt.Sprintf("%s%d. %s", marker, i+1, c.Aspect)

	var b strings.Builder
	b.WriteString(nameStyle.Width(width).Render(name))
	b.WriteString("\n")
	b.WriteString("     ")
	b.WriteString(s.renderInput(i, c, selected))
	b.WriteString("\n")

	if detailed {
		if d := s.detail(i, c); d != "" {
			b.WriteString(theme.Hint.Width(max(width-5, 10)).Render("     " + d))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *ScoringScreen) renderInput(i int, c rubric.Criterion, selected bool) string {
	v, scored := s.sess.Score(s.currentStudent(), i)
	switch s.sess.Rubric.Scheme {
	case rubric.SchemeRubric:
		chosen := 0
		if scored {
			chosen = int(v)
		}
		return components.NewLevelPicker(c.Levels, chosen).View()
	case rubric.SchemeDescriptiveCriteria:
		return components.Checkbox(v, scored)
	case rubric.SchemeValueInterval:
		if selected && s.editing {
			return s.input.View()
		}
		if !scored {
			return theme.Hint.Render("-")
		}
		return theme.Body.Render(formatValue(v))
	}
	return ""
}

// detail is the indicator, or for a scored rubric criterion the chosen
// level's description.
func (s *ScoringScreen) detail(i int, c rubric.Criterion) string {
	if s.sess.Rubric.Scheme == rubric.SchemeRubric {
		if v, ok := s.sess.Score(s.currentStudent(), i); ok {
			if d := components.NewLevelPicker(c.Levels, int(v)).Description(); d != "" {
				return d
			}
		}
	}
	return c.Indicator
}
