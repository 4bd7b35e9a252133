// Package rubricview is the root screen of a grading run: it lists the
// extracted criteria and each student's progress.
package rubricview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/penilai/internal/grading"
	"github.com/abhisek/penilai/internal/router"
	"github.com/abhisek/penilai/internal/screen"
	"github.com/abhisek/penilai/internal/screens/scoring"
	"github.com/abhisek/penilai/internal/ui/layout"
	"github.com/abhisek/penilai/internal/ui/theme"
)

// RubricScreen lists the rubric's criteria.
type RubricScreen struct {
	title   string
	sess    *grading.Session
	persist scoring.Persister
	opts    scoring.Options
	cursor  int
}

var _ screen.Screen = (*RubricScreen)(nil)
var _ screen.KeyHintProvider = (*RubricScreen)(nil)
var _ screen.ContextProvider = (*RubricScreen)(nil)

// New creates the rubric screen for sess. title is the document title.
func New(title string, sess *grading.Session, persist scoring.Persister, opts scoring.Options) *RubricScreen {
	return &RubricScreen{title: title, sess: sess, persist: persist, opts: opts}
}

func (s *RubricScreen) Init() tea.Cmd {
	return nil
}

func (s *RubricScreen) Title() string {
	return "Rubric"
}

func (s *RubricScreen) HeaderContext() string {
	return s.sess.Rubric.DisplayLabel()
}

func (s *RubricScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Score from here"},
	}
}

func (s *RubricScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.sess.Rubric.Criteria)-1 {
				s.cursor++
			}
		case "enter":
			return s, router.Push(scoring.New(s.sess, s.persist, s.opts, s.cursor))
		}
	}
	return s, nil
}

func (s *RubricScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(s.title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s  %d criteria  %d students  %s",
		s.sess.Rubric.DisplayLabel(), len(s.sess.Rubric.Criteria), len(s.sess.Students), s.opts.AssessmentType)))
	b.WriteString("\n\n")

	for i, c := range s.sess.Rubric.Criteria {
		line := fmt.Sprintf("%d. %s", i+1, c.Aspect)
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("> " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
		if i == s.cursor && c.Indicator != "" && !layout.IsCompactHeight(height) {
			b.WriteString(theme.Hint.Width(max(width-5, 10)).Render("     " + c.Indicator))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(s.progress(width))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Session " + s.sess.ID + " (penilai grade --resume)"))
	return b.String()
}

// progress renders one card line per student with their running score.
func (s *RubricScreen) progress(width int) string {
	n := len(s.sess.Rubric.Criteria)
	var lines []string
	for _, r := range s.sess.Results() {
		lines = append(lines, fmt.Sprintf("%-20s %3d   %d/%d", r.Student, r.Score, r.Scored, n))
	}
	card := theme.Card.Width(min(width-2, 48))
	return card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
