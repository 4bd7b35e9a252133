// Package scoring is the per-student scoring screen. It shows one criterion
// per row and the input the rubric's scheme calls for: level keys for a
// rubric, a met/unmet toggle for descriptive criteria and a numeric field
// for value intervals.
package scoring

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/penilai/internal/grading"
	"github.com/abhisek/penilai/internal/router"
	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/screen"
	"github.com/abhisek/penilai/internal/screens/summary"
	"github.com/abhisek/penilai/internal/store"
	"github.com/abhisek/penilai/internal/ui/components"
	"github.com/abhisek/penilai/internal/ui/layout"
)

// persistTimeout bounds a single draft save or sync.
const persistTimeout = 10 * time.Second

// Persister saves the session. *grading.Service implements it.
type Persister interface {
	SaveDraft(ctx context.Context, sess *grading.Session) error
	Sync(ctx context.Context, sess *grading.Session, date time.Time, assessmentType string) ([]store.Grade, error)
}

// Options are the assessment details grades are synced with.
type Options struct {
	Date           time.Time
	AssessmentType string
}

// ScoringScreen scores the session's students one at a time.
type ScoringScreen struct {
	sess    *grading.Session
	persist Persister
	opts    Options

	student int
	cursor  int

	editing bool
	input   components.ScoreInput

	syncing bool
	status  string
	err     string
}

var _ screen.Screen = (*ScoringScreen)(nil)
var _ screen.KeyHintProvider = (*ScoringScreen)(nil)
var _ screen.InputCapturer = (*ScoringScreen)(nil)
var _ screen.ContextProvider = (*ScoringScreen)(nil)

// New creates a scoring screen with the cursor on criterion start.
func New(sess *grading.Session, persist Persister, opts Options, start int) *ScoringScreen {
	if start < 0 || start >= len(sess.Rubric.Criteria) {
		start = 0
	}
	return &ScoringScreen{
		sess:    sess,
		persist: persist,
		opts:    opts,
		cursor:  start,
	}
}

func (s *ScoringScreen) Init() tea.Cmd {
	return nil
}

func (s *ScoringScreen) Title() string {
	return "Scoring"
}

// HeaderContext shows the scheme and the student being scored.
func (s *ScoringScreen) HeaderContext() string {
	return fmt.Sprintf("%s  %s (%d/%d)", s.sess.Rubric.DisplayLabel(), s.currentStudent(), s.student+1, len(s.sess.Students))
}

// CapturesInput reports whether a value is being typed or a sync is in
// flight; either way Esc must not leave the screen.
func (s *ScoringScreen) CapturesInput() bool {
	return s.editing || s.syncing
}

func (s *ScoringScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Criterion"}}
	switch s.sess.Rubric.Scheme {
	case rubric.SchemeRubric:
		hints = append(hints, layout.KeyHint{Key: "1-4", Description: "Level"})
	case rubric.SchemeDescriptiveCriteria:
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Met/Unmet"})
	case rubric.SchemeValueInterval:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Edit"})
	}
	return append(hints,
		layout.KeyHint{Key: "Bksp", Description: "Clear"},
		layout.KeyHint{Key: "Tab", Description: "Student"},
		layout.KeyHint{Key: "Ctrl+S", Description: "Sync"},
	)
}

func (s *ScoringScreen) currentStudent() string {
	return s.sess.Students[s.student]
}

func (s *ScoringScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case draftSavedMsg:
		if msg.Err != nil {
			s.err = fmt.Sprintf("Draft not saved: %v", msg.Err)
		} else {
			s.status = "Draft saved"
		}
		return s, nil

	case syncedMsg:
		s.syncing = false
		if msg.Err != nil {
			s.err = fmt.Sprintf("Sync failed: %v", msg.Err)
			return s, nil
		}
		next := summary.New(s.sess.Rubric, s.sess.Results(), msg.Grades)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.editing {
			return s.handleEditKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ScoringScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.syncing {
		return s, nil
	}
	s.err = ""
	s.status = ""

	key := msg.String()
	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "down", "j":
		if s.cursor < len(s.sess.Rubric.Criteria)-1 {
			s.cursor++
		}
		return s, nil
	case "tab":
		s.student = (s.student + 1) % len(s.sess.Students)
		return s, s.saveDraft()
	case "shift+tab":
		s.student = (s.student - 1 + len(s.sess.Students)) % len(s.sess.Students)
		return s, s.saveDraft()
	case "backspace", "delete":
		s.setErr(s.sess.Clear(s.currentStudent(), s.cursor))
		return s, nil
	case "ctrl+s":
		s.syncing = true
		s.status = "Syncing grades..."
		return s, s.sync()
	}

	switch s.sess.Rubric.Scheme {
	case rubric.SchemeRubric:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '0'+rubric.MaxLevel {
			s.setErr(s.sess.SetScore(s.currentStudent(), s.cursor, float64(key[0]-'0')))
		}
	case rubric.SchemeDescriptiveCriteria:
		if key == "space" || key == "enter" {
			s.setErr(s.sess.Toggle(s.currentStudent(), s.cursor))
		}
	case rubric.SchemeValueInterval:
		if key == "enter" {
			return s, s.startEdit()
		}
	}
	return s, nil
}

func (s *ScoringScreen) startEdit() tea.Cmd {
	s.input = components.NewScoreInput("0-100")
	if v, ok := s.sess.Score(s.currentStudent(), s.cursor); ok {
		s.input.SetValue(formatValue(v))
	}
	s.editing = true
	return s.input.Init()
}

func (s *ScoringScreen) handleEditKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		return s, nil
	case "enter":
		if s.input.Value() == "" {
			s.editing = false
			s.setErr(s.sess.Clear(s.currentStudent(), s.cursor))
			return s, nil
		}
		v, err := s.input.Float()
		if err != nil {
			s.input.SetError("not a number")
			return s, nil
		}
		if err := s.sess.SetScore(s.currentStudent(), s.cursor, v); err != nil {
			s.input.SetError("must be between 0 and 100")
			return s, nil
		}
		s.editing = false
		if s.cursor < len(s.sess.Rubric.Criteria)-1 {
			s.cursor++
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ScoringScreen) setErr(err error) {
	if err != nil {
		s.err = err.Error()
	}
}

func (s *ScoringScreen) saveDraft() tea.Cmd {
	if s.persist == nil {
		return nil
	}
	sess, persist := s.sess.Snapshot(), s.persist
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		return draftSavedMsg{Err: persist.SaveDraft(ctx, sess)}
	}
}

func (s *ScoringScreen) sync() tea.Cmd {
	sess, persist, opts := s.sess.Snapshot(), s.persist, s.opts
	return func() tea.Msg {
		if persist == nil {
			return syncedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		grades, err := persist.Sync(ctx, sess, opts.Date, opts.AssessmentType)
		return syncedMsg{Grades: grades, Err: err}
	}
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}
