// Package grading collects per-student per-criterion scores against an
// extracted rubric and turns them into final grades.
package grading

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/penilai/internal/rubric"
)

var (
	// ErrUnknownStudent is returned for a student not on the session roster.
	ErrUnknownStudent = errors.New("unknown student")
	// ErrCriterionIndex is returned for an index that names no criterion.
	ErrCriterionIndex = errors.New("criterion index out of range")
	// ErrNotToggle is returned by Toggle outside the descriptive-criteria scheme.
	ErrNotToggle = errors.New("scheme is not scored by toggling")
	// ErrEmptyRoster is returned when a session has no students.
	ErrEmptyRoster = errors.New("no students")
)

// Session is one assessment of one rubric for a roster of students. It is
// not safe for concurrent use.
type Session struct {
	ID         string
	DocumentID string
	Rubric     rubric.Rubric
	Students   []string

	entries map[string]rubric.Entry
}

// NewSession starts a session. Student names are trimmed; blanks and
// duplicates are dropped. The rubric's scheme must have a scoring formula.
func NewSession(documentID string, r rubric.Rubric, students []string) (*Session, error) {
	if !r.Scheme.Known() {
		return nil, fmt.Errorf("new session: %w: %q", rubric.ErrUnscoredScheme, r.Scheme)
	}

	seen := make(map[string]bool, len(students))
	var roster []string
	for _, s := range students {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		roster = append(roster, s)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("new session: %w", ErrEmptyRoster)
	}

	entries := make(map[string]rubric.Entry, len(roster))
	for _, s := range roster {
		entries[s] = rubric.Entry{}
	}
	return &Session{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Rubric:     r,
		Students:   roster,
		entries:    entries,
	}, nil
}

func (s *Session) entry(student string) (rubric.Entry, error) {
	e, ok := s.entries[student]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStudent, student)
	}
	return e, nil
}

func (s *Session) checkIndex(idx int) error {
	if idx < 0 || idx >= len(s.Rubric.Criteria) {
		return fmt.Errorf("%w: %d (criteria: %d)", ErrCriterionIndex, idx, len(s.Rubric.Criteria))
	}
	return nil
}

// SetScore records a raw score, validated against the scheme's range.
func (s *Session) SetScore(student string, idx int, value float64) error {
	e, err := s.entry(student)
	if err != nil {
		return err
	}
	if err := s.checkIndex(idx); err != nil {
		return err
	}
	if err := rubric.ValidateScore(s.Rubric.Scheme, value); err != nil {
		return fmt.Errorf("%s, criterion %d: %w", student, idx, err)
	}
	e[idx] = value
	return nil
}

// Clear removes a recorded score. Clearing an unscored criterion is a no-op.
func (s *Session) Clear(student string, idx int) error {
	e, err := s.entry(student)
	if err != nil {
		return err
	}
	if err := s.checkIndex(idx); err != nil {
		return err
	}
	delete(e, idx)
	return nil
}

// Toggle flips a descriptive criterion between met and unmet. An unscored
// criterion becomes met.
func (s *Session) Toggle(student string, idx int) error {
	if s.Rubric.Scheme != rubric.SchemeDescriptiveCriteria {
		return ErrNotToggle
	}
	e, err := s.entry(student)
	if err != nil {
		return err
	}
	if err := s.checkIndex(idx); err != nil {
		return err
	}
	if e[idx] == 1 {
		e[idx] = 0
	} else {
		e[idx] = 1
	}
	return nil
}

// Entry returns a copy of the student's scores.
func (s *Session) Entry(student string) (rubric.Entry, error) {
	e, err := s.entry(student)
	if err != nil {
		return nil, err
	}
	return maps.Clone(e), nil
}

// Snapshot returns a copy of the session that shares no mutable state with
// s. Hand snapshots, not s, to other goroutines.
func (s *Session) Snapshot() *Session {
	entries := make(map[string]rubric.Entry, len(s.entries))
	for student, e := range s.entries {
		entries[student] = maps.Clone(e)
	}
	return &Session{
		ID:         s.ID,
		DocumentID: s.DocumentID,
		Rubric:     s.Rubric,
		Students:   slices.Clone(s.Students),
		entries:    entries,
	}
}

// Score returns one recorded score.
func (s *Session) Score(student string, idx int) (float64, bool) {
	v, ok := s.entries[student][idx]
	return v, ok
}

// FinalScore returns the student's 0-100 grade so far.
func (s *Session) FinalScore(student string) (int, error) {
	e, err := s.entry(student)
	if err != nil {
		return 0, err
	}
	return rubric.FinalScore(s.Rubric.Scheme, s.Rubric.Criteria, e), nil
}

// Restore replaces recorded scores with previously saved ones. Students not
// on the roster are ignored; any invalid value rejects the whole restore.
func (s *Session) Restore(saved map[string]rubric.Entry) error {
	n := len(s.Rubric.Criteria)
	for student, e := range saved {
		if _, ok := s.entries[student]; !ok {
			continue
		}
		if err := rubric.ValidateEntry(s.Rubric.Scheme, n, e); err != nil {
			return fmt.Errorf("restore %s: %w", student, err)
		}
	}
	for student, e := range saved {
		if _, ok := s.entries[student]; ok {
			s.entries[student] = maps.Clone(e)
		}
	}
	return nil
}

// Result is one student's standing in a session.
type Result struct {
	Student string
	Score   int
	// Scored counts the criteria with a recorded value.
	Scored int
}

// Complete reports whether every criterion has a value.
func (r Result) Complete(criteria int) bool { return r.Scored >= criteria }

// Results returns every student's grade, in roster order.
func (s *Session) Results() []Result {
	out := make([]Result, 0, len(s.Students))
	for _, student := range s.Students {
		e := s.entries[student]
		out = append(out, Result{
			Student: student,
			Score:   rubric.FinalScore(s.Rubric.Scheme, s.Rubric.Criteria, e),
			Scored:  len(e),
		})
	}
	return out
}
