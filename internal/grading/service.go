package grading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/penilai/internal/store"
)

// Service persists grading sessions.
type Service struct {
	scores store.ScoreRepo
	grades store.GradeRepo
	logger *slog.Logger
}

// NewService creates a grading service. A nil logger uses slog.Default.
func NewService(scores store.ScoreRepo, grades store.GradeRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{scores: scores, grades: grades, logger: logger}
}

// Resume loads the scores saved for sess.ID into sess.
func (s *Service) Resume(ctx context.Context, sess *Session) error {
	saved, err := s.scores.Entries(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("resume session %s: %w", sess.ID, err)
	}
	return sess.Restore(saved)
}

// SaveDraft stores the raw scores without producing grades.
func (s *Service) SaveDraft(ctx context.Context, sess *Session) error {
	for _, student := range sess.Students {
		e, _ := sess.Entry(student)
		if err := s.scores.SaveEntry(ctx, sess.ID, student, e); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}
	}
	return nil
}

// Sync stores every student's raw scores and appends one grade per student
// dated date and labelled with assessmentType. It returns the grades written.
func (s *Service) Sync(ctx context.Context, sess *Session, date time.Time, assessmentType string) ([]store.Grade, error) {
	assessmentType = strings.TrimSpace(assessmentType)
	if assessmentType == "" {
		return nil, errors.New("sync grades: assessment type is required")
	}
	if date.IsZero() {
		date = time.Now()
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	if err := s.SaveDraft(ctx, sess); err != nil {
		return nil, err
	}

	var (
		out        []store.Grade
		incomplete int
	)
	n := len(sess.Rubric.Criteria)
	for _, r := range sess.Results() {
		if !r.Complete(n) {
			incomplete++
		}
		g := store.Grade{
			SessionID:      sess.ID,
			DocumentID:     sess.DocumentID,
			Student:        r.Student,
			Score:          r.Score,
			Date:           date,
			AssessmentType: assessmentType,
			Scheme:         sess.Rubric.Scheme,
		}
		if err := s.grades.Append(ctx, g); err != nil {
			return out, fmt.Errorf("sync grades: %w", err)
		}
		out = append(out, g)
	}

	s.logger.Info("grades synced",
		"session", sess.ID,
		"document", sess.DocumentID,
		"scheme", sess.Rubric.Scheme,
		"students", len(out),
		"incomplete", incomplete,
		"assessment_type", assessmentType)
	return out, nil
}
