package lessonplan

import (
	"errors"
	"strings"
	"time"

	"github.com/abhisek/penilai/internal/rubric"
)

// Request describes the lesson plan to generate.
type Request struct {
	Subject string // mata pelajaran, e.g. "Matematika"
	Class   string // kelas, e.g. "VII"
	Topic   string // materi pokok
	Phase   string // fase, e.g. "D"; optional
	// Duration is the time allocation, e.g. "2 x 40 menit". Optional.
	Duration string
	// Scheme selects the assessment section. SchemeUnknown lets the model
	// pick the approach.
	Scheme rubric.Scheme
	// Notes are extra instructions from the teacher, passed through verbatim.
	Notes string
}

// ErrInvalidRequest is wrapped by Validate.
var ErrInvalidRequest = errors.New("invalid lesson plan request")

// Validate checks the required fields.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(r.Class) == "" {
		missing = append(missing, "class")
	}
	if strings.TrimSpace(r.Topic) == "" {
		missing = append(missing, "topic")
	}
	if len(missing) > 0 {
		return &requestError{missing: missing}
	}
	return nil
}

type requestError struct {
	missing []string
}

func (e *requestError) Error() string {
	return ErrInvalidRequest.Error() + ": missing " + strings.Join(e.missing, ", ")
}

func (e *requestError) Unwrap() error { return ErrInvalidRequest }

// Plan is a generated lesson plan with its recovered rubric.
type Plan struct {
	Title       string
	Markdown    string
	Rubric      rubric.Rubric
	Report      rubric.Report
	GeneratedAt time.Time
}
