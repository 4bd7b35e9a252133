package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/penilai/internal/rubric"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // created at or after From
	To    time.Time // created at or before To
}

// Document is a lesson-plan document, stored as markdown.
type Document struct {
	ID        string
	Title     string
	Source    string // "generated", "import:<file>", "api"
	Markdown  string
	CreatedAt time.Time
}

// DocumentRepo stores lesson-plan documents.
type DocumentRepo interface {
	// Save inserts the document, or replaces the one with the same ID.
	Save(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id string) (*Document, error)
	// List returns documents newest first.
	List(ctx context.Context, opts QueryOpts) ([]Document, error)
}

// RubricRepo stores the rubric extracted from a document, one per document.
type RubricRepo interface {
	Save(ctx context.Context, documentID string, r rubric.Rubric) error
	Get(ctx context.Context, documentID string) (rubric.Rubric, error)
}

// ScoreRepo stores raw per-criterion scores of a grading session.
type ScoreRepo interface {
	// SaveEntry replaces everything stored for the student in the session.
	SaveEntry(ctx context.Context, sessionID, student string, entry rubric.Entry) error
	// Entries returns every student's entry in the session.
	Entries(ctx context.Context, sessionID string) (map[string]rubric.Entry, error)
}

// Grade is one student's final score for one assessment.
type Grade struct {
	ID             int
	Sequence       int64
	SessionID      string
	DocumentID     string
	Student        string
	Score          int
	Date           time.Time
	AssessmentType string
	Scheme         rubric.Scheme
	CreatedAt      time.Time
}

// GradeQuery filters GradeRepo.List. Empty fields match everything.
type GradeQuery struct {
	DocumentID string
	SessionID  string
	Student    string
	QueryOpts
}

// GradeRepo is the append-only grade book.
type GradeRepo interface {
	Append(ctx context.Context, g Grade) error
	// List returns grades in the order they were appended.
	List(ctx context.Context, q GradeQuery) ([]Grade, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls by purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// ModelUsage aggregates LLM calls by model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
