// Package lessonplan generates Modul Ajar lesson plans with an LLM and
// recovers their assessment rubric.
package lessonplan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/penilai/internal/llm"
	"github.com/abhisek/penilai/internal/rubric"
)

// Service generates lesson plans.
type Service struct {
	provider llm.Provider
	markers  rubric.SchemeMarkers
	parser   *rubric.Parser
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a lesson-plan service. A nil logger uses slog.Default.
func NewService(provider llm.Provider, kw rubric.Keywords, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		markers:  kw.Markers,
		parser:   rubric.NewParser(kw),
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

type planOutput struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// Generate asks the model for a lesson plan and extracts its rubric. A plan
// whose rubric comes back empty is still returned; the caller decides whether
// an empty rubric is acceptable.
func (s *Service) Generate(ctx context.Context, req Request) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeLessonPlan)

	llmReq := llm.UserPrompt(systemPrompt, buildUserMessage(req, s.markers))
	llmReq.Schema = PlanSchema
	llmReq.MaxTokens = s.cfg.MaxTokens
	llmReq.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("lesson plan generation: %w", err)
	}

	var out planOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse lesson plan response: %w", err)
	}

	r, report := s.parser.ParseWithReport(out.Markdown)
	if req.Scheme.Known() && r.Scheme != req.Scheme {
		s.logger.Warn("lesson plan scheme differs from request",
			"requested", req.Scheme, "extracted", r.Scheme)
	}
	s.logger.Info("lesson plan generated",
		"title", out.Title,
		"scheme", r.Scheme,
		"criteria", len(r.Criteria),
		"path", report.Path,
		"tokens", resp.Usage.TotalTokens)

	return &Plan{
		Title:       out.Title,
		Markdown:    out.Markdown,
		Rubric:      r,
		Report:      report,
		GeneratedAt: s.now().UTC(),
	}, nil
}
