package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/penilai/internal/store"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockJSON(map[string]int{"b": 2}),
	)

	first, err := mock.Generate(context.Background(), UserPrompt("", "first"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"a":1}` || first.Usage.TotalTokens != 15 {
		t.Fatalf("unexpected first response: %s %+v", first.Content, first.Usage)
	}
	second, err := mock.Generate(context.Background(), UserPrompt("", "second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"b":2}` {
		t.Fatalf("unexpected second response: %s", second.Content)
	}
	if mock.CallCount() != 2 || mock.Calls[1].Messages[0].Content != "second" {
		t.Fatalf("calls not recorded: %+v", mock.Calls)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]string{"title": "x"}))
	req := UserPrompt("", "x")
	req.Schema = testSchema()

	_, err := mock.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected %q, got %q", PurposeUnknown, p)
	}
	if p := PurposeFrom(WithPurpose(ctx, PurposeLessonPlan)); p != PurposeLessonPlan {
		t.Fatalf("expected %q, got %q", PurposeLessonPlan, p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "PENILAI_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: VendorConfig{APIKey: "k"}}, ""},
		{"gemini without key", Config{Provider: ProviderGemini}, "PENILAI_GEMINI_API_KEY"},
		{"openrouter with key", Config{Provider: ProviderOpenRouter, OpenRouter: VendorConfig{APIKey: "k"}}, ""},
		{"mock needs no key", Config{Provider: ProviderMock}, ""},
		{"unknown provider", Config{Provider: "cohere"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PENILAI_LLM_PROVIDER", "openai")
	t.Setenv("PENILAI_OPENAI_API_KEY", "sk-test")
	t.Setenv("PENILAI_OPENAI_MODEL", "gpt-4.1")
	t.Setenv("PENILAI_LLM_TIMEOUT", "2m")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4.1" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Timeout.Minutes() != 2 {
		t.Fatalf("expected 2m timeout, got %s", cfg.Timeout)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Fatalf("defaults should survive, got %q", cfg.Anthropic.Model)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected nothing discovered")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o" {
		t.Fatalf("expected openai to win over anthropic, got %+v", cfg)
	}
}

func TestConfigDiscoverKeepsConfiguredKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g")

	cfg := DefaultConfig()
	cfg.Anthropic.APIKey = "configured"
	if !cfg.Discover() || cfg.Provider != ProviderAnthropic {
		t.Fatalf("configured provider should win, got %q", cfg.Provider)
	}

	cfg = DefaultConfig()
	cfg.Gemini.Model = "gemini-pro"
	if !cfg.Discover() || cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g" {
		t.Fatalf("expected gemini discovered, got %+v", cfg)
	}
	if cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("discovery must keep configured model, got %q", cfg.Gemini.Model)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock, Retry: retryConfig()}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != ProviderMock {
		t.Fatalf("expected mock model, got %q", p.ModelID())
	}
	if _, err := NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil, nil); err == nil {
		t.Fatal("expected validation error without key")
	}
}

type recorderStub struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recorderStub) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	rec := &recorderStub{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"title":"a","markdown":"b"}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		downReply,
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := WithLogging(mock, ProviderMock, rec, logger)
	ctx := WithPurpose(context.Background(), PurposeLessonPlan)

	req := UserPrompt("Anda adalah guru.", "Buat modul ajar.")
	req.Schema = testSchema()
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected second call to fail")
	}

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(rec.events))
	}
	ok, failed := rec.events[0], rec.events[1]
	if !ok.Success || ok.Purpose != PurposeLessonPlan || ok.InputTokens != 7 || ok.Provider != ProviderMock {
		t.Fatalf("unexpected success event: %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[system]\nAnda adalah guru.") || !strings.Contains(ok.RequestBody, "[schema: test-lesson]") {
		t.Fatalf("request body not rendered: %q", ok.RequestBody)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Fatalf("unexpected failure event: %+v", failed)
	}
}

func TestLoggingProvider_RecorderErrorIgnored(t *testing.T) {
	rec := &recorderStub{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(okReply), ProviderMock, rec, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("recorder failure must not fail the request: %v", err)
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		input float64
	}{
		{"claude-haiku-4-5-20251001", 1},
		{"gpt-4o-mini", 0.15},
		{"gpt-4o-2024-08-06", 2.5},
		{"openai/gpt-4.1-mini", 0.4},
		{"gemini-2.5-flash", 0.3},
	}
	for _, tt := range tests {
		c := LookupCost(tt.model)
		if c == nil || c.InputPerMTok != tt.input {
			t.Errorf("LookupCost(%q) = %+v, want input %v", tt.model, c, tt.input)
		}
	}
	if LookupCost("mock") != nil {
		t.Error("expected unknown model to have no price")
	}

	cost := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}.Cost(1_000_000, 200_000)
	if math.Abs(cost-2) > 1e-9 {
		t.Errorf("expected $2, got %v", cost)
	}
}
