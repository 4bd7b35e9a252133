package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func lessonSchemaDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    map[string]any{"type": "string", "minLength": 1},
			"markdown": map[string]any{"type": "string", "minLength": 1},
		},
		"required":             []any{"title", "markdown"},
		"additionalProperties": false,
	}
}

func testSchema() *Schema {
	return &Schema{
		Name:        "test-lesson",
		Description: "A lesson plan",
		Definition:  lessonSchemaDefinition(),
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"title":"Fotosintesis","markdown":"# Modul Ajar"}`, false},
		{"missing required", `{"title":"Fotosintesis"}`, true},
		{"wrong type", `{"title":"Fotosintesis","markdown":42}`, true},
		{"empty string", `{"title":"","markdown":"x"}`, true},
		{"extra property", `{"title":"a","markdown":"b","rubric":[]}`, true},
		{"malformed JSON", `{not json}`, true},
		{"empty body", ``, true},
		{"array", `[]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("expected offending content to be kept, got %q", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_BadSchema(t *testing.T) {
	schema := &Schema{
		Name:       "test-broken",
		Definition: map[string]any{"type": 12},
	}
	err := validateResponse(schema, json.RawMessage(`{}`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse for uncompilable schema, got: %T (%v)", err, err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	a, err := compileSchema(testSchema())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := compileSchema(testSchema())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if a != b {
		t.Fatal("expected the compiled schema to be reused")
	}
}
