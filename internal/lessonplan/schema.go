package lessonplan

import "github.com/abhisek/penilai/internal/llm"

// PlanSchema is the structured output requested from the model.
var PlanSchema = &llm.Schema{
	Name:        "lesson-plan",
	Description: "A complete Modul Ajar lesson plan rendered as markdown",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Judul modul ajar",
				"minLength":   1,
			},
			"markdown": map[string]any{
				"type":        "string",
				"description": "Seluruh isi modul ajar dalam format markdown, termasuk tabel penilaian",
				"minLength":   1,
			},
		},
		"required":             []any{"title", "markdown"},
		"additionalProperties": false,
	},
}
