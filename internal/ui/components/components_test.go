package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/penilai/internal/rubric"
)

func typeText(in ScoreInput, text string) ScoreInput {
	for _, r := range text {
		in, _ = in.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return in
}

func TestScoreInput_AcceptsDecimal(t *testing.T) {
	in := typeText(NewScoreInput(""), "72,5")
	v, err := in.Float()
	if err != nil || v != 72.5 {
		t.Fatalf("Float() = %v, %v; want 72.5", v, err)
	}
}

func TestScoreInput_SingleSeparator(t *testing.T) {
	in := typeText(NewScoreInput(""), "1.2.3x")
	if in.Value() != "1.23" {
		t.Fatalf("Value() = %q, want %q", in.Value(), "1.23")
	}
}

func TestScoreInput_ErrorClearedOnEdit(t *testing.T) {
	in := NewScoreInput("")
	in.SetError("not a number")
	if !strings.Contains(in.View(), "not a number") {
		t.Fatal("expected error in view")
	}
	in = typeText(in, "5")
	if strings.Contains(in.View(), "not a number") {
		t.Fatal("error should clear after typing")
	}
}

func TestLevelPicker_DefaultScale(t *testing.T) {
	p := NewLevelPicker(nil, 2)
	if len(p.Levels) != rubric.MaxLevel {
		t.Fatalf("expected %d default levels, got %d", rubric.MaxLevel, len(p.Levels))
	}
	view := p.View()
	for _, want := range []string{"[1]", "[2]", "[3]", "[4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if p.Description() != "" {
		t.Errorf("plain scale has no description, got %q", p.Description())
	}
}

func TestLevelPicker_Labels(t *testing.T) {
	p := NewLevelPicker([]rubric.Level{
		{Score: 1, Label: "Mulai Berkembang", Description: "Perlu bantuan"},
		{Score: 4, Label: "Sangat Berkembang", Description: "Mandiri"},
	}, 4)
	if !strings.Contains(p.View(), "[4] Sangat Berkembang") {
		t.Errorf("labelled level missing: %q", p.View())
	}
	if p.Description() != "Mandiri" {
		t.Errorf("Description() = %q, want %q", p.Description(), "Mandiri")
	}
}

func TestCheckbox(t *testing.T) {
	if !strings.Contains(Checkbox(1, true), "met") || strings.Contains(Checkbox(1, true), "not met") {
		t.Error("1 should render met")
	}
	if !strings.Contains(Checkbox(0, true), "not met") {
		t.Error("0 should render not met")
	}
	if !strings.Contains(Checkbox(0, false), "[ ]") {
		t.Error("unscored should render empty box")
	}
}

func TestScoreBar(t *testing.T) {
	if !strings.Contains(ScoreBar("Final score", 75, 40).View(), "75%") {
		t.Error("expected percentage")
	}
}

func TestScoreBarClamps(t *testing.T) {
	if got := ScoreBar("", 140, 40).Score; got != 100 {
		t.Errorf("score = %d, want 100", got)
	}
	if got := ScoreBar("", -5, 40).Score; got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}
