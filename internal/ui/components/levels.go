package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/ui/theme"
)

// LevelPicker renders the four rubric levels of a criterion with the chosen
// one highlighted. Levels are shown lowest first so the key matches the
// position.
type LevelPicker struct {
	Levels []rubric.Level
	// Chosen is the selected level score, 0 when unscored.
	Chosen int
}

// NewLevelPicker creates a picker over the criterion's levels. A criterion
// without levels gets the plain 1-4 scale.
func NewLevelPicker(levels []rubric.Level, chosen int) LevelPicker {
	if len(levels) == 0 {
		for s := 1; s <= rubric.MaxLevel; s++ {
			levels = append(levels, rubric.Level{Score: s, Label: fmt.Sprint(s)})
		}
	}
	return LevelPicker{Levels: levels, Chosen: chosen}
}

// View renders the buttons on one line.
func (p LevelPicker) View() string {
	parts := make([]string, 0, rubric.MaxLevel)
	for s := 1; s <= rubric.MaxLevel; s++ {
		label := fmt.Sprintf("[%d]", s)
		if l, ok := p.level(s); ok && l.Label != "" && l.Label != fmt.Sprint(s) {
			label = fmt.Sprintf("[%d] %s", s, l.Label)
		}
		if s == p.Chosen {
			parts = append(parts, theme.LevelActive.Render(label))
		} else {
			parts = append(parts, theme.LevelInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// Description returns the chosen level's description, if any.
func (p LevelPicker) Description() string {
	if l, ok := p.level(p.Chosen); ok {
		return l.Description
	}
	return ""
}

func (p LevelPicker) level(score int) (rubric.Level, bool) {
	for _, l := range p.Levels {
		if l.Score == score {
			return l, true
		}
	}
	return rubric.Level{}, false
}

// Checkbox renders a met/unmet flag of a descriptive criterion.
func Checkbox(value float64, scored bool) string {
	switch {
	case !scored:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("[ ]")
	case value == 1:
		return theme.Met.Render("[x] met")
	default:
		return theme.Unmet.Render("[-] not met")
	}
}
