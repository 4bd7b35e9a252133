package rubric

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// MinGenericAspectLen is the shortest aspect, in characters, the generic
// path accepts.
const MinGenericAspectLen = 3

// Reasons recorded for skipped rows.
const (
	ReasonEmptyRow       = "empty row"
	ReasonEmptyAspect    = "empty aspect"
	ReasonIdentity       = "identity keyword"
	ReasonHeaderToken    = "header token"
	ReasonAspectTooShort = "aspect too short"
)

// Extraction is the outcome of Extractor.Extract.
type Extraction struct {
	Rubric  Rubric
	Path    string
	Skipped []SkippedRow
}

// Extractor turns content tables into criteria. It tries the rubric-specific
// path first when the scheme is Rubric, then falls back to the generic path
// whenever that yields nothing.
type Extractor struct {
	identity  []string
	headers   []string
	selectors TableSelectors
}

// NewExtractor builds an extractor over the given vocabulary.
func NewExtractor(kw Keywords) *Extractor {
	kw = kw.normalized()
	return &Extractor{
		identity:  kw.Identity(),
		headers:   kw.HeaderTokens,
		selectors: kw.Selectors,
	}
}

// Extract parses the content tables under the classified scheme.
func (e *Extractor) Extract(cl Classification, content []TableBlock) Extraction {
	out := Extraction{
		Rubric: Rubric{Scheme: cl.Scheme, Label: cl.Label, Criteria: []Criterion{}},
		Path:   PathNone,
	}

	if cl.Scheme == SchemeRubric {
		if table, ok := e.rubricTable(content); ok {
			criteria, skipped := e.parseRubricTable(table)
			out.Skipped = append(out.Skipped, skipped...)
			if len(criteria) > 0 {
				out.Rubric.Criteria = criteria
				out.Path = PathRubric
				return out
			}
		}
	}

	table, ok := e.genericTable(content)
	if !ok {
		return out
	}
	criteria, skipped := e.parseGenericTable(table)
	out.Skipped = append(out.Skipped, skipped...)
	if len(criteria) == 0 {
		return out
	}

	out.Rubric.Criteria = criteria
	out.Path = PathGeneric
	// A parseable 1-4 table is itself evidence of a rubric, unless the
	// document declared some other approach.
	if cl.Scheme == SchemeUnknown && !cl.Declared() {
		out.Rubric.Scheme = SchemeRubric
	}
	return out
}

func (e *Extractor) rubricTable(content []TableBlock) (TableBlock, bool) {
	for _, b := range content {
		text := b.Text()
		if containsAny(text, e.selectors.RubricHeading) && containsAny(text, e.selectors.RubricLevels) {
			return b, true
		}
	}
	return nil, false
}

func (e *Extractor) genericTable(content []TableBlock) (TableBlock, bool) {
	for _, b := range content {
		if containsAny(b.Text(), e.selectors.Generic) {
			return b, true
		}
	}
	return nil, false
}

func (e *Extractor) parseRubricTable(table TableBlock) ([]Criterion, []SkippedRow) {
	labels := levelLabels(table)

	var criteria []Criterion
	var skipped []SkippedRow
	for _, row := range table.DataRows() {
		cells := SplitCells(row)
		if len(cells) == 0 {
			skipped = append(skipped, SkippedRow{Row: row, Reason: ReasonEmptyRow})
			continue
		}
		aspect := Normalize(cells[0])
		if reason := e.reject(aspect); reason != "" {
			skipped = append(skipped, SkippedRow{Row: row, Reason: reason})
			continue
		}

		levels := make([]Level, MaxLevel)
		for i := range levels {
			// Missing description columns repeat the last column the row has.
			col := min(i+1, len(cells)-1)
			levels[i] = Level{
				Score:       MaxLevel - i,
				Label:       labels[i],
				Description: Normalize(cells[col]),
			}
		}
		criteria = append(criteria, Criterion{Aspect: aspect, Levels: levels})
	}
	return criteria, skipped
}

func (e *Extractor) parseGenericTable(table TableBlock) ([]Criterion, []SkippedRow) {
	var criteria []Criterion
	var skipped []SkippedRow
	for _, row := range table.DataRows() {
		cells := SplitCells(row)
		if len(cells) == 0 {
			skipped = append(skipped, SkippedRow{Row: row, Reason: ReasonEmptyRow})
			continue
		}
		aspect := Normalize(cells[0])
		reason := e.reject(aspect)
		if reason == "" && utf8.RuneCountInString(aspect) < MinGenericAspectLen {
			reason = ReasonAspectTooShort
		}
		if reason != "" {
			skipped = append(skipped, SkippedRow{Row: row, Reason: reason})
			continue
		}
		criteria = append(criteria, Criterion{
			Aspect:    aspect,
			Indicator: aspect,
			Levels:    nominalScale(),
		})
	}
	return criteria, skipped
}

// reject returns why an aspect cannot be a criterion, or "" if it can.
func (e *Extractor) reject(aspect string) string {
	if aspect == "" {
		return ReasonEmptyAspect
	}
	lower := strings.ToLower(aspect)
	for _, kw := range e.identity {
		if kw == "" {
			continue
		}
		if lower == kw || strings.HasPrefix(lower, kw+":") {
			return ReasonIdentity
		}
	}
	for _, tok := range e.headers {
		if lower == tok {
			return ReasonHeaderToken
		}
	}
	return ""
}

// levelLabels reads the level names from the header row, when the table
// has one, so level i is labelled by column i+1.
func levelLabels(table TableBlock) [MaxLevel]string {
	var labels [MaxLevel]string
	if len(table) < 2 || !IsSeparatorRow(table[1]) {
		return labels
	}
	header := SplitCells(table[0])
	for i := range labels {
		if i+1 < len(header) {
			labels[i] = Normalize(header[i+1])
		}
	}
	return labels
}

// nominalScale is the 1-4 level scaffold attached by the generic path.
func nominalScale() []Level {
	levels := make([]Level, MaxLevel)
	for i := range levels {
		levels[i] = Level{Score: i + 1, Label: strconv.Itoa(i + 1)}
	}
	return levels
}
