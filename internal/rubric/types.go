// Package rubric recovers a structured assessment rubric from an
// AI-authored lesson-plan document and turns per-criterion scores into a
// single 0-100 grade.
//
// Every function in this package is total: malformed or adversarial input
// yields an empty result, never an error or a panic. All functions are pure
// and safe for concurrent use.
package rubric

// Scheme is the scoring semantics a rubric is assessed with.
type Scheme string

const (
	// SchemeRubric scores each criterion on a 4-level scale.
	SchemeRubric Scheme = "rubric"
	// SchemeDescriptiveCriteria marks each criterion met (1) or unmet (0).
	SchemeDescriptiveCriteria Scheme = "descriptive-criteria"
	// SchemeValueInterval takes a free 0-100 score per criterion.
	SchemeValueInterval Scheme = "value-interval"
	// SchemeUnknown means no scheme was recognised.
	SchemeUnknown Scheme = "unknown"
)

// Schemes lists every scheme in display order.
func Schemes() []Scheme {
	return []Scheme{SchemeRubric, SchemeDescriptiveCriteria, SchemeValueInterval, SchemeUnknown}
}

// ParseScheme maps a scheme name to a Scheme. Unrecognised names map to
// SchemeUnknown.
func ParseScheme(s string) Scheme {
	switch Scheme(s) {
	case SchemeRubric, SchemeDescriptiveCriteria, SchemeValueInterval:
		return Scheme(s)
	}
	return SchemeUnknown
}

// Known reports whether the scheme has a scoring formula.
func (s Scheme) Known() bool {
	switch s {
	case SchemeRubric, SchemeDescriptiveCriteria, SchemeValueInterval:
		return true
	}
	return false
}

// DisplayName is the Indonesian name shown to teachers.
func (s Scheme) DisplayName() string {
	switch s {
	case SchemeRubric:
		return "Rubrik"
	case SchemeDescriptiveCriteria:
		return "Deskripsi Kriteria"
	case SchemeValueInterval:
		return "Interval Nilai"
	}
	return "Tidak Dikenali"
}

// Range returns the valid raw score range for a criterion under the scheme.
func (s Scheme) Range() (lo, hi float64) {
	switch s {
	case SchemeRubric:
		return 1, MaxLevel
	case SchemeDescriptiveCriteria:
		return 0, 1
	case SchemeValueInterval:
		return 0, 100
	}
	return 0, 0
}

// MaxLevel is the highest level on the rubric scale.
const MaxLevel = 4

// Level is one performance level of a criterion.
type Level struct {
	Score       int    `json:"score"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

// Criterion is one assessable aspect.
type Criterion struct {
	Aspect    string  `json:"aspect"`
	Indicator string  `json:"indicator,omitempty"`
	Levels    []Level `json:"levels,omitempty"`
}

// Rubric is the result of extraction. Criteria may be empty.
type Rubric struct {
	Scheme Scheme `json:"scheme"`
	// Label holds a declared approach the classifier does not model,
	// verbatim. Empty for recognised schemes.
	Label    string      `json:"label,omitempty"`
	Criteria []Criterion `json:"criteria"`
}

// DisplayLabel returns the declared label, or the scheme's name.
func (r Rubric) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Scheme.DisplayName()
}

// Empty reports whether no criteria were recovered.
func (r Rubric) Empty() bool { return len(r.Criteria) == 0 }

// Entry is one student's sparse score map, keyed by 0-based criterion index.
type Entry map[int]float64

// TableBlock is the raw rows of one contiguous table, separator rows included.
type TableBlock []string

// SkippedRow is a table row the extractor did not turn into a criterion.
type SkippedRow struct {
	Row    string `json:"row"`
	Reason string `json:"reason"`
}

// Report is the diagnostic side channel of a parse.
type Report struct {
	Blocks        int          `json:"blocks"`
	ContentBlocks int          `json:"content_blocks"`
	Classified    Scheme       `json:"classified"`
	Path          string       `json:"path"`
	Skipped       []SkippedRow `json:"skipped,omitempty"`
}

// Extraction paths recorded in Report.Path.
const (
	PathNone    = "none"
	PathRubric  = "rubric"
	PathGeneric = "generic"
)
