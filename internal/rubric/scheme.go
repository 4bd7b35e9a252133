package rubric

import (
	"regexp"
	"strings"
)

// Scheme classifier rule names, in evaluation order.
const (
	RuleRubricMarker      = "rubric-marker"
	RuleDescriptiveMarker = "descriptive-marker"
	RuleIntervalMarker    = "interval-marker"
	RuleDeclaredApproach  = "declared-approach"
	RuleTableDivider      = "table-divider"
	RuleNoScheme          = "no-scheme"
)

// Classification is the outcome of classifying a document.
type Classification struct {
	Scheme Scheme
	// Label is set only when the document declares an approach the
	// classifier does not model; it holds the declaration verbatim.
	Label string
	// Rule names the rule that decided.
	Rule string
}

// Declared reports whether the document declared its own approach.
func (c Classification) Declared() bool { return c.Label != "" }

type schemeRule struct {
	name   string
	decide func(doc string) (Classification, bool)
}

// SchemeClassifier decides which scoring scheme a whole document uses.
// Rules run top to bottom; the first match wins.
type SchemeClassifier struct {
	rules []schemeRule
}

// NewSchemeClassifier builds a classifier over the given vocabulary.
func NewSchemeClassifier(kw Keywords) *SchemeClassifier {
	marker := func(name, phrase string, scheme Scheme) schemeRule {
		return schemeRule{
			name: name,
			decide: func(doc string) (Classification, bool) {
				if phrase != "" && strings.Contains(doc, phrase) {
					return Classification{Scheme: scheme}, true
				}
				return Classification{}, false
			},
		}
	}

	approach := approachPattern(kw.Markers.Approach)

	return &SchemeClassifier{
		rules: []schemeRule{
			marker(RuleRubricMarker, kw.Markers.Rubric, SchemeRubric),
			marker(RuleDescriptiveMarker, kw.Markers.DescriptiveCriteria, SchemeDescriptiveCriteria),
			marker(RuleIntervalMarker, kw.Markers.ValueInterval, SchemeValueInterval),
			{
				name: RuleDeclaredApproach,
				decide: func(doc string) (Classification, bool) {
					if approach == nil {
						return Classification{}, false
					}
					m := approach.FindStringSubmatch(doc)
					if m == nil {
						return Classification{}, false
					}
					label := strings.Trim(m[1], "*_` \t")
					if label == "" {
						return Classification{}, false
					}
					return Classification{Scheme: SchemeUnknown, Label: label}, true
				},
			},
			{
				name: RuleTableDivider,
				decide: func(doc string) (Classification, bool) {
					if strings.Contains(doc, "|") && strings.Contains(doc, "---") {
						return Classification{Scheme: SchemeRubric}, true
					}
					return Classification{}, false
				},
			},
		},
	}
}

// approachPattern matches "<phrase> <value>" up to the end of the line,
// tolerating emphasis markers around the phrase's colon.
func approachPattern(phrase string) *regexp.Regexp {
	phrase = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(phrase), ":"))
	if phrase == "" {
		return nil
	}
	return regexp.MustCompile(regexp.QuoteMeta(phrase) + `[*_]*\s*:[*_]*[ \t]*([^\r\n]*)`)
}

// Classify returns the scheme the document uses.
func (c *SchemeClassifier) Classify(document string) Classification {
	for _, r := range c.rules {
		if cl, ok := r.decide(document); ok {
			cl.Rule = r.name
			return cl
		}
	}
	return Classification{Scheme: SchemeUnknown, Rule: RuleNoScheme}
}
