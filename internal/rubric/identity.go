package rubric

import "strings"

// Identity rule names, in evaluation order.
const (
	RuleStrongKeyword   = "strong-keyword"
	RuleWeakKeywords    = "weak-keywords"
	RuleContentKeywords = "content-keywords"
	RuleDefault         = "default"
)

// identityRule decides a block's class from its lower-cased text, or
// declines by returning ok == false.
type identityRule struct {
	name   string
	decide func(text string) (identity bool, ok bool)
}

// IdentityFilter separates document-metadata tables (school, teacher, date)
// from assessment-content tables. Rules are evaluated top to bottom and the
// first rule that decides wins; the order is part of the contract.
type IdentityFilter struct {
	rules []identityRule
}

// NewIdentityFilter builds a filter over the given vocabulary.
func NewIdentityFilter(kw Keywords) *IdentityFilter {
	kw = kw.normalized()
	return &IdentityFilter{
		rules: []identityRule{
			{
				name: RuleStrongKeyword,
				decide: func(text string) (bool, bool) {
					if containsAny(text, kw.Strong) {
						return true, true
					}
					return false, false
				},
			},
			{
				name: RuleWeakKeywords,
				decide: func(text string) (bool, bool) {
					if countContained(text, kw.Weak) >= kw.WeakThreshold {
						return true, true
					}
					return false, false
				},
			},
			{
				// Only reachable below the weak threshold, so in practice it
				// confirms content rather than overriding rule 2.
				name: RuleContentKeywords,
				decide: func(text string) (bool, bool) {
					if containsAny(text, kw.Content) {
						return false, true
					}
					return false, false
				},
			},
			{
				name:   RuleDefault,
				decide: func(string) (bool, bool) { return false, true },
			},
		},
	}
}

// Decide classifies a block and names the rule that decided.
func (f *IdentityFilter) Decide(block TableBlock) (identity bool, rule string) {
	text := strings.ToLower(block.Text())
	for _, r := range f.rules {
		if identity, ok := r.decide(text); ok {
			return identity, r.name
		}
	}
	return false, RuleDefault
}

// IsIdentityTable reports whether the block holds document metadata.
func (f *IdentityFilter) IsIdentityTable(block TableBlock) bool {
	identity, _ := f.Decide(block)
	return identity
}

// FilterContentTables returns the non-identity blocks in order.
func (f *IdentityFilter) FilterContentTables(blocks []TableBlock) []TableBlock {
	out := make([]TableBlock, 0, len(blocks))
	for _, b := range blocks {
		if !f.IsIdentityTable(b) {
			out = append(out, b)
		}
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func countContained(text string, needles []string) int {
	n := 0
	for _, k := range needles {
		if k != "" && strings.Contains(text, k) {
			n++
		}
	}
	return n
}
