package rubric

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrScoreOutOfRange is returned by ValidateEntry for a value outside the
	// scheme's range.
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrIndexOutOfRange is returned by ValidateEntry for an index that does
	// not name a criterion.
	ErrIndexOutOfRange = errors.New("criterion index out of range")
	// ErrUnscoredScheme is returned by ValidateEntry for a scheme without a
	// scoring formula.
	ErrUnscoredScheme = errors.New("scheme has no scoring formula")
)

// FinalScore aggregates one student's sparse entry into a 0-100 grade
// using the scheme's formula. Unknown schemes and empty criteria score 0.
// Indices outside the criteria list and non-finite values are ignored.
func FinalScore(scheme Scheme, criteria []Criterion, entry Entry) int {
	return finalScore(scheme, len(criteria), entry)
}

func finalScore(scheme Scheme, n int, entry Entry) int {
	if n == 0 {
		return 0
	}

	var pct float64
	switch scheme {
	case SchemeRubric:
		var sum float64
		for i := 0; i < n; i++ {
			if v, ok := value(entry, i); ok {
				sum += v
			}
		}
		pct = sum / float64(n*MaxLevel) * 100

	case SchemeDescriptiveCriteria:
		met := 0
		for i := 0; i < n; i++ {
			if v, ok := value(entry, i); ok && v == 1 {
				met++
			}
		}
		pct = float64(met) / float64(n) * 100

	case SchemeValueInterval:
		var sum float64
		count := 0
		for i := 0; i < n; i++ {
			if v, ok := value(entry, i); ok {
				sum += v
				count++
			}
		}
		if count == 0 {
			return 0
		}
		pct = sum / float64(count)

	default:
		return 0
	}

	return clampPercent(roundHalfUp(pct))
}

// FinalScoreN is FinalScore for callers that only know the criteria count.
func FinalScoreN(scheme Scheme, criteriaCount int, entry Entry) int {
	if criteriaCount < 0 {
		return 0
	}
	return finalScore(scheme, criteriaCount, entry)
}

func value(entry Entry, i int) (float64, bool) {
	v, ok := entry[i]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampPercent(v int) int {
	return max(0, min(100, v))
}

// ValidateEntry checks that every value of an entry is a legal raw score for
// the scheme and that every index names one of n criteria. The first
// offending index, in ascending order, is reported.
func ValidateEntry(scheme Scheme, n int, entry Entry) error {
	if !scheme.Known() {
		return fmt.Errorf("%w: %q", ErrUnscoredScheme, scheme)
	}
	indices := make([]int, 0, len(entry))
	for i := range entry {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	for _, i := range indices {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %d (criteria: %d)", ErrIndexOutOfRange, i, n)
		}
		if err := ValidateScore(scheme, entry[i]); err != nil {
			return fmt.Errorf("criterion %d: %w", i, err)
		}
	}
	return nil
}

// ValidateScore checks a single raw score against the scheme's range.
func ValidateScore(scheme Scheme, v float64) error {
	if !scheme.Known() {
		return fmt.Errorf("%w: %q", ErrUnscoredScheme, scheme)
	}
	lo, hi := scheme.Range()
	if math.IsNaN(v) || v < lo || v > hi {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrScoreOutOfRange, v, lo, hi)
	}
	// Rubric levels and met/unmet flags are whole numbers.
	if scheme != SchemeValueInterval && v != math.Trunc(v) {
		return fmt.Errorf("%w: %v is not a whole number", ErrScoreOutOfRange, v)
	}
	return nil
}
