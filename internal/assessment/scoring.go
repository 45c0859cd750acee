package assessment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrMissingUserID is returned when a submission has a blank identifier.
// Nothing is scored or written in that case.
var ErrMissingUserID = errors.New("user id is required")

// ResponseSet maps question id to a rating in [MinRating, MaxRating].
type ResponseSet map[string]int

// Clone returns an independent copy.
func (rs ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out
}

// ValidationError lists every problem found in a ResponseSet.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid responses: " + strings.Join(e.Problems, "; ")
}

// ValidateResponses checks that every question in the bank is answered
// exactly once with a rating in range and that no unknown ids are present.
// Problems are reported in a stable order.
func ValidateResponses(bank *Bank, rs ResponseSet) error {
	var problems []string

	for _, q := range bank.questions {
		v, ok := rs[q.ID]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: missing answer", q.ID))
			continue
		}
		if v < MinRating || v > MaxRating {
			problems = append(problems, fmt.Sprintf("%s: rating %d out of range [%d,%d]", q.ID, v, MinRating, MaxRating))
		}
	}

	var unknown []string
	for id := range rs {
		if _, ok := bank.byID[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		problems = append(problems, fmt.Sprintf("%s: unknown question", id))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// CategoryScore is a category's total rescaled to a percentage of the
// maximum possible (0–100).
type CategoryScore struct {
	Category   Category `json:"category"`
	Normalized float64  `json:"normalized"`
}

// Score computes the three normalized category scores, in category order.
//
// normalized = sum / (count * MaxRating) * 100, where count is the actual
// number of questions per category in the bank. The input is re-validated,
// so an out-of-range answer fails instead of producing a score outside
// [0,100].
func Score(bank *Bank, rs ResponseSet) ([]CategoryScore, error) {
	if err := ValidateResponses(bank, rs); err != nil {
		return nil, err
	}

	sums := make(map[Category]int, 3)
	counts := make(map[Category]int, 3)
	for _, q := range bank.questions {
		sums[q.Category] += rs[q.ID]
		counts[q.Category]++
	}

	scores := make([]CategoryScore, 0, 3)
	for _, c := range Categories() {
		var normalized float64
		if counts[c] > 0 {
			normalized = float64(sums[c]) / float64(counts[c]*MaxRating) * 100
		}
		scores = append(scores, CategoryScore{Category: c, Normalized: normalized})
	}
	return scores, nil
}

// ScoreOf returns the normalized score for a category, or 0 when absent.
func ScoreOf(scores []CategoryScore, c Category) float64 {
	for _, s := range scores {
		if s.Category == c {
			return s.Normalized
		}
	}
	return 0
}

// Round2 rounds half away from zero to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
