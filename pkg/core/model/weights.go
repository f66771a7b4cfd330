package model

// Soft-constraint categories. These are the keys of PenaltyWeights and the
// Category values reported in violation groups.
const (
	CategoryGroupCoverage   = "group_coverage"
	CategoryDailyLimit      = "daily_limit"
	CategoryTypeLimit       = "type_limit"
	CategoryPeriodLimit     = "period_limit"
	CategoryRestDay         = "rest_day"
	CategoryAdjacentPattern = "adjacent_pattern"
	CategoryPreference      = "preference"
)

// PenaltyWeights maps a soft-constraint category to its non-negative penalty
// weight. A category with no entry is disabled entirely: its stage adds no
// constraints and reports no violations.
type PenaltyWeights map[string]int

// Weight returns the configured weight for category and whether it is enabled.
func (w PenaltyWeights) Weight(category string) (int, bool) {
	weight, ok := w[category]
	return weight, ok
}

// DefaultPenaltyWeights returns the recommended weight set. The rest-day rule
// carries the largest weight: labor compliance outranks convenience rules, and
// the adjacent-pattern comfort rule carries the smallest.
func DefaultPenaltyWeights() PenaltyWeights {
	return PenaltyWeights{
		CategoryRestDay:         10,
		CategoryGroupCoverage:   6,
		CategoryDailyLimit:      5,
		CategoryTypeLimit:       4,
		CategoryPeriodLimit:     4,
		CategoryPreference:      2,
		CategoryAdjacentPattern: 1,
	}
}
