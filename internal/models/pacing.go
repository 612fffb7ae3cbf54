package models

// PacingResult is derived from an envelope and a spend snapshot.
// RemainingBudget may be negative when the envelope is overspent.
type PacingResult struct {
	RemainingDays    int     `json:"remaining_days"`
	RemainingBudget  float64 `json:"remaining_budget"`
	IdealDailyBudget float64 `json:"ideal_daily_budget"`
}

// Basis names the comparison source a recommendation was computed against
type Basis string

const (
	BasisCurrent  Basis = "current"          // configured daily budget
	BasisWeighted Basis = "weighted-average" // recency-weighted 5-day spend
	BasisFiveDay  Basis = "five-day-average" // plain 5-day mean, secondary signal
)

// Recommendation is a signed daily budget adjustment.
// Positive Difference means increase the daily budget, negative means decrease.
type Recommendation struct {
	Basis           Basis   `json:"basis"`
	Difference      float64 `json:"difference"`
	NeedsAdjustment bool    `json:"needs_adjustment"`
}
