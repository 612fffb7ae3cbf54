package pacing

import (
	"math"

	"github.com/adverdi/pacing-service/internal/models"
)

// AdjustmentThreshold is the absolute difference, in currency units, below
// which a daily budget change is not worth surfacing.
const AdjustmentThreshold = 5.0

// relativeThreshold is the additional relative bar the five-day-average
// basis requires before flagging an adjustment.
const relativeThreshold = 0.05

// recencyWeights are applied to the 5-day spend series oldest to newest.
// They sum to 1.0 and increase toward the most recent day.
var recencyWeights = [models.SpendDays]float64{0.10, 0.15, 0.20, 0.25, 0.30}

// Recommend compares the ideal daily budget against the chosen basis and
// decides whether a change is materially warranted. Positive difference
// means the daily budget should go up.
func Recommend(p models.PacingResult, s models.SpendSnapshot, basis models.Basis) models.Recommendation {
	rec := models.Recommendation{Basis: basis}

	switch basis {
	case models.BasisCurrent:
		rec.Difference = p.IdealDailyBudget - s.CurrentDailyBudget
		rec.NeedsAdjustment = math.Abs(rec.Difference) >= AdjustmentThreshold

	case models.BasisWeighted:
		var weighted float64
		for i, w := range recencyWeights {
			weighted += w * s.DailySpend[i]
		}
		rec.Difference = p.IdealDailyBudget - weighted
		rec.NeedsAdjustment = math.Abs(rec.Difference) >= AdjustmentThreshold

	case models.BasisFiveDay:
		var sum float64
		for _, v := range s.DailySpend {
			sum += v
		}
		mean := sum / models.SpendDays
		rec.Difference = p.IdealDailyBudget - mean
		// Secondary signal: needs both the absolute and a relative bar.
		if mean > 0 {
			abs := math.Abs(rec.Difference)
			rec.NeedsAdjustment = abs >= AdjustmentThreshold && abs/mean >= relativeThreshold
		}
	}
	return rec
}

// RecommendAll computes every basis for one pacing result. All of them are
// persisted side by side as advisory fields; none is canonical.
func RecommendAll(p models.PacingResult, s models.SpendSnapshot) []models.Recommendation {
	return []models.Recommendation{
		Recommend(p, s, models.BasisCurrent),
		Recommend(p, s, models.BasisWeighted),
		Recommend(p, s, models.BasisFiveDay),
	}
}
