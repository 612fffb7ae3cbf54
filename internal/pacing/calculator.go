package pacing

import (
	"math"
	"time"

	"github.com/adverdi/pacing-service/internal/models"
)

// Pace computes how much budget remains and what the even daily spend rate
// would be from the reference date onward. The reference day itself always
// counts, so remaining days is never below 1. Remaining budget is not floored
// at zero: a negative value signals overspend and must reach the caller.
// Pure function; identical inputs always produce identical results.
func Pace(envelope models.BudgetEnvelope, snapshot models.SpendSnapshot, ref time.Time) models.PacingResult {
	days := remainingDays(envelope, ref)
	remaining := envelope.Amount - snapshot.TotalSpentInPeriod

	var ideal float64
	if days > 0 {
		ideal = remaining / float64(days)
	}

	return models.PacingResult{
		RemainingDays:    days,
		RemainingBudget:  remaining,
		IdealDailyBudget: ideal,
	}
}

func remainingDays(envelope models.BudgetEnvelope, ref time.Time) int {
	if envelope.Kind == models.EnvelopeRegular {
		return daysInMonth(ref) - ref.Day() + 1
	}
	until := models.DateOnly(envelope.EndDate).Sub(models.DateOnly(ref))
	days := int(math.Ceil(until.Hours()/24)) + 1
	if days < 1 {
		days = 1
	}
	return days
}

func daysInMonth(ref time.Time) int {
	return time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
}
