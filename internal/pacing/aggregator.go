package pacing

import (
	"time"

	"github.com/adverdi/pacing-service/internal/models"
)

// AccountSpend is the normalized provider output for one advertiser account:
// total spend over the envelope period, the configured daily budget, and the
// cached per-day rows backing the recent-spend series.
type AccountSpend struct {
	Account     models.AdAccount
	TotalSpent  float64
	DailyBudget float64
	Rows        []models.DailySpendRow
}

// AggregateSpend combines spend data into one snapshot. When an account is
// targeted, only that account's latest figures are used; otherwise totals and
// per-day values are summed across all of the client's accounts, counting
// only rows dated within the reference date's calendar month. Days without
// data stay 0. No data at all yields a zero-valued snapshot.
func AggregateSpend(spends []AccountSpend, accountID *int64, ref time.Time) models.SpendSnapshot {
	var snap models.SpendSnapshot

	selected := spends
	if accountID != nil {
		selected = nil
		for _, s := range spends {
			if s.Account.ID == *accountID {
				selected = []AccountSpend{s}
				break
			}
		}
	}

	window := recentDays(ref)
	for _, s := range selected {
		snap.TotalSpentInPeriod += s.TotalSpent
		snap.CurrentDailyBudget += s.DailyBudget
		for _, row := range s.Rows {
			if accountID == nil && !sameMonth(row.Date, ref) {
				continue
			}
			day := models.DateOnly(row.Date)
			for i, d := range window {
				if day.Equal(d) {
					snap.DailySpend[i] += row.Amount
				}
			}
		}
	}
	return snap
}

// recentDays returns the five most recent complete days before the reference
// date, oldest first.
func recentDays(ref time.Time) [models.SpendDays]time.Time {
	var days [models.SpendDays]time.Time
	base := models.DateOnly(ref)
	for i := 0; i < models.SpendDays; i++ {
		days[i] = base.AddDate(0, 0, i-models.SpendDays)
	}
	return days
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
