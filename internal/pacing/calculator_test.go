package pacing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverdi/pacing-service/internal/models"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func regular(amount float64) models.BudgetEnvelope {
	return models.BudgetEnvelope{Kind: models.EnvelopeRegular, Amount: amount}
}

func custom(amount float64, start, end string) models.BudgetEnvelope {
	return models.BudgetEnvelope{
		Kind:      models.EnvelopeCustom,
		Amount:    amount,
		StartDate: date(start),
		EndDate:   date(end),
		Scope:     models.ScopeGlobal,
	}
}

func TestPaceRegularMidMonth(t *testing.T) {
	// 3000 monthly, 1500 spent, 16th of a 30-day month.
	snap := models.SpendSnapshot{TotalSpentInPeriod: 1500}
	got := Pace(regular(3000), snap, date("2024-04-16"))

	assert.Equal(t, 15, got.RemainingDays)
	assert.InDelta(t, 1500, got.RemainingBudget, 0.005)
	assert.InDelta(t, 100, got.IdealDailyBudget, 0.005)
}

func TestPaceRegularMonthEdges(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want int
	}{
		{"first day of 31-day month", "2024-01-01", 31},
		{"last day of 31-day month", "2024-01-31", 1},
		{"first day of 30-day month", "2024-04-01", 30},
		{"last day of 30-day month", "2024-04-30", 1},
		{"leap february last day", "2024-02-29", 1},
		{"leap february first day", "2024-02-01", 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pace(regular(1000), models.SpendSnapshot{}, date(tt.ref))
			assert.Equal(t, tt.want, got.RemainingDays)
		})
	}
}

func TestPaceCustomLastDay(t *testing.T) {
	// 1000 over Jan 1-10, evaluated on the 10th with 950 spent.
	snap := models.SpendSnapshot{TotalSpentInPeriod: 950}
	got := Pace(custom(1000, "2024-01-01", "2024-01-10"), snap, date("2024-01-10"))

	require.Equal(t, 1, got.RemainingDays)
	assert.InDelta(t, 50, got.RemainingBudget, 0.005)
	assert.InDelta(t, 50, got.IdealDailyBudget, 0.005)
}

func TestPaceCustomRemainingDays(t *testing.T) {
	env := custom(1000, "2024-01-01", "2024-01-10")

	got := Pace(env, models.SpendSnapshot{}, date("2024-01-08"))
	assert.Equal(t, 3, got.RemainingDays, "8th, 9th and 10th remain")

	// Past the end date the floor of 1 holds.
	got = Pace(env, models.SpendSnapshot{}, date("2024-01-15"))
	assert.Equal(t, 1, got.RemainingDays)
}

func TestPaceOverspendPropagates(t *testing.T) {
	snap := models.SpendSnapshot{TotalSpentInPeriod: 1200}
	got := Pace(custom(1000, "2024-01-01", "2024-01-20"), snap, date("2024-01-15"))

	assert.InDelta(t, -200, got.RemainingBudget, 0.005)
	assert.Less(t, got.IdealDailyBudget, 0.0)
}

func TestPaceIsDeterministic(t *testing.T) {
	env := custom(2500, "2024-03-05", "2024-03-25")
	snap := models.SpendSnapshot{
		TotalSpentInPeriod: 812.37,
		DailySpend:         [5]float64{40, 55, 61, 48, 70},
		CurrentDailyBudget: 90,
	}
	ref := date("2024-03-14")

	first := Pace(env, snap, ref)
	second := Pace(env, snap, ref)
	assert.Equal(t, first, second)
}
