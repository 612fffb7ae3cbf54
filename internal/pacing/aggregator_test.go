package pacing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adverdi/pacing-service/internal/models"
)

func rowsFor(accountID int64, dates []string, amounts []float64) []models.DailySpendRow {
	rows := make([]models.DailySpendRow, len(dates))
	for i := range dates {
		rows[i] = models.DailySpendRow{AccountID: accountID, Date: date(dates[i]), Amount: amounts[i]}
	}
	return rows
}

func TestAggregateSumsAcrossAccounts(t *testing.T) {
	spends := []AccountSpend{
		{
			Account:     models.AdAccount{ID: 1, ClientID: 7},
			TotalSpent:  600,
			DailyBudget: 40,
			Rows:        rowsFor(1, []string{"2024-05-14", "2024-05-15"}, []float64{30, 35}),
		},
		{
			Account:     models.AdAccount{ID: 2, ClientID: 7},
			TotalSpent:  400,
			DailyBudget: 25,
			Rows:        rowsFor(2, []string{"2024-05-15"}, []float64{20}),
		},
	}

	snap := AggregateSpend(spends, nil, date("2024-05-16"))
	assert.InDelta(t, 1000, snap.TotalSpentInPeriod, 0.005)
	assert.InDelta(t, 65, snap.CurrentDailyBudget, 0.005)
	// Window is May 11-15 oldest to newest; the 14th lands at index 3.
	assert.InDelta(t, 30, snap.DailySpend[3], 0.005)
	assert.InDelta(t, 55, snap.DailySpend[4], 0.005)
	assert.Zero(t, snap.DailySpend[0])
}

func TestAggregateTargetedAccountOnly(t *testing.T) {
	spends := []AccountSpend{
		{Account: models.AdAccount{ID: 1}, TotalSpent: 600, DailyBudget: 40,
			Rows: rowsFor(1, []string{"2024-05-15"}, []float64{30})},
		{Account: models.AdAccount{ID: 2}, TotalSpent: 400, DailyBudget: 25,
			Rows: rowsFor(2, []string{"2024-05-15"}, []float64{20})},
	}

	target := int64(2)
	snap := AggregateSpend(spends, &target, date("2024-05-16"))
	assert.InDelta(t, 400, snap.TotalSpentInPeriod, 0.005)
	assert.InDelta(t, 25, snap.CurrentDailyBudget, 0.005)
	assert.InDelta(t, 20, snap.DailySpend[4], 0.005)
}

func TestAggregateClientWideSkipsOtherMonths(t *testing.T) {
	// A window reaching into the previous month drops those days when
	// summing client-wide.
	spends := []AccountSpend{
		{Account: models.AdAccount{ID: 1}, TotalSpent: 100,
			Rows: rowsFor(1, []string{"2024-04-30", "2024-05-01"}, []float64{50, 60})},
	}

	snap := AggregateSpend(spends, nil, date("2024-05-02"))
	// Window Apr 27 - May 1: only May 1 is in the current month.
	assert.InDelta(t, 60, snap.DailySpend[4], 0.005)
	assert.Zero(t, snap.DailySpend[3])
}

func TestAggregateNoData(t *testing.T) {
	snap := AggregateSpend(nil, nil, date("2024-05-16"))
	assert.Equal(t, models.SpendSnapshot{}, snap)

	// Targeting an account with no records also yields zeros.
	missing := int64(9)
	snap = AggregateSpend([]AccountSpend{{Account: models.AdAccount{ID: 1}, TotalSpent: 10}}, &missing, date("2024-05-16"))
	assert.Equal(t, models.SpendSnapshot{}, snap)
}
