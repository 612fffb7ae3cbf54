package pacing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverdi/pacing-service/internal/models"
)

func TestRecencyWeights(t *testing.T) {
	var sum float64
	for i, w := range recencyWeights {
		sum += w
		if i > 0 {
			assert.Greater(t, w, recencyWeights[i-1], "weights must increase toward the most recent day")
		}
	}
	require.InDelta(t, 1.0, sum, 1e-12)
}

func TestRecommendCurrentBasis(t *testing.T) {
	// Ideal 106 vs configured 100: increase by 6.
	p := models.PacingResult{IdealDailyBudget: 106}
	s := models.SpendSnapshot{CurrentDailyBudget: 100}

	rec := Recommend(p, s, models.BasisCurrent)
	assert.InDelta(t, 6, rec.Difference, 0.005)
	assert.True(t, rec.NeedsAdjustment)
}

func TestRecommendThresholdBoundary(t *testing.T) {
	tests := []struct {
		name  string
		ideal float64
		want  bool
	}{
		{"just below threshold", 104.99, false},
		{"exactly at threshold", 105.00, true},
		{"decrease at threshold", 95.00, true},
		{"decrease just below", 95.01, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.PacingResult{IdealDailyBudget: tt.ideal}
			s := models.SpendSnapshot{CurrentDailyBudget: 100}
			rec := Recommend(p, s, models.BasisCurrent)
			assert.Equal(t, tt.want, rec.NeedsAdjustment)
		})
	}
}

func TestRecommendWeightedBasis(t *testing.T) {
	// Weighted average of a flat 100/day series is 100.
	s := models.SpendSnapshot{DailySpend: [5]float64{100, 100, 100, 100, 100}}

	rec := Recommend(models.PacingResult{IdealDailyBudget: 104.99}, s, models.BasisWeighted)
	assert.False(t, rec.NeedsAdjustment)

	rec = Recommend(models.PacingResult{IdealDailyBudget: 105}, s, models.BasisWeighted)
	assert.True(t, rec.NeedsAdjustment)
	assert.InDelta(t, 5, rec.Difference, 0.005)
}

func TestRecommendWeightedFavorsRecentDays(t *testing.T) {
	// Same totals, spend shifted toward recent days: the weighted average
	// must be higher for the recent-heavy series.
	older := models.SpendSnapshot{DailySpend: [5]float64{200, 150, 100, 50, 0}}
	newer := models.SpendSnapshot{DailySpend: [5]float64{0, 50, 100, 150, 200}}
	p := models.PacingResult{IdealDailyBudget: 0}

	diffOlder := Recommend(p, older, models.BasisWeighted).Difference
	diffNewer := Recommend(p, newer, models.BasisWeighted).Difference
	assert.Greater(t, math.Abs(diffNewer), math.Abs(diffOlder))
}

func TestRecommendFiveDayBasis(t *testing.T) {
	s := models.SpendSnapshot{DailySpend: [5]float64{100, 100, 100, 100, 100}}

	// |diff|=6 clears the absolute bar and 6/100 clears the relative one.
	rec := Recommend(models.PacingResult{IdealDailyBudget: 106}, s, models.BasisFiveDay)
	assert.InDelta(t, 6, rec.Difference, 0.005)
	assert.True(t, rec.NeedsAdjustment)

	// |diff|=5 is 4% of a 125 mean: absolute bar passes, relative fails.
	big := models.SpendSnapshot{DailySpend: [5]float64{125, 125, 125, 125, 125}}
	rec = Recommend(models.PacingResult{IdealDailyBudget: 130}, big, models.BasisFiveDay)
	assert.False(t, rec.NeedsAdjustment)
}

func TestRecommendFiveDayZeroMean(t *testing.T) {
	// No spend history: never flags, whatever the ideal.
	rec := Recommend(models.PacingResult{IdealDailyBudget: 500}, models.SpendSnapshot{}, models.BasisFiveDay)
	assert.False(t, rec.NeedsAdjustment)
	assert.InDelta(t, 500, rec.Difference, 0.005)
}

func TestRecommendAllCoversEveryBasis(t *testing.T) {
	recs := RecommendAll(models.PacingResult{IdealDailyBudget: 100}, models.SpendSnapshot{})
	require.Len(t, recs, 3)
	assert.Equal(t, models.BasisCurrent, recs[0].Basis)
	assert.Equal(t, models.BasisWeighted, recs[1].Basis)
	assert.Equal(t, models.BasisFiveDay, recs[2].Basis)
}
