// Package spendapi wraps the ad-platform spend-report endpoints. Each client
// answers one question: how much did account X spend over date range Y. The
// returned figures are trusted as-is except for non-finite numbers, which are
// rejected as upstream errors rather than coerced to 0.
package spendapi

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/adverdi/pacing-service/internal/errs"
	"github.com/adverdi/pacing-service/internal/models"
)

// CampaignSpend is one row of the per-campaign breakdown
type CampaignSpend struct {
	CampaignID string  `json:"campaign_id"`
	Name       string  `json:"name"`
	Spent      float64 `json:"spent"`
}

// DailySpend is one day of account spend as reported by the platform
type DailySpend struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// SpendReport is the aggregated answer for one account and date range
type SpendReport struct {
	TotalSpent  float64         `json:"total_spent"`
	DailyBudget float64         `json:"daily_budget"` // currently configured on the platform
	Daily       []DailySpend    `json:"daily"`
	Campaigns   []CampaignSpend `json:"campaigns"`
}

// Provider computes spend for one advertiser account over an inclusive date
// range. Implementations own their transport timeouts; callers do not impose
// one on top.
type Provider interface {
	ComputeSpend(ctx context.Context, externalAccountID string, start, end time.Time) (*SpendReport, error)
}

// Registry maps platforms to their provider client
type Registry struct {
	providers map[models.Platform]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[models.Platform]Provider)}
}

func (r *Registry) Register(platform models.Platform, p Provider) {
	r.providers[platform] = p
}

// For returns the provider for a platform, or a configuration error when the
// platform has no client registered.
func (r *Registry) For(platform models.Platform) (Provider, error) {
	p, ok := r.providers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: no spend provider registered for platform %q", errs.ErrConfiguration, platform)
	}
	return p, nil
}

// checkFinite rejects NaN and infinite monetary values from a provider.
func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: non-finite value for %s", errs.ErrUpstream, field)
	}
	return nil
}
