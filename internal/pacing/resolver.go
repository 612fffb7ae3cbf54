// Package pacing holds the budget pacing and recommendation engine: envelope
// resolution, spend aggregation, the pacing calculation and the adjustment
// recommendation bases. Everything here is pure; persistence and the spend
// provider live in their own packages.
package pacing

import (
	"time"

	"github.com/adverdi/pacing-service/internal/models"
)

// ResolveEnvelope decides which budget envelope applies to a client (or one
// of its accounts) on the reference date. Custom envelopes whose date range
// contains the reference date are candidates; an account-specific envelope
// beats a global one for that account, and the most recently created
// candidate wins among the rest. When nothing matches, the client's regular
// monthly budget applies (amount 0 when unset). Always returns an envelope.
func ResolveEnvelope(client *models.Client, envelopes []models.BudgetEnvelope, accountID *int64, ref time.Time) models.BudgetEnvelope {
	var candidates []models.BudgetEnvelope
	for _, e := range envelopes {
		if e.Kind != models.EnvelopeCustom || !e.Covers(ref) {
			continue
		}
		switch e.Scope {
		case models.ScopeGlobal:
			candidates = append(candidates, e)
		case models.ScopeAccount:
			if accountID != nil && e.AccountID == *accountID {
				candidates = append(candidates, e)
			}
		}
	}

	// Scope precedence: account-specific envelopes shadow global ones.
	if accountID != nil {
		var scoped []models.BudgetEnvelope
		for _, e := range candidates {
			if e.Scope == models.ScopeAccount {
				scoped = append(scoped, e)
			}
		}
		if len(scoped) > 0 {
			candidates = scoped
		}
	}

	if len(candidates) == 0 {
		return models.BudgetEnvelope{
			ClientID: client.ID,
			Kind:     models.EnvelopeRegular,
			Amount:   client.MonthlyBudget,
		}
	}

	best := candidates[0]
	for _, e := range candidates[1:] {
		if e.CreatedAt.After(best.CreatedAt) {
			best = e
		}
	}
	return best
}
