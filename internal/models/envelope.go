package models

import "time"

// EnvelopeKind distinguishes the two budget envelope variants
type EnvelopeKind string

const (
	EnvelopeRegular EnvelopeKind = "regular" // monthly amount, implicit calendar-month period
	EnvelopeCustom  EnvelopeKind = "custom"  // fixed amount over an explicit date range
)

// EnvelopeScope limits a custom envelope to one account or the whole client
type EnvelopeScope string

const (
	ScopeGlobal  EnvelopeScope = "global"
	ScopeAccount EnvelopeScope = "account"
)

// BudgetEnvelope is a budget amount bound to a validity period.
// Regular envelopes carry only Amount (the monthly amount); custom envelopes
// carry the date range, scope and an optional recurrence pattern. Recurrence
// is a stored attribute only, it is never expanded into occurrences.
type BudgetEnvelope struct {
	ID         int64         `json:"id"`
	ClientID   int64         `json:"client_id"`
	Kind       EnvelopeKind  `json:"kind"`
	Amount     float64       `json:"amount"`
	StartDate  time.Time     `json:"start_date,omitempty"`
	EndDate    time.Time     `json:"end_date,omitempty"`
	Scope      EnvelopeScope `json:"scope,omitempty"`
	AccountID  int64         `json:"account_id,omitempty"` // set when Scope == ScopeAccount
	Recurrence string        `json:"recurrence,omitempty"`
	Active     bool          `json:"active"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Covers reports whether the envelope's validity period contains the given
// date. Expiry is date-driven: an envelope past its end date is not covered
// even if still flagged active. Regular envelopes cover every date.
func (e BudgetEnvelope) Covers(ref time.Time) bool {
	if e.Kind == EnvelopeRegular {
		return true
	}
	day := DateOnly(ref)
	return !day.Before(DateOnly(e.StartDate)) && !day.After(DateOnly(e.EndDate))
}

// DateOnly truncates a timestamp to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
