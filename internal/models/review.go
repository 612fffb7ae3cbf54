package models

import "time"

// ReviewRecord is the persisted daily pacing snapshot for one client/account.
// Exactly one row exists per (client, account, platform, review date); a
// re-run on the same day overwrites it, the next day's run supersedes it.
type ReviewRecord struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	AccountID  *int64    `json:"account_id,omitempty"` // nil for a client-wide review
	Platform   Platform  `json:"platform"`
	ReviewDate time.Time `json:"review_date"`

	EnvelopeKind   EnvelopeKind `json:"envelope_kind"`
	EnvelopeID     *int64       `json:"envelope_id,omitempty"` // nil for the regular fallback
	EnvelopeAmount float64      `json:"envelope_amount"`

	TotalSpent         float64 `json:"total_spent"`
	CurrentDailyBudget float64 `json:"current_daily_budget"`
	RemainingDays      int     `json:"remaining_days"`
	RemainingBudget    float64 `json:"remaining_budget"`
	IdealDailyBudget   float64 `json:"ideal_daily_budget"`

	Recommendations []Recommendation `json:"recommendations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewItem identifies one unit of work in a batch
type ReviewItem struct {
	ClientID  int64  `json:"client_id"`
	AccountID *int64 `json:"account_id,omitempty"`
}

// FailedItem records why one batch item did not produce a review
type FailedItem struct {
	ClientID  int64  `json:"client_id"`
	AccountID *int64 `json:"account_id,omitempty"`
	Category  string `json:"category"`
	Error     string `json:"error"`
}

// BatchSummary is the machine-readable result of one orchestrator run
type BatchSummary struct {
	BatchID    string          `json:"batch_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Succeeded  []*ReviewRecord `json:"succeeded"`
	Failed     []FailedItem    `json:"failed"`
	Skipped    int             `json:"skipped"` // items already in flight
}
