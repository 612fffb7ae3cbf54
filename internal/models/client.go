package models

import "time"

// Platform identifies an ad platform a client advertises on
type Platform string

const (
	PlatformMeta   Platform = "meta"
	PlatformGoogle Platform = "google"
)

// Client represents an agency client whose budgets are paced
type Client struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Platform      Platform  `json:"platform"`
	MonthlyBudget float64   `json:"monthly_budget"` // 0 when unset
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdAccount represents one advertiser account belonging to a client
type AdAccount struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	Platform   Platform  `json:"platform"`
	ExternalID string    `json:"external_id"` // account id on the ad platform
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}
