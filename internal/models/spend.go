package models

import "time"

// SpendDays is the length of the recent daily spend series
const SpendDays = 5

// SpendSnapshot holds normalized spend figures for one client or account.
// DailySpend is ordered oldest to newest; days with no data are 0.
type SpendSnapshot struct {
	TotalSpentInPeriod float64            `json:"total_spent_in_period"`
	DailySpend         [SpendDays]float64 `json:"daily_spend"`
	CurrentDailyBudget float64            `json:"current_daily_budget"`
}

// DailySpendRow is one cached day of spend for an advertiser account
type DailySpendRow struct {
	AccountID int64     `json:"account_id"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
}
