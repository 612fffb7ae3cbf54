package repository

import (
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/adverdi/pacing-service/internal/errs"
	"github.com/adverdi/pacing-service/internal/models"
)

// UpsertDailySpend caches one day of provider-reported spend for an account
func (r *Repository) UpsertDailySpend(accountID int64, date time.Time, amount float64) error {
	query := `
		INSERT INTO pacing.daily_spend (account_id, spend_date, amount, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (account_id, spend_date)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.Exec(query, accountID, models.DateOnly(date), amount); err != nil {
		return fmt.Errorf("%w: failed to upsert daily spend: %v", errs.ErrPersistence, err)
	}
	return nil
}

// ListDailySpend returns cached spend rows for the given accounts between
// from and to, inclusive
func (r *Repository) ListDailySpend(accountIDs []int64, from, to time.Time) ([]models.DailySpendRow, error) {
	query := `
		SELECT account_id, spend_date, amount
		FROM pacing.daily_spend
		WHERE account_id = ANY($1) AND spend_date BETWEEN $2 AND $3
		ORDER BY spend_date`
	rows, err := r.db.Query(query, pq.Array(accountIDs), models.DateOnly(from), models.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list daily spend: %v", errs.ErrPersistence, err)
	}
	defer rows.Close()

	var out []models.DailySpendRow
	for rows.Next() {
		var row models.DailySpendRow
		if err := rows.Scan(&row.AccountID, &row.Date, &row.Amount); err != nil {
			return nil, fmt.Errorf("%w: failed to scan daily spend: %v", errs.ErrPersistence, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate daily spend: %v", errs.ErrPersistence, err)
	}
	return out, nil
}
