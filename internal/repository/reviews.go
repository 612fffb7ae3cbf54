package repository

import (
	"database/sql"
	"fmt"

	"github.com/adverdi/pacing-service/internal/errs"
	"github.com/adverdi/pacing-service/internal/models"
)

// UpsertReviewRecord inserts the daily review row or updates it in place
// when one already exists for the (client, account, platform, day) key.
// The record's ID and timestamps are filled from the database.
func (r *Repository) UpsertReviewRecord(rec *models.ReviewRecord) error {
	cur := recommendationFor(rec, models.BasisCurrent)
	weighted := recommendationFor(rec, models.BasisWeighted)
	fiveDay := recommendationFor(rec, models.BasisFiveDay)

	query := `
		INSERT INTO pacing.review_records (
			client_id, account_id, platform, review_date,
			envelope_kind, envelope_id, envelope_amount,
			total_spent, current_daily_budget,
			remaining_days, remaining_budget, ideal_daily_budget,
			current_diff, current_needs_adjustment,
			weighted_diff, weighted_needs_adjustment,
			five_day_diff, five_day_needs_adjustment,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (client_id, COALESCE(account_id, 0), platform, review_date)
		DO UPDATE SET
			envelope_kind = EXCLUDED.envelope_kind,
			envelope_id = EXCLUDED.envelope_id,
			envelope_amount = EXCLUDED.envelope_amount,
			total_spent = EXCLUDED.total_spent,
			current_daily_budget = EXCLUDED.current_daily_budget,
			remaining_days = EXCLUDED.remaining_days,
			remaining_budget = EXCLUDED.remaining_budget,
			ideal_daily_budget = EXCLUDED.ideal_daily_budget,
			current_diff = EXCLUDED.current_diff,
			current_needs_adjustment = EXCLUDED.current_needs_adjustment,
			weighted_diff = EXCLUDED.weighted_diff,
			weighted_needs_adjustment = EXCLUDED.weighted_needs_adjustment,
			five_day_diff = EXCLUDED.five_day_diff,
			five_day_needs_adjustment = EXCLUDED.five_day_needs_adjustment,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(query,
		rec.ClientID, nullableID(rec.AccountID), rec.Platform, models.DateOnly(rec.ReviewDate),
		rec.EnvelopeKind, nullableID(rec.EnvelopeID), rec.EnvelopeAmount,
		rec.TotalSpent, rec.CurrentDailyBudget,
		rec.RemainingDays, rec.RemainingBudget, rec.IdealDailyBudget,
		cur.Difference, cur.NeedsAdjustment,
		weighted.Difference, weighted.NeedsAdjustment,
		fiveDay.Difference, fiveDay.NeedsAdjustment,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert review record: %v", errs.ErrPersistence, err)
	}
	return nil
}

// ListReviews returns the client's most recent review records, newest first
func (r *Repository) ListReviews(clientID int64, limit int) ([]models.ReviewRecord, error) {
	query := `
		SELECT id, client_id, account_id, platform, review_date,
		       envelope_kind, envelope_id, envelope_amount,
		       total_spent, current_daily_budget,
		       remaining_days, remaining_budget, ideal_daily_budget,
		       current_diff, current_needs_adjustment,
		       weighted_diff, weighted_needs_adjustment,
		       five_day_diff, five_day_needs_adjustment,
		       created_at, updated_at
		FROM pacing.review_records
		WHERE client_id = $1
		ORDER BY review_date DESC, id DESC
		LIMIT $2`
	rows, err := r.db.Query(query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list reviews: %v", errs.ErrPersistence, err)
	}
	defer rows.Close()

	var records []models.ReviewRecord
	for rows.Next() {
		var rec models.ReviewRecord
		var accountID, envelopeID sql.NullInt64
		var cur, weighted, fiveDay models.Recommendation
		if err := rows.Scan(&rec.ID, &rec.ClientID, &accountID, &rec.Platform, &rec.ReviewDate,
			&rec.EnvelopeKind, &envelopeID, &rec.EnvelopeAmount,
			&rec.TotalSpent, &rec.CurrentDailyBudget,
			&rec.RemainingDays, &rec.RemainingBudget, &rec.IdealDailyBudget,
			&cur.Difference, &cur.NeedsAdjustment,
			&weighted.Difference, &weighted.NeedsAdjustment,
			&fiveDay.Difference, &fiveDay.NeedsAdjustment,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan review record: %v", errs.ErrPersistence, err)
		}
		if accountID.Valid {
			rec.AccountID = &accountID.Int64
		}
		if envelopeID.Valid {
			rec.EnvelopeID = &envelopeID.Int64
		}
		cur.Basis = models.BasisCurrent
		weighted.Basis = models.BasisWeighted
		fiveDay.Basis = models.BasisFiveDay
		rec.Recommendations = []models.Recommendation{cur, weighted, fiveDay}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate reviews: %v", errs.ErrPersistence, err)
	}
	return records, nil
}

func recommendationFor(rec *models.ReviewRecord, basis models.Basis) models.Recommendation {
	for _, rc := range rec.Recommendations {
		if rc.Basis == basis {
			return rc
		}
	}
	return models.Recommendation{Basis: basis}
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
