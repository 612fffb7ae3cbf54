package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/adverdi/pacing-service/internal/errs"
	"github.com/adverdi/pacing-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveClients returns every client enabled for batch review
func (r *Repository) ListActiveClients() ([]models.Client, error) {
	query := `
		SELECT id, name, platform, monthly_budget, is_active, created_at
		FROM pacing.clients
		WHERE is_active = TRUE
		ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list clients: %v", errs.ErrPersistence, err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Platform, &c.MonthlyBudget, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan client: %v", errs.ErrPersistence, err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate clients: %v", errs.ErrPersistence, err)
	}
	return clients, nil
}

// FindClient retrieves one client by id
func (r *Repository) FindClient(id int64) (*models.Client, error) {
	c := &models.Client{}
	query := `
		SELECT id, name, platform, monthly_budget, is_active, created_at
		FROM pacing.clients
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&c.ID, &c.Name, &c.Platform, &c.MonthlyBudget, &c.Active, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: client %d not found", errs.ErrConfiguration, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find client: %v", errs.ErrPersistence, err)
	}
	return c, nil
}

// ListClientAccounts returns the client's active advertiser accounts
func (r *Repository) ListClientAccounts(clientID int64) ([]models.AdAccount, error) {
	query := `
		SELECT id, client_id, platform, external_id, is_active, created_at
		FROM pacing.ad_accounts
		WHERE client_id = $1 AND is_active = TRUE
		ORDER BY id`
	rows, err := r.db.Query(query, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list accounts: %v", errs.ErrPersistence, err)
	}
	defer rows.Close()

	var accounts []models.AdAccount
	for rows.Next() {
		var a models.AdAccount
		if err := rows.Scan(&a.ID, &a.ClientID, &a.Platform, &a.ExternalID, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan account: %v", errs.ErrPersistence, err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate accounts: %v", errs.ErrPersistence, err)
	}
	return accounts, nil
}

// ListActiveEnvelopes returns the client's active custom envelopes whose date
// range contains the reference date. Date filtering happens again in the
// resolver; the flag alone never keeps an expired envelope alive.
func (r *Repository) ListActiveEnvelopes(clientID int64, platform models.Platform, ref time.Time) ([]models.BudgetEnvelope, error) {
	query := `
		SELECT id, client_id, amount, start_date, end_date, scope,
		       COALESCE(account_id, 0), COALESCE(recurrence, ''), is_active, created_at
		FROM pacing.budget_envelopes
		WHERE client_id = $1 AND platform = $2 AND is_active = TRUE
		  AND start_date <= $3 AND end_date >= $3
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, clientID, platform, models.DateOnly(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list envelopes: %v", errs.ErrPersistence, err)
	}
	defer rows.Close()

	var envelopes []models.BudgetEnvelope
	for rows.Next() {
		e := models.BudgetEnvelope{Kind: models.EnvelopeCustom}
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Amount, &e.StartDate, &e.EndDate,
			&e.Scope, &e.AccountID, &e.Recurrence, &e.Active, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan envelope: %v", errs.ErrPersistence, err)
		}
		envelopes = append(envelopes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate envelopes: %v", errs.ErrPersistence, err)
	}
	return envelopes, nil
}
