package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adverdi/pacing-service/internal/errs"
	"github.com/adverdi/pacing-service/internal/integrations/spendapi"
	"github.com/adverdi/pacing-service/internal/models"
	"github.com/adverdi/pacing-service/internal/pacing"
)

// ErrInFlight is returned by RunSingle when the same client/account is
// already being reviewed. It is a guard skip, not a pipeline failure.
var ErrInFlight = errors.New("review already in flight")

// Store is the persistence surface the reviewer needs
type Store interface {
	ListActiveClients() ([]models.Client, error)
	FindClient(id int64) (*models.Client, error)
	ListClientAccounts(clientID int64) ([]models.AdAccount, error)
	ListActiveEnvelopes(clientID int64, platform models.Platform, ref time.Time) ([]models.BudgetEnvelope, error)
	UpsertDailySpend(accountID int64, date time.Time, amount float64) error
	ListDailySpend(accountIDs []int64, from, to time.Time) ([]models.DailySpendRow, error)
	UpsertReviewRecord(rec *models.ReviewRecord) error
	ListReviews(clientID int64, limit int) ([]models.ReviewRecord, error)
}

// SpendSource resolves the spend provider for a platform
type SpendSource interface {
	For(platform models.Platform) (spendapi.Provider, error)
}

// Reviewer runs the pacing pipeline for clients and accounts: resolve the
// envelope, aggregate spend, pace, recommend, persist the daily review.
type Reviewer struct {
	store Store
	spend SpendSource
	state *processingState
	log   *logrus.Logger
	now   func() time.Time
}

// NewReviewer initializes a new reviewer
func NewReviewer(store Store, spend SpendSource, log *logrus.Logger) *Reviewer {
	return &Reviewer{
		store: store,
		spend: spend,
		state: newProcessingState(),
		log:   log,
		now:   time.Now,
	}
}

// RunSingle reviews exactly one client (or one of its accounts) and returns
// the persisted record. Used for interactive re-analysis; any pipeline error
// surfaces to the caller untouched.
func (s *Reviewer) RunSingle(ctx context.Context, clientID int64, accountID *int64) (*models.ReviewRecord, error) {
	key := keyFor(clientID, accountID)
	if !s.state.mark(key) {
		s.log.Infof("Review skipped, already in flight: client=%d account=%s", clientID, accountLabel(accountID))
		return nil, ErrInFlight
	}
	defer s.state.unmark(key)

	client, err := s.store.FindClient(clientID)
	if err != nil {
		return nil, err
	}
	return s.reviewOne(ctx, client, accountID, s.now())
}

// reviewOne runs the full pipeline for one item: resolve the envelope,
// fetch and aggregate spend, pace, recommend, persist. The caller owns the
// in-flight guard.
func (s *Reviewer) reviewOne(ctx context.Context, client *models.Client, accountID *int64, ref time.Time) (*models.ReviewRecord, error) {
	envelopes, err := s.store.ListActiveEnvelopes(client.ID, client.Platform, ref)
	if err != nil {
		return nil, err
	}
	envelope := pacing.ResolveEnvelope(client, envelopes, accountID, ref)

	accounts, err := s.targetAccounts(client, accountID)
	if err != nil {
		return nil, err
	}

	provider, err := s.spend.For(client.Platform)
	if err != nil {
		return nil, err
	}

	spends, err := s.fetchSpend(ctx, provider, accounts, envelope, ref)
	if err != nil {
		return nil, err
	}

	snapshot := pacing.AggregateSpend(spends, accountID, ref)
	result := pacing.Pace(envelope, snapshot, ref)
	recommendations := pacing.RecommendAll(result, snapshot)

	record := buildReview(client, accountID, envelope, snapshot, result, recommendations, ref)
	if err := s.store.UpsertReviewRecord(record); err != nil {
		return nil, err
	}

	s.log.Infof("Review stored: client=%d account=%s ideal=%.2f remaining_days=%d",
		client.ID, accountLabel(accountID), result.IdealDailyBudget, result.RemainingDays)
	return record, nil
}

// targetAccounts returns the accounts the review covers: all of the client's
// accounts, or just the targeted one.
func (s *Reviewer) targetAccounts(client *models.Client, accountID *int64) ([]models.AdAccount, error) {
	accounts, err := s.store.ListClientAccounts(client.ID)
	if err != nil {
		return nil, err
	}
	if accountID == nil {
		if len(accounts) == 0 {
			return nil, fmt.Errorf("%w: client %d has no active accounts", errs.ErrConfiguration, client.ID)
		}
		return accounts, nil
	}
	for _, a := range accounts {
		if a.ID == *accountID {
			return []models.AdAccount{a}, nil
		}
	}
	return nil, fmt.Errorf("%w: account %d not found for client %d", errs.ErrConfiguration, *accountID, client.ID)
}

// fetchSpend asks the provider for each account's figures over the envelope
// period, caches the per-day rows, and reads the series back for aggregation.
func (s *Reviewer) fetchSpend(ctx context.Context, provider spendapi.Provider, accounts []models.AdAccount, envelope models.BudgetEnvelope, ref time.Time) ([]pacing.AccountSpend, error) {
	start, end := envelopePeriod(envelope, ref)

	spends := make([]pacing.AccountSpend, 0, len(accounts))
	ids := make([]int64, 0, len(accounts))
	for _, account := range accounts {
		report, err := provider.ComputeSpend(ctx, account.ExternalID, start, end)
		if err != nil {
			return nil, err
		}
		for _, d := range report.Daily {
			// Cache misses only degrade the recent-spend series, so a
			// failed write is logged rather than failing the review.
			if err := s.store.UpsertDailySpend(account.ID, d.Date, d.Amount); err != nil {
				s.log.Warnf("Failed to cache daily spend for account %d: %v", account.ID, err)
			}
		}
		spends = append(spends, pacing.AccountSpend{
			Account:     account,
			TotalSpent:  report.TotalSpent,
			DailyBudget: report.DailyBudget,
		})
		ids = append(ids, account.ID)
	}

	from := models.DateOnly(ref).AddDate(0, 0, -models.SpendDays)
	rows, err := s.store.ListDailySpend(ids, from, ref)
	if err != nil {
		return nil, err
	}
	byAccount := make(map[int64][]models.DailySpendRow)
	for _, row := range rows {
		byAccount[row.AccountID] = append(byAccount[row.AccountID], row)
	}
	for i := range spends {
		spends[i].Rows = byAccount[spends[i].Account.ID]
	}
	return spends, nil
}

// envelopePeriod is the spend-to-date range the provider is asked for:
// period start through the reference date.
func envelopePeriod(envelope models.BudgetEnvelope, ref time.Time) (time.Time, time.Time) {
	day := models.DateOnly(ref)
	if envelope.Kind == models.EnvelopeCustom {
		return models.DateOnly(envelope.StartDate), day
	}
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC), day
}

// buildReview assembles the persistable snapshot, including which envelope
// produced it.
func buildReview(client *models.Client, accountID *int64, envelope models.BudgetEnvelope,
	snapshot models.SpendSnapshot, result models.PacingResult,
	recommendations []models.Recommendation, ref time.Time) *models.ReviewRecord {

	record := &models.ReviewRecord{
		ClientID:           client.ID,
		AccountID:          accountID,
		Platform:           client.Platform,
		ReviewDate:         models.DateOnly(ref),
		EnvelopeKind:       envelope.Kind,
		EnvelopeAmount:     envelope.Amount,
		TotalSpent:         snapshot.TotalSpentInPeriod,
		CurrentDailyBudget: snapshot.CurrentDailyBudget,
		RemainingDays:      result.RemainingDays,
		RemainingBudget:    result.RemainingBudget,
		IdealDailyBudget:   result.IdealDailyBudget,
		Recommendations:    recommendations,
	}
	if envelope.ID != 0 {
		id := envelope.ID
		record.EnvelopeID = &id
	}
	return record
}

// ListReviews returns a client's persisted review history for trend display
func (s *Reviewer) ListReviews(clientID int64, limit int) ([]models.ReviewRecord, error) {
	return s.store.ListReviews(clientID, limit)
}

func keyFor(clientID int64, accountID *int64) itemKey {
	k := itemKey{clientID: clientID}
	if accountID != nil {
		k.accountID = *accountID
	}
	return k
}

func accountLabel(accountID *int64) string {
	if accountID == nil {
		return "all"
	}
	return strconv.FormatInt(*accountID, 10)
}
