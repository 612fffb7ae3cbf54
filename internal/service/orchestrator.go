package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/adverdi/pacing-service/internal/errs"
	"github.com/adverdi/pacing-service/internal/models"
)

// RunBatch reviews every item in the list strictly sequentially, isolating
// per-item failures: an item that errors is recorded in the summary and the
// loop moves on. Items already in flight are skipped, not queued. With a nil
// or empty item list, every active client is reviewed client-wide. The
// in-flight set is cleared wholesale once the loop ends.
func (s *Reviewer) RunBatch(ctx context.Context, items []models.ReviewItem) (*models.BatchSummary, error) {
	if len(items) == 0 {
		clients, err := s.store.ListActiveClients()
		if err != nil {
			return nil, err
		}
		for _, c := range clients {
			items = append(items, models.ReviewItem{ClientID: c.ID})
		}
	}

	summary := &models.BatchSummary{
		BatchID:   uuid.NewString(),
		StartedAt: s.now(),
		Succeeded: []*models.ReviewRecord{},
		Failed:    []models.FailedItem{},
	}
	s.log.Infof("Batch %s started: %d items", summary.BatchID, len(items))

	for _, item := range items {
		key := keyFor(item.ClientID, item.AccountID)
		if !s.state.mark(key) {
			s.log.Infof("Batch %s: client=%d account=%s already in flight, skipping",
				summary.BatchID, item.ClientID, accountLabel(item.AccountID))
			summary.Skipped++
			continue
		}

		record, err := s.runItem(ctx, item)
		s.state.unmark(key)
		if err != nil {
			s.log.Errorf("Batch %s: client=%d account=%s failed: %v",
				summary.BatchID, item.ClientID, accountLabel(item.AccountID), err)
			summary.Failed = append(summary.Failed, models.FailedItem{
				ClientID:  item.ClientID,
				AccountID: item.AccountID,
				Category:  errs.Category(err),
				Error:     err.Error(),
			})
			continue
		}
		summary.Succeeded = append(summary.Succeeded, record)
	}

	s.state.reset()
	summary.FinishedAt = s.now()
	s.log.Infof("Batch %s finished: %d succeeded, %d failed, %d skipped",
		summary.BatchID, len(summary.Succeeded), len(summary.Failed), summary.Skipped)
	return summary, nil
}

func (s *Reviewer) runItem(ctx context.Context, item models.ReviewItem) (*models.ReviewRecord, error) {
	client, err := s.store.FindClient(item.ClientID)
	if err != nil {
		return nil, err
	}
	return s.reviewOne(ctx, client, item.AccountID, s.now())
}
