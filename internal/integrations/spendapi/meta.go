package spendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adverdi/pacing-service/internal/errs"
)

// MetaClient reads spend insights from the Meta-side reporting API, which
// returns JSON with all monetary values encoded as strings.
type MetaClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logrus.Logger
}

// NewMetaClient initializes a new Meta insights client
func NewMetaClient(baseURL, token string, log *logrus.Logger) *MetaClient {
	return &MetaClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type metaInsightsResponse struct {
	Data struct {
		TotalSpend  string `json:"total_spend"`
		DailyBudget string `json:"daily_budget"`
		Daily       []struct {
			Date  string `json:"date"`
			Spend string `json:"spend"`
		} `json:"daily"`
		Campaigns []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Spend string `json:"spend"`
		} `json:"campaigns"`
	} `json:"data"`
}

// ComputeSpend fetches aggregated spend for one account over the inclusive
// date range.
func (c *MetaClient) ComputeSpend(ctx context.Context, externalAccountID string, start, end time.Time) (*SpendReport, error) {
	q := url.Values{}
	q.Set("account_id", externalAccountID)
	q.Set("since", start.Format("2006-01-02"))
	q.Set("until", end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/insights?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", errs.ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: insights request failed: %v", errs.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", errs.ErrUpstream, resp.StatusCode)
	}

	var payload metaInsightsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode insights response: %v", errs.ErrUpstream, err)
	}

	report := &SpendReport{}
	if report.TotalSpent, err = parseAmount("total_spend", payload.Data.TotalSpend); err != nil {
		return nil, err
	}
	if report.DailyBudget, err = parseAmount("daily_budget", payload.Data.DailyBudget); err != nil {
		return nil, err
	}
	for _, d := range payload.Data.Daily {
		day, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad daily spend date %q: %v", errs.ErrUpstream, d.Date, err)
		}
		amount, err := parseAmount("daily spend", d.Spend)
		if err != nil {
			return nil, err
		}
		report.Daily = append(report.Daily, DailySpend{Date: day, Amount: amount})
	}
	for _, cmp := range payload.Data.Campaigns {
		spent, err := parseAmount("campaign spend", cmp.Spend)
		if err != nil {
			return nil, err
		}
		report.Campaigns = append(report.Campaigns, CampaignSpend{CampaignID: cmp.ID, Name: cmp.Name, Spent: spent})
	}

	c.log.Debugf("Meta insights for account %s: total %.2f over %d days", externalAccountID, report.TotalSpent, len(report.Daily))
	return report, nil
}

// parseAmount converts a string-encoded monetary value, rejecting anything
// that is not a finite number.
func parseAmount(field, raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed %s value %q", errs.ErrUpstream, field, raw)
	}
	if err := checkFinite(field, v); err != nil {
		return 0, err
	}
	return v, nil
}
