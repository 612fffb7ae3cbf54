package spendapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/adverdi/pacing-service/internal/errs"
)

// GoogleClient pulls account spend from the Google-side report service,
// which answers report requests with an XML document.
type GoogleClient struct {
	url    string
	token  string
	client *http.Client
	log    *logrus.Logger
}

// NewGoogleClient initializes a new Google report client
func NewGoogleClient(url, token string, log *logrus.Logger) *GoogleClient {
	return &GoogleClient{
		url:   url,
		token: token,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// buildReportRequest creates the XML report definition for one account
func (c *GoogleClient) buildReportRequest(externalAccountID string, start, end time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<reportRequest>
			<accountId>%s</accountId>
			<dateRange>
				<min>%s</min>
				<max>%s</max>
			</dateRange>
			<fields>
				<field>TotalCost</field>
				<field>DailyBudget</field>
				<field>DailyCost</field>
				<field>CampaignCost</field>
			</fields>
		</reportRequest>`, externalAccountID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// sendRequest posts the report definition and returns the raw XML body
func (c *GoogleClient) sendRequest(ctx context.Context, reportRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(reportRequest))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", errs.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: report request failed: %v", errs.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", errs.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read report response: %v", errs.ErrUpstream, err)
	}

	c.log.Debugf("Google report XML response: %s", string(body))
	return body, nil
}

// parseReport extracts the spend report from the XML response
func (c *GoogleClient) parseReport(rawBody []byte) (*SpendReport, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("%w: failed to parse report XML: %v", errs.ErrUpstream, err)
	}

	account := doc.FindElement("//report/account")
	if account == nil {
		return nil, fmt.Errorf("%w: no account element in report", errs.ErrUpstream)
	}

	report := &SpendReport{}
	var err error
	if report.TotalSpent, err = parseXMLAmount(account, "./totalCost"); err != nil {
		return nil, err
	}
	if report.DailyBudget, err = parseXMLAmount(account, "./dailyBudget"); err != nil {
		return nil, err
	}

	for _, row := range doc.FindElements("//report/days/day") {
		dateEl := row.FindElement("./date")
		if dateEl == nil {
			return nil, fmt.Errorf("%w: day row missing date", errs.ErrUpstream)
		}
		day, err := time.Parse("2006-01-02", dateEl.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: bad day date %q: %v", errs.ErrUpstream, dateEl.Text(), err)
		}
		amount, err := parseXMLAmount(row, "./cost")
		if err != nil {
			return nil, err
		}
		report.Daily = append(report.Daily, DailySpend{Date: day, Amount: amount})
	}

	for _, row := range doc.FindElements("//report/campaigns/campaign") {
		spent, err := parseXMLAmount(row, "./cost")
		if err != nil {
			return nil, err
		}
		campaign := CampaignSpend{Spent: spent}
		if id := row.FindElement("./id"); id != nil {
			campaign.CampaignID = id.Text()
		}
		if name := row.FindElement("./name"); name != nil {
			campaign.Name = name.Text()
		}
		report.Campaigns = append(report.Campaigns, campaign)
	}

	return report, nil
}

// ComputeSpend fetches aggregated spend for one account over the inclusive
// date range.
func (c *GoogleClient) ComputeSpend(ctx context.Context, externalAccountID string, start, end time.Time) (*SpendReport, error) {
	body, err := c.sendRequest(ctx, c.buildReportRequest(externalAccountID, start, end))
	if err != nil {
		return nil, err
	}

	report, err := c.parseReport(body)
	if err != nil {
		return nil, err
	}

	c.log.Debugf("Google report for account %s: total %.2f over %d days", externalAccountID, report.TotalSpent, len(report.Daily))
	return report, nil
}

func parseXMLAmount(parent *etree.Element, path string) (float64, error) {
	el := parent.FindElement(path)
	if el == nil {
		return 0, nil
	}
	field := path[2:]
	v, err := strconv.ParseFloat(el.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed %s value %q", errs.ErrUpstream, field, el.Text())
	}
	if err := checkFinite(field, v); err != nil {
		return 0, err
	}
	return v, nil
}
