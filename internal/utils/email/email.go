package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/adverdi/pacing-service/internal/config"
	"github.com/adverdi/pacing-service/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled reports whether SMTP and a recipient are configured
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.AlertEmail != ""
}

// SendBatchSummary mails the outcome of a scheduled review batch
func (s *Sender) SendBatchSummary(summary *models.BatchSummary) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AlertEmail}
	if len(summary.Failed) > 0 {
		e.Subject = fmt.Sprintf("Budget review batch: %d failures", len(summary.Failed))
	} else {
		e.Subject = "Budget review batch completed"
	}

	// Format email body
	body := fmt.Sprintf(
		"Batch %s finished at %s.\n\n"+
			"Succeeded: %d\nFailed: %d\nSkipped (already in flight): %d\n",
		summary.BatchID,
		summary.FinishedAt.Format("2006-01-02 15:04:05"),
		len(summary.Succeeded), len(summary.Failed), summary.Skipped,
	)
	if len(summary.Failed) > 0 {
		body += "\nFailures:\n"
		for _, f := range summary.Failed {
			if f.AccountID != nil {
				body += fmt.Sprintf("- client %d account %d [%s]: %s\n", f.ClientID, *f.AccountID, f.Category, f.Error)
			} else {
				body += fmt.Sprintf("- client %d [%s]: %s\n", f.ClientID, f.Category, f.Error)
			}
		}
	}
	body += "\nBest regards,\nPacing Service"
	e.Text = []byte(body)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send batch summary to %s: %v", s.cfg.AlertEmail, err)
		return fmt.Errorf("failed to send batch summary: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.AlertEmail, e.Subject)
	return nil
}
