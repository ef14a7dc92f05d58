package reminder

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/cashbook/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender delivers a single reminder message.
type Sender interface {
	SendReminder(to, username string, day time.Time, recorded int) error
}

// SMTPSender handles sending reminder emails via SMTP
type SMTPSender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSMTPSender creates a new email sender
func NewSMTPSender(cfg *config.Config, logger *logrus.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendReminder sends the daily reminder to record transactions
func (s *SMTPSender) SendReminder(to, username string, day time.Time, recorded int) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Daily Cashbook Reminder"
	e.Text = []byte(reminderBody(username, day, recorded))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send reminder to %s: %v", to, err)
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func reminderBody(username string, day time.Time, recorded int) string {
	body := fmt.Sprintf("Dear %s,\n\n", username)
	switch recorded {
	case 0:
		body += fmt.Sprintf("You have not recorded any transactions for %s yet.\n", day.Format("2006-01-02"))
	case 1:
		body += fmt.Sprintf("You have recorded 1 transaction for %s.\n", day.Format("2006-01-02"))
	default:
		body += fmt.Sprintf("You have recorded %d transactions for %s.\n", recorded, day.Format("2006-01-02"))
	}
	body += "Take a minute to add anything you missed today.\n"
	body += "\nBest regards,\nCashbook"
	return body
}
