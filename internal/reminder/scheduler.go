package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Store is the part of the repository the reminder job reads from.
type Store interface {
	ListReminderRecipients(ctx context.Context) ([]models.ReminderRecipient, error)
	ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error)
}

// Scheduler emails every user with reminders enabled on a cron schedule.
type Scheduler struct {
	store  Store
	sender Sender
	log    *logrus.Logger
	cron   *cron.Cron
	now    func() time.Time
}

func NewScheduler(store Store, sender Sender, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		sender: sender,
		log:    log,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start registers the job on schedule and starts the cron runner.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.Run(context.Background()); err != nil {
			s.log.WithError(err).Error("Reminder job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.log.Infof("Reminder job scheduled: %s", schedule)
	return nil
}

// Stop halts the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Run sends one round of reminders and returns how many were delivered.
// A failed delivery is logged and does not stop the others.
func (s *Scheduler) Run(ctx context.Context) (int, error) {
	recipients, err := s.store.ListReminderRecipients(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reminder recipients: %w", err)
	}

	day := s.now()
	date := day.Format("2006-01-02")
	sent := 0
	for _, rcpt := range recipients {
		txs, err := s.store.ListTransactions(ctx, rcpt.UserID, models.TransactionFilter{StartDate: date, EndDate: date})
		if err != nil {
			return sent, fmt.Errorf("list transactions for user %d: %w", rcpt.UserID, err)
		}
		if err := s.sender.SendReminder(rcpt.Email, rcpt.Username, day, len(txs)); err != nil {
			s.log.WithError(err).WithField("user_id", rcpt.UserID).Warn("Reminder not delivered")
			continue
		}
		sent++
	}

	s.log.WithFields(logrus.Fields{
		"recipients": len(recipients),
		"sent":       sent,
	}).Info("Reminders sent")
	return sent, nil
}
