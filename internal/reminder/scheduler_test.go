package reminder

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/storetest"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	to       string
	username string
	recorded int
}

type fakeSender struct {
	sent    []sent
	failFor string
}

func (f *fakeSender) SendReminder(to, username string, _ time.Time, recorded int) error {
	if to == f.failFor {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sent{to: to, username: username, recorded: recorded})
	return nil
}

func newScheduler(t *testing.T) (*Scheduler, *storetest.Memory, *fakeSender) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	mem := storetest.NewMemory()
	sender := &fakeSender{}
	s := NewScheduler(mem, sender, log)
	s.now = func() time.Time { return time.Date(2025, 12, 29, 20, 0, 0, 0, time.UTC) }
	return s, mem, sender
}

func addUser(t *testing.T, mem *storetest.Memory, name string, reminder bool) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, mem.CreateUser(ctx, u))
	settings := models.DefaultSettings(u.ID)
	settings.Reminder = reminder
	require.NoError(t, mem.CreateSettings(ctx, settings))
	return u
}

func TestRun(t *testing.T) {
	s, mem, sender := newScheduler(t)
	ctx := context.Background()

	alice := addUser(t, mem, "alice", true)
	addUser(t, mem, "bob", false)
	for _, date := range []string{"2025-12-29", "2025-12-29", "2025-12-28"} {
		require.NoError(t, mem.CreateTransaction(ctx, &models.Transaction{
			UserID: alice.ID, Account: "Cash", Type: models.TransactionExpense,
			Date: date, Time: "10:00", Amount: decimal.NewFromInt(1), Payment: models.PaymentCash,
		}))
	}

	n, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, sent{to: "alice@example.com", username: "alice", recorded: 2}, sender.sent[0])
}

func TestRun_DeliveryFailureContinues(t *testing.T) {
	s, mem, sender := newScheduler(t)
	addUser(t, mem, "alice", true)
	addUser(t, mem, "carol", true)
	sender.failFor = "alice@example.com"

	n, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "carol@example.com", sender.sent[0].to)
}

func TestRun_StoreError(t *testing.T) {
	s, mem, _ := newScheduler(t)
	addUser(t, mem, "alice", true)
	mem.Fail = func(op string) error {
		if op == "ListReminderRecipients" {
			return errors.New("db gone")
		}
		return nil
	}

	_, err := s.Run(context.Background())
	assert.Error(t, err)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s, _, _ := newScheduler(t)
	assert.Error(t, s.Start("every now and then"))
}

func TestReminderBody(t *testing.T) {
	day := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)
	assert.Contains(t, reminderBody("alice", day, 0), "not recorded any transactions for 2025-12-29")
	assert.Contains(t, reminderBody("alice", day, 1), "1 transaction for")
	assert.Contains(t, reminderBody("alice", day, 3), "3 transactions for")
}
