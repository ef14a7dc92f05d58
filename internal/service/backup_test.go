package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedOwner gives owner a bit of everything.
func seedOwner(t *testing.T, svc *Service, owner int64) {
	t.Helper()
	ctx := context.Background()

	for _, name := range []string{"Cash", "Bank"} {
		_, err := svc.CreateAccount(ctx, owner, validation.AccountInput{Name: name})
		require.NoError(t, err)
	}
	lunch := txInput("Cash", models.TransactionExpense, "2025-03-01", "12:30", "12.50")
	lunch.Name, lunch.Category, lunch.Payment = "Lunch", "Food", models.PaymentOnline
	_, err := svc.CreateTransaction(ctx, owner, lunch)
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, owner, txInput("Bank", models.TransactionIncome, "2025-03-02", "09:00", "1500"))
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, owner, validation.NoteInput{Text: "check salary"})
	require.NoError(t, err)

	theme := "Dark"
	_, err = svc.UpdateSettings(ctx, owner, validation.SettingsInput{Theme: &theme})
	require.NoError(t, err)
	require.NoError(t, svc.SetAppLock(ctx, owner, "secret"))
}

// exportAsUpload runs the export and turns it into an upload, as a client would.
func exportAsUpload(t *testing.T, svc *Service, owner int64) (*models.Backup, *models.RestoreDocument) {
	t.Helper()
	backup, err := svc.ExportBackup(context.Background(), owner)
	require.NoError(t, err)
	raw, err := json.Marshal(backup)
	require.NoError(t, err)
	doc, err := models.ParseRestoreDocument(raw)
	require.NoError(t, err)
	return backup, doc
}

type accountView struct {
	Name, Created string
	CreatedAt     time.Time
}

type transactionView struct {
	Account, Type, Date, Time, Amount, Name, Category, Remark, Payment string
	CreatedAt                                                         time.Time
}

type noteView struct {
	Text, CreatedAtStr string
	CreatedAt          time.Time
}

func views(b *models.Backup) ([]accountView, []transactionView, []noteView) {
	var accs []accountView
	for _, a := range b.Accounts {
		accs = append(accs, accountView{a.Name, a.Created, a.CreatedAt.UTC()})
	}
	var txs []transactionView
	for _, x := range b.Transactions {
		txs = append(txs, transactionView{x.Account, x.Type, x.Date, x.Time, x.Amount.StringFixed(2),
			x.Name, x.Category, x.Remark, x.Payment, x.CreatedAt.UTC()})
	}
	var notes []noteView
	for _, n := range b.Notes {
		notes = append(notes, noteView{n.Text, n.CreatedAtStr, n.CreatedAt.UTC()})
	}
	return accs, txs, notes
}

func TestExportRestore_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedOwner(t, svc, 1)

	before, doc := exportAsUpload(t, svc, 1)

	result, err := svc.RestoreBackup(ctx, 1, doc)
	require.NoError(t, err)
	assert.Equal(t, "Data restored successfully", result.Message)
	assert.Equal(t, models.RestoreCounts{Accounts: 2, Transactions: 2, Notes: 1, Settings: 1}, result.Restored)
	assert.Equal(t, models.RestoreCounts{}, result.Skipped)

	after, err := svc.ExportBackup(ctx, 1)
	require.NoError(t, err)

	wantAccs, wantTxs, wantNotes := views(before)
	gotAccs, gotTxs, gotNotes := views(after)
	assert.Equal(t, wantAccs, gotAccs)
	assert.Equal(t, wantTxs, gotTxs)
	assert.Equal(t, wantNotes, gotNotes)

	require.NotNil(t, after.Settings)
	assert.Equal(t, "Dark", after.Settings.Theme)
	assert.Equal(t, *before.Settings.AppLockPassword, *after.Settings.AppLockPassword)
	require.NotNil(t, after.BackupDate)
	assert.True(t, before.BackupDate.Equal(*after.BackupDate))

	assert.NoError(t, svc.VerifyAppLock(ctx, 1, "secret"))
}

func TestExport_Document(t *testing.T) {
	svc, _ := newTestService(t)
	seedOwner(t, svc, 1)
	seedOwner(t, svc, 2)

	backup, err := svc.ExportBackup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1.4", backup.Version)
	assert.Len(t, backup.Accounts, 2)
	assert.Len(t, backup.Transactions, 2)
	assert.Len(t, backup.Notes, 1)

	// backupDate is the created_at of the last inserted transaction, not the latest date field.
	latest := backup.Transactions[0]
	for _, tx := range backup.Transactions {
		if tx.CreatedAt.After(latest.CreatedAt) {
			latest = tx
		}
	}
	require.NotNil(t, backup.BackupDate)
	assert.Equal(t, latest.CreatedAt, *backup.BackupDate)

	raw, err := json.Marshal(backup)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "user_id")
	for _, a := range backup.Accounts {
		assert.Equal(t, int64(1), a.UserID)
	}
}

func TestExport_BackupDateFollowsInsertionOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTransaction(ctx, 1, txInput("Cash", models.TransactionExpense, "2030-01-01", "10:00", "1"))
	require.NoError(t, err)
	last, err := svc.CreateTransaction(ctx, 1, txInput("Cash", models.TransactionExpense, "2020-01-01", "10:00", "1"))
	require.NoError(t, err)

	backup, err := svc.ExportBackup(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, backup.BackupDate)
	assert.Equal(t, last.CreatedAt, *backup.BackupDate)
}

func TestExport_NoTransactionsHasNullBackupDate(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, 1, validation.AccountInput{Name: "Cash"})
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, 1, validation.NoteInput{Text: "hello"})
	require.NoError(t, err)

	backup, err := svc.ExportBackup(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, backup.BackupDate)
	assert.Nil(t, backup.Settings)
	assert.NotEmpty(t, backup.Accounts)
	assert.NotEmpty(t, backup.Notes)
	assert.NotNil(t, backup.Transactions)
	assert.Empty(t, backup.Transactions)

	_, _, _, n := mem.Counts(1)
	assert.Zero(t, n, "export must not create settings")
}

func TestRestore_IgnoresUploadedOwner(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	doc, err := models.ParseRestoreDocument([]byte(`{
		"accounts": [{"name": "Cash", "user": 99, "user_id": 99, "owner": 99}],
		"transactions": [{"account": "Cash", "type": "income", "date": "2025-01-01", "time": "10:00",
			"amount": "5.00", "user": 99, "user_id": 99}],
		"notes": [{"text": "hi", "user": 99}],
		"settings": {"theme": "Dark", "user": 99, "user_id": 99}
	}`))
	require.NoError(t, err)

	_, err = svc.RestoreBackup(ctx, 1, doc)
	require.NoError(t, err)

	a, tx, n, s := mem.Counts(1)
	assert.Equal(t, []int{1, 1, 1, 1}, []int{a, tx, n, s})
	a, tx, n, s = mem.Counts(99)
	assert.Equal(t, []int{0, 0, 0, 0}, []int{a, tx, n, s})
}

func TestRestore_SkipsInvalidRecords(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := models.ParseRestoreDocument([]byte(`{
		"transactions": [
			{"account": "Cash", "type": "expense", "date": "2025-01-01", "time": "10:00", "amount": "5.00"},
			{"account": "Cash", "type": "expense", "time": "10:00", "amount": "7.00"}
		]
	}`))
	require.NoError(t, err)

	result, err := svc.RestoreBackup(ctx, 1, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Restored.Transactions)
	assert.Equal(t, 1, result.Skipped.Transactions)

	txs, err := svc.ListTransactions(ctx, 1, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2025-01-01", txs[0].Date)
}

func TestRestore_PerRecordIsolation(t *testing.T) {
	svc, _ := newTestService(t)

	doc, err := models.ParseRestoreDocument([]byte(`{
		"accounts": [{"name": "Cash"}, {"name": "Cash"}, {"name": ""}, {"name": 42}, {"name": "Bank"}],
		"transactions": [
			{"account": "Cash", "type": "gift", "date": "2025-01-01", "time": "10:00", "amount": "1"},
			{"account": "Cash", "type": "income", "date": "2025-01-01", "time": "10:00", "amount": "abc"},
			{"account": "Cash", "type": "income", "date": "2025-01-01", "time": "10:00", "amount": "1", "payment": "Card"},
			{"account": "Cash", "type": "income", "date": "2025-01-01", "time": "10:00", "amount": "1.5"}
		],
		"notes": [{"text": ""}, {"text": "ok"}],
		"settings": {"reminder": "yes"}
	}`))
	require.NoError(t, err)

	result, err := svc.RestoreBackup(context.Background(), 1, doc)
	require.NoError(t, err)
	assert.Equal(t, models.RestoreCounts{Accounts: 2, Transactions: 1, Notes: 1}, result.Restored)
	assert.Equal(t, models.RestoreCounts{Accounts: 3, Transactions: 3, Notes: 1, Settings: 1}, result.Skipped)
}

func TestRestore_DeletesBeforeLookingAtDocument(t *testing.T) {
	for _, body := range []string{`{}`, `[1, 2]`, `{"accounts": null, "settings": null}`} {
		t.Run(body, func(t *testing.T) {
			svc, mem := newTestService(t)
			seedOwner(t, svc, 1)
			seedOwner(t, svc, 2)

			doc, err := models.ParseRestoreDocument([]byte(body))
			require.NoError(t, err)
			result, err := svc.RestoreBackup(context.Background(), 1, doc)
			require.NoError(t, err)
			assert.Equal(t, "Data restored successfully", result.Message)

			a, tx, n, s := mem.Counts(1)
			assert.Equal(t, []int{0, 0, 0, 0}, []int{a, tx, n, s})
			a, tx, n, s = mem.Counts(2)
			assert.Equal(t, []int{2, 2, 1, 1}, []int{a, tx, n, s})
		})
	}
}

func TestRestore_StoreFailure(t *testing.T) {
	doc := []byte(`{
		"accounts": [{"name": "Restored"}],
		"notes": [{"text": "never written"}]
	}`)
	diskFull := errors.New("disk full")

	t.Run("non-atomic keeps partial state", func(t *testing.T) {
		svc, mem := newTestService(t)
		seedOwner(t, svc, 1)
		mem.Fail = func(op string) error {
			if op == "CreateNote" {
				return diskFull
			}
			return nil
		}

		parsed, err := models.ParseRestoreDocument(doc)
		require.NoError(t, err)
		_, err = svc.RestoreBackup(context.Background(), 1, parsed)
		require.ErrorIs(t, err, diskFull)

		a, tx, n, s := mem.Counts(1)
		assert.Equal(t, []int{1, 0, 0, 0}, []int{a, tx, n, s})
	})

	t.Run("atomic rolls back", func(t *testing.T) {
		svc, mem := newTestService(t)
		svc.config.RestoreAtomic = true
		seedOwner(t, svc, 1)
		mem.Fail = func(op string) error {
			if op == "CreateNote" {
				return diskFull
			}
			return nil
		}

		parsed, err := models.ParseRestoreDocument(doc)
		require.NoError(t, err)
		_, err = svc.RestoreBackup(context.Background(), 1, parsed)
		require.ErrorIs(t, err, diskFull)

		a, tx, n, s := mem.Counts(1)
		assert.Equal(t, []int{2, 2, 1, 1}, []int{a, tx, n, s})
	})
}

func TestRestore_AtomicSuccess(t *testing.T) {
	svc, mem := newTestService(t)
	svc.config.RestoreAtomic = true
	seedOwner(t, svc, 1)
	_, doc := exportAsUpload(t, svc, 1)

	_, err := svc.RestoreBackup(context.Background(), 1, doc)
	require.NoError(t, err)
	a, tx, n, s := mem.Counts(1)
	assert.Equal(t, []int{2, 2, 1, 1}, []int{a, tx, n, s})
}
