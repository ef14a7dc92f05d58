package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dan9191/cashbook/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestCreateAccount(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO finance.accounts`).
		WithArgs(int64(7), "Cash", "29 Dec 2025 10:35 PM", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	acc := &models.Account{UserID: 7, Name: "Cash", Created: "29 Dec 2025 10:35 PM"}
	require.NoError(t, repo.CreateAccount(context.Background(), acc))
	assert.Equal(t, int64(1), acc.ID)
	assert.Equal(t, now, acc.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_Duplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO finance.accounts`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.CreateAccount(context.Background(), &models.Account{UserID: 7, Name: "Cash"})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccount_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM finance.accounts WHERE user_id = \$1 AND id = \$2`).
		WithArgs(int64(7), int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAccount(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccount_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM finance.accounts WHERE user_id = \$1 AND id = \$2`).
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteAccount(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions_Filtered(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	cols := []string{"id", "user_id", "account", "type", "date", "time", "amount", "name",
		"category", "remark", "payment", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow(int64(5), int64(7), "Cash", "expense", "2025-02-01", "09:15", "12.50", "Lunch", "Food", "", "Cash", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE user_id = $1 AND account = $2 AND date >= $3 ORDER BY amount DESC, id DESC`)).
		WithArgs(int64(7), "Cash", "2025-01-01").
		WillReturnRows(rows)

	txs, err := repo.ListTransactions(context.Background(), 7, models.TransactionFilter{
		Account:   "Cash",
		StartDate: "2025-01-01",
		Ordering:  "-amount",
	})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Lunch", txs[0].Name)
	assert.True(t, decimal.RequireFromString("12.5").Equal(txs[0].Amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, defaultTransactionOrder, orderClause(""))
	assert.Equal(t, defaultTransactionOrder, orderClause("password; DROP TABLE x"))
	assert.Equal(t, "date ASC, amount DESC, id DESC", orderClause("date,-amount,date"))
	assert.Equal(t, "created_at DESC, id DESC", orderClause(" -created_at "))
}

func TestGetSettings_NullAppLock(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	cols := []string{"id", "user_id", "language", "reminder", "currency", "theme", "keep_screen_on",
		"number_format", "time_format", "first_day", "version", "app_lock_password", "created_at", "updated_at"}
	mock.ExpectQuery(`FROM finance.settings`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), int64(7), "English", false, "None", "Peacock", false,
				"1,000,000.00", "12 Hour", "Sunday", "1.4", nil, now, now))

	s, err := repo.GetSettings(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, s.AppLockPassword)
	assert.False(t, s.HasAppLock())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_Commit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM finance.notes WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.WithinTx(context.Background(), func(s Store) error {
		return s.DeleteNotes(context.Background(), 7)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_Rollback(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(Store) error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
