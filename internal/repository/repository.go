package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches an owner-scoped lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

const uniqueViolation = "23505"

// Store is the persistence contract the service layer depends on. Every
// entity method takes the owning user explicitly.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	ListReminderRecipients(ctx context.Context) ([]models.ReminderRecipient, error)

	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, userID, id int64) (*models.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, userID, id int64) error
	DeleteAccounts(ctx context.Context, userID int64) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error)
	LatestTransaction(ctx context.Context, userID int64) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	DeleteTransactions(ctx context.Context, userID int64) error

	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, userID, id int64) (*models.Note, error)
	ListNotes(ctx context.Context, userID int64) ([]models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, userID, id int64) error
	DeleteNotes(ctx context.Context, userID int64) error

	GetSettings(ctx context.Context, userID int64) (*models.Settings, error)
	CreateSettings(ctx context.Context, settings *models.Settings) error
	UpdateSettings(ctx context.Context, settings *models.Settings) error
	DeleteSettings(ctx context.Context, userID int64) error

	// WithinTx runs fn against a Store bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository provides database operations
type Repository struct {
	conn *sql.DB
	db   dbtx
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{conn: db, db: db}
}

var _ Store = (*Repository)(nil)

// WithinTx implements Store.
func (r *Repository) WithinTx(ctx context.Context, fn func(Store) error) error {
	if r.conn == nil {
		// Already inside a transaction; nest by reusing it.
		return fn(r)
	}
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&Repository{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapError converts driver errors into repository sentinels.
func mapError(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("failed to %s: %w", action, ErrDuplicate)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// nullTime lets the database stamp CURRENT_TIMESTAMP for zero times.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func checkAffected(res sql.Result, action string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
