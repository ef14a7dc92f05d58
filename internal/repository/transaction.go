package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/cashbook/internal/models"
)

const transactionColumns = `id, user_id, account, type, date, time, amount, name, category, remark, payment, created_at, updated_at`

const defaultTransactionOrder = "date DESC, time DESC, id DESC"

var transactionOrderFields = map[string]bool{
	"date":       true,
	"time":       true,
	"amount":     true,
	"created_at": true,
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner, t *models.Transaction) error {
	return s.Scan(&t.ID, &t.UserID, &t.Account, &t.Type, &t.Date, &t.Time, &t.Amount,
		&t.Name, &t.Category, &t.Remark, &t.Payment, &t.CreatedAt, &t.UpdatedAt)
}

// CreateTransaction creates a new transaction in the database
func (r *Repository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO finance.transactions
			(user_id, account, type, date, time, amount, name, category, remark, payment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, CURRENT_TIMESTAMP), COALESCE($12, CURRENT_TIMESTAMP))
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, t.UserID, t.Account, t.Type, t.Date, t.Time, t.Amount,
		t.Name, t.Category, t.Remark, t.Payment, nullTime(t.CreatedAt), nullTime(t.UpdatedAt)).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapError(err, "create transaction")
	}
	return nil
}

// GetTransaction retrieves one of the user's transactions
func (r *Repository) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM finance.transactions WHERE user_id = $1 AND id = $2`
	t := &models.Transaction{}
	if err := scanTransaction(r.db.QueryRowContext(ctx, query, userID, id), t); err != nil {
		return nil, mapError(err, "get transaction")
	}
	return t, nil
}

// LatestTransaction returns the most recently inserted transaction of the user
func (r *Repository) LatestTransaction(ctx context.Context, userID int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM finance.transactions
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	t := &models.Transaction{}
	if err := scanTransaction(r.db.QueryRowContext(ctx, query, userID), t); err != nil {
		return nil, mapError(err, "get latest transaction")
	}
	return t, nil
}

// ListTransactions returns the user's transactions matching filter
func (r *Repository) ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	var sb strings.Builder
	args := []any{userID}
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM finance.transactions WHERE user_id = $1`)

	add := func(cond string, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		fmt.Fprintf(&sb, " AND %s $%d", cond, len(args))
	}
	add("account =", filter.Account)
	add("type =", filter.Type)
	add("date >=", filter.StartDate)
	add("date <=", filter.EndDate)

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderClause(filter.Ordering))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapError(err, "list transactions")
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, mapError(err, "scan transaction")
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list transactions")
	}
	return txs, nil
}

// orderClause builds ORDER BY from a "-date,time" style list. Unknown fields
// are ignored; an empty result falls back to newest date and time first.
func orderClause(ordering string) string {
	var parts []string
	seen := map[string]bool{}
	for _, f := range strings.Split(ordering, ",") {
		f = strings.TrimSpace(f)
		dir := "ASC"
		if strings.HasPrefix(f, "-") {
			dir = "DESC"
			f = f[1:]
		}
		if !transactionOrderFields[f] || seen[f] {
			continue
		}
		seen[f] = true
		parts = append(parts, f+" "+dir)
	}
	if len(parts) == 0 {
		return defaultTransactionOrder
	}
	return strings.Join(append(parts, "id DESC"), ", ")
}

// UpdateTransaction replaces the writable fields of a transaction
func (r *Repository) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	query := `
		UPDATE finance.transactions
		SET account = $3, type = $4, date = $5, time = $6, amount = $7,
			name = $8, category = $9, remark = $10, payment = $11, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND id = $2
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, t.UserID, t.ID, t.Account, t.Type, t.Date, t.Time, t.Amount,
		t.Name, t.Category, t.Remark, t.Payment).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapError(err, "update transaction")
	}
	return nil
}

// DeleteTransaction removes one transaction
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM finance.transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return mapError(err, "delete transaction")
	}
	return checkAffected(res, "delete transaction")
}

// DeleteTransactions removes every transaction of the user
func (r *Repository) DeleteTransactions(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM finance.transactions WHERE user_id = $1`, userID); err != nil {
		return mapError(err, "delete transactions")
	}
	return nil
}
