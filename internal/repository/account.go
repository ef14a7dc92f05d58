package repository

import (
	"context"

	"github.com/Dan9191/cashbook/internal/models"
)

const accountColumns = `id, user_id, name, created, created_at, updated_at`

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO finance.accounts (user_id, name, created, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4, CURRENT_TIMESTAMP), COALESCE($5, CURRENT_TIMESTAMP))
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, account.UserID, account.Name, account.Created,
		nullTime(account.CreatedAt), nullTime(account.UpdatedAt)).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return mapError(err, "create account")
	}
	return nil
}

// GetAccount retrieves one of the user's accounts
func (r *Repository) GetAccount(ctx context.Context, userID, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM finance.accounts WHERE user_id = $1 AND id = $2`
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, userID, id).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Created, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "get account")
	}
	return a, nil
}

// ListAccounts returns the user's accounts, newest first
func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM finance.accounts WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, "list accounts")
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Created, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, mapError(err, "scan account")
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list accounts")
	}
	return accounts, nil
}

// UpdateAccount renames an account
func (r *Repository) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE finance.accounts SET name = $3, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND id = $2
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, account.UserID, account.ID, account.Name).
		Scan(&account.UpdatedAt)
	if err != nil {
		return mapError(err, "update account")
	}
	return nil
}

// DeleteAccount removes one account
func (r *Repository) DeleteAccount(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM finance.accounts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return mapError(err, "delete account")
	}
	return checkAffected(res, "delete account")
}

// DeleteAccounts removes every account of the user
func (r *Repository) DeleteAccounts(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM finance.accounts WHERE user_id = $1`, userID); err != nil {
		return mapError(err, "delete accounts")
	}
	return nil
}
