package repository

import (
	"context"

	"github.com/Dan9191/cashbook/internal/models"
)

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO finance.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapError(err, "create user")
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = $1", email)
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUser(ctx, "id = $1", id)
}

func (r *Repository) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM finance.users
		WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "find user")
	}
	return user, nil
}

// ListReminderRecipients returns users whose settings have reminders on.
func (r *Repository) ListReminderRecipients(ctx context.Context) ([]models.ReminderRecipient, error) {
	query := `
		SELECT u.id, u.username, u.email
		FROM finance.users u
		JOIN finance.settings s ON s.user_id = u.id
		WHERE s.reminder = TRUE
		ORDER BY u.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err, "list reminder recipients")
	}
	defer rows.Close()

	var out []models.ReminderRecipient
	for rows.Next() {
		var rr models.ReminderRecipient
		if err := rows.Scan(&rr.UserID, &rr.Username, &rr.Email); err != nil {
			return nil, mapError(err, "scan reminder recipient")
		}
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list reminder recipients")
	}
	return out, nil
}
