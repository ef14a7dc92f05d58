package repository

import (
	"context"
	"database/sql"

	"github.com/Dan9191/cashbook/internal/models"
)

// GetSettings retrieves the user's settings row
func (r *Repository) GetSettings(ctx context.Context, userID int64) (*models.Settings, error) {
	query := `
		SELECT id, user_id, language, reminder, currency, theme, keep_screen_on, number_format,
			time_format, first_day, version, app_lock_password, created_at, updated_at
		FROM finance.settings
		WHERE user_id = $1`
	s := &models.Settings{}
	var lock sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&s.ID, &s.UserID, &s.Language, &s.Reminder, &s.Currency, &s.Theme, &s.KeepScreenOn,
			&s.NumberFormat, &s.TimeFormat, &s.FirstDay, &s.Version, &lock, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "get settings")
	}
	if lock.Valid {
		s.AppLockPassword = &lock.String
	}
	return s, nil
}

// CreateSettings inserts the user's settings row. A second row for the same
// user fails with ErrDuplicate.
func (r *Repository) CreateSettings(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO finance.settings
			(user_id, language, reminder, currency, theme, keep_screen_on, number_format,
			 time_format, first_day, version, app_lock_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, s.UserID, s.Language, s.Reminder, s.Currency, s.Theme,
		s.KeepScreenOn, s.NumberFormat, s.TimeFormat, s.FirstDay, s.Version, lockValue(s)).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapError(err, "create settings")
	}
	return nil
}

// UpdateSettings writes every settings column, including the app lock hash
func (r *Repository) UpdateSettings(ctx context.Context, s *models.Settings) error {
	query := `
		UPDATE finance.settings
		SET language = $2, reminder = $3, currency = $4, theme = $5, keep_screen_on = $6,
			number_format = $7, time_format = $8, first_day = $9, version = $10,
			app_lock_password = $11, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, s.UserID, s.Language, s.Reminder, s.Currency, s.Theme,
		s.KeepScreenOn, s.NumberFormat, s.TimeFormat, s.FirstDay, s.Version, lockValue(s)).
		Scan(&s.UpdatedAt)
	if err != nil {
		return mapError(err, "update settings")
	}
	return nil
}

// DeleteSettings removes the user's settings row if any
func (r *Repository) DeleteSettings(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM finance.settings WHERE user_id = $1`, userID); err != nil {
		return mapError(err, "delete settings")
	}
	return nil
}

func lockValue(s *models.Settings) sql.NullString {
	if !s.HasAppLock() {
		return sql.NullString{}
	}
	return sql.NullString{String: *s.AppLockPassword, Valid: true}
}
