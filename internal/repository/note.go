package repository

import (
	"context"

	"github.com/Dan9191/cashbook/internal/models"
)

const noteColumns = `id, user_id, text, created_at_str, created_at, updated_at`

// CreateNote creates a new note in the database
func (r *Repository) CreateNote(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO finance.notes (user_id, text, created_at_str, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4, CURRENT_TIMESTAMP), COALESCE($5, CURRENT_TIMESTAMP))
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, note.UserID, note.Text, note.CreatedAtStr,
		nullTime(note.CreatedAt), nullTime(note.UpdatedAt)).
		Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return mapError(err, "create note")
	}
	return nil
}

// GetNote retrieves one of the user's notes
func (r *Repository) GetNote(ctx context.Context, userID, id int64) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM finance.notes WHERE user_id = $1 AND id = $2`
	n := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, userID, id).
		Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAtStr, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "get note")
	}
	return n, nil
}

// ListNotes returns the user's notes, newest first
func (r *Repository) ListNotes(ctx context.Context, userID int64) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM finance.notes WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, "list notes")
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAtStr, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, mapError(err, "scan note")
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list notes")
	}
	return notes, nil
}

// UpdateNote replaces a note's text
func (r *Repository) UpdateNote(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE finance.notes SET text = $3, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND id = $2
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, note.UserID, note.ID, note.Text).Scan(&note.UpdatedAt)
	if err != nil {
		return mapError(err, "update note")
	}
	return nil
}

// DeleteNote removes one note
func (r *Repository) DeleteNote(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM finance.notes WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return mapError(err, "delete note")
	}
	return checkAffected(res, "delete note")
}

// DeleteNotes removes every note of the user
func (r *Repository) DeleteNotes(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM finance.notes WHERE user_id = $1`, userID); err != nil {
		return mapError(err, "delete notes")
	}
	return nil
}
