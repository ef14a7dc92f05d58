package service

import (
	"context"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/validation"
)

// CreateNote stores a note; created_at_str is generated here.
func (s *Service) CreateNote(ctx context.Context, ownerID int64, in validation.NoteInput) (*models.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	in.CreatedAtStr, in.CreatedAt, in.UpdatedAt = "", nil, nil

	note, err := s.validate.Note(in, s.now())
	if err != nil {
		return nil, err
	}
	note.UserID = ownerID
	if err := s.store.CreateNote(ctx, &note); err != nil {
		return nil, storeError(err, "note")
	}
	return &note, nil
}

func (s *Service) GetNote(ctx context.Context, ownerID, id int64) (*models.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	note, err := s.store.GetNote(ctx, ownerID, id)
	if err != nil {
		return nil, storeError(err, "note")
	}
	return note, nil
}

func (s *Service) ListNotes(ctx context.Context, ownerID int64) ([]models.Note, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.store.ListNotes(ctx, ownerID)
}

// UpdateNote replaces the note text; created_at_str is kept.
func (s *Service) UpdateNote(ctx context.Context, ownerID, id int64, in validation.NoteInput) (*models.Note, error) {
	note, err := s.GetNote(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	valid, err := s.validate.Note(validation.NoteInput{Text: in.Text}, s.now())
	if err != nil {
		return nil, err
	}
	note.Text = valid.Text
	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, storeError(err, "note")
	}
	return note, nil
}

func (s *Service) DeleteNote(ctx context.Context, ownerID, id int64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.store.DeleteNote(ctx, ownerID, id); err != nil {
		return storeError(err, "note")
	}
	return nil
}
