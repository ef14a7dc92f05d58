package models

import "time"

// Note is a free-form text note.
type Note struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	Text         string    `json:"text"`
	CreatedAtStr string    `json:"created_at_str"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NoteCreatedLayout formats Note.CreatedAtStr.
const NoteCreatedLayout = "2006-01-02 15:04:05"
