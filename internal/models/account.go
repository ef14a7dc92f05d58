package models

import "time"

// Account is a named wallet or bank account owned by a user.
type Account struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	Created   string    `json:"created"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountCreatedLayout formats Account.Created, e.g. "29 Dec 2025 10:35 PM".
const AccountCreatedLayout = "02 Jan 2006 03:04 PM"
