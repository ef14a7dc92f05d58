package models

import "time"

// SettingsVersion is the app version written into default settings and backups.
const SettingsVersion = "1.4"

// Settings holds per-user app preferences. There is at most one row per user.
type Settings struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"-"`
	Language        string    `json:"language"`
	Reminder        bool      `json:"reminder"`
	Currency        string    `json:"currency"`
	Theme           string    `json:"theme"`
	KeepScreenOn    bool      `json:"keepScreenOn"`
	NumberFormat    string    `json:"numberFormat"`
	TimeFormat      string    `json:"timeFormat"`
	FirstDay        string    `json:"firstDay"`
	Version         string    `json:"version"`
	AppLockPassword *string   `json:"app_lock_password"` // bcrypt hash
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings a user gets on first access.
func DefaultSettings(userID int64) *Settings {
	return &Settings{
		UserID:       userID,
		Language:     "English",
		Reminder:     false,
		Currency:     "None",
		Theme:        "Peacock",
		KeepScreenOn: false,
		NumberFormat: "1,000,000.00",
		TimeFormat:   "12 Hour",
		FirstDay:     "Sunday",
		Version:      SettingsVersion,
	}
}

// HasAppLock reports whether an app lock hash is stored.
func (s *Settings) HasAppLock() bool {
	return s.AppLockPassword != nil && *s.AppLockPassword != ""
}
