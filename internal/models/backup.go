package models

import (
	"encoding/json"
	"time"
)

// BackupVersion is the schema version stamped on every exported document.
const BackupVersion = "1.4"

// Backup is the document produced by an export.
type Backup struct {
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Notes        []Note        `json:"notes"`
	Settings     *Settings     `json:"settings"`
	BackupDate   *time.Time    `json:"backupDate"`
	Version      string        `json:"version"`
}

// RestoreDocument is an uploaded backup. Records stay raw so that each one
// can be decoded and validated on its own.
type RestoreDocument struct {
	Accounts     []json.RawMessage
	Transactions []json.RawMessage
	Notes        []json.RawMessage
	Settings     json.RawMessage
}

// ParseRestoreDocument decodes an uploaded backup. Only invalid JSON is an
// error; a non-object body or missing, null or non-array collections yield
// an empty section.
func ParseRestoreDocument(raw []byte) (*RestoreDocument, error) {
	if !json.Valid(raw) {
		return nil, ErrMalformedDocument
	}

	doc := &RestoreDocument{}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return doc, nil
	}

	doc.Accounts = rawList(top["accounts"])
	doc.Transactions = rawList(top["transactions"])
	doc.Notes = rawList(top["notes"])
	if s, ok := top["settings"]; ok && isObject(s) {
		doc.Settings = s
	}
	return doc, nil
}

func rawList(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func isObject(raw json.RawMessage) bool {
	var m map[string]json.RawMessage
	return json.Unmarshal(raw, &m) == nil && m != nil
}

// RestoreResult reports what a restore wrote.
type RestoreResult struct {
	Message  string        `json:"message"`
	Restored RestoreCounts `json:"restored"`
	Skipped  RestoreCounts `json:"skipped"`
}

// RestoreCounts tallies records per entity kind.
type RestoreCounts struct {
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
	Notes        int `json:"notes"`
	Settings     int `json:"settings"`
}
