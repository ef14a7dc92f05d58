package validation

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var maxAmount = decimal.New(1, 8) // NUMERIC(10,2)

// AccountInput is the writable shape of an account.
type AccountInput struct {
	Name      string          `json:"name" validate:"required,max=255"`
	Created   string          `json:"created" validate:"max=100"`
	CreatedAt json.RawMessage `json:"created_at"`
	UpdatedAt json.RawMessage `json:"updated_at"`
}

// Account validates in. An empty Created is stamped from now.
func (v *Validator) Account(in AccountInput, now time.Time) (models.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := v.check(in); err != nil {
		return models.Account{}, err
	}
	created := in.Created
	if created == "" {
		created = now.Format(models.AccountCreatedLayout)
	}
	return models.Account{
		Name:      in.Name,
		Created:   created,
		CreatedAt: parseTimestamp(in.CreatedAt),
		UpdatedAt: parseTimestamp(in.UpdatedAt),
	}, nil
}

// TransactionInput is the writable shape of a transaction.
type TransactionInput struct {
	Account   string           `json:"account" validate:"required,max=255"`
	Type      string           `json:"type" validate:"required,oneof=income expense"`
	Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string           `json:"time" validate:"required,datetime=15:04"`
	Amount    *decimal.Decimal `json:"amount"`
	Name      string           `json:"name" validate:"max=255"`
	Category  string           `json:"category" validate:"max=255"`
	Remark    string           `json:"remark" validate:"max=500"`
	Payment   string           `json:"payment" validate:"omitempty,oneof=Cash Online Other"`
	CreatedAt json.RawMessage  `json:"created_at"`
	UpdatedAt json.RawMessage  `json:"updated_at"`
}

// Transaction validates in.
func (v *Validator) Transaction(in TransactionInput) (models.Transaction, error) {
	err := v.check(in)
	if amountErr := checkAmount(in.Amount); amountErr != "" {
		verr, ok := err.(*Error)
		if !ok {
			verr = &Error{Fields: map[string]string{}}
		}
		verr.Fields["amount"] = amountErr
		err = verr
	}
	if err != nil {
		return models.Transaction{}, err
	}

	payment := in.Payment
	if payment == "" {
		payment = models.PaymentCash
	}
	return models.Transaction{
		Account:   in.Account,
		Type:      in.Type,
		Date:      in.Date,
		Time:      in.Time,
		Amount:    in.Amount.Round(2),
		Name:      in.Name,
		Category:  in.Category,
		Remark:    in.Remark,
		Payment:   payment,
		CreatedAt: parseTimestamp(in.CreatedAt),
		UpdatedAt: parseTimestamp(in.UpdatedAt),
	}, nil
}

// TransactionInputOf returns the writable fields of tx. Decoding a partial
// body over the result yields the input for a partial update.
func TransactionInputOf(tx models.Transaction) TransactionInput {
	amount := tx.Amount
	return TransactionInput{
		Account:  tx.Account,
		Type:     tx.Type,
		Date:     tx.Date,
		Time:     tx.Time,
		Amount:   &amount,
		Name:     tx.Name,
		Category: tx.Category,
		Remark:   tx.Remark,
		Payment:  tx.Payment,
	}
}

// Bounds on the raw representation, checked before anything rescales the
// value. Round and compare cost grows with the exponent distance.
const (
	minAmountExponent = -20
	maxAmountExponent = 8
	maxAmountBits     = 96
)

func checkAmount(a *decimal.Decimal) string {
	switch {
	case a == nil:
		return "this field is required"
	case a.IsNegative():
		return "must be greater than or equal to 0"
	case a.Exponent() < minAmountExponent:
		return "must have at most 2 decimal places"
	case a.Exponent() > maxAmountExponent,
		a.Coefficient().BitLen() > maxAmountBits,
		!a.IsZero() && int(a.Exponent())+a.NumDigits() > 8:
		return "must have at most 10 digits"
	case !a.Equal(a.Round(2)):
		return "must have at most 2 decimal places"
	case a.GreaterThanOrEqual(maxAmount):
		return "must have at most 10 digits"
	}
	return ""
}

// NoteInput is the writable shape of a note.
type NoteInput struct {
	Text         string          `json:"text" validate:"required"`
	CreatedAtStr string          `json:"created_at_str" validate:"max=100"`
	CreatedAt    json.RawMessage `json:"created_at"`
	UpdatedAt    json.RawMessage `json:"updated_at"`
}

// Note validates in. An empty CreatedAtStr is stamped from now.
func (v *Validator) Note(in NoteInput, now time.Time) (models.Note, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := v.check(in); err != nil {
		return models.Note{}, err
	}
	createdStr := in.CreatedAtStr
	if createdStr == "" {
		createdStr = now.Format(models.NoteCreatedLayout)
	}
	return models.Note{
		Text:         in.Text,
		CreatedAtStr: createdStr,
		CreatedAt:    parseTimestamp(in.CreatedAt),
		UpdatedAt:    parseTimestamp(in.UpdatedAt),
	}, nil
}

// SettingsInput carries a partial settings update. Nil fields are left alone.
type SettingsInput struct {
	Language     *string `json:"language" validate:"omitempty,max=50"`
	Reminder     *bool   `json:"reminder"`
	Currency     *string `json:"currency" validate:"omitempty,max=50"`
	Theme        *string `json:"theme" validate:"omitempty,max=50"`
	KeepScreenOn *bool   `json:"keepScreenOn"`
	NumberFormat *string `json:"numberFormat" validate:"omitempty,max=50"`
	TimeFormat   *string `json:"timeFormat" validate:"omitempty,max=50"`
	FirstDay     *string `json:"firstDay" validate:"omitempty,max=50"`
	Version      *string `json:"version" validate:"omitempty,max=20"`
	// AppLockPassword is only read from backups, where it is already a hash.
	AppLockPassword *string `json:"app_lock_password"`
}

// SettingsUpdate validates in and applies the preference fields to s.
// The app lock hash is never touched.
func (v *Validator) SettingsUpdate(s *models.Settings, in SettingsInput) error {
	if err := v.check(in); err != nil {
		return err
	}
	applySettings(s, in)
	return nil
}

// Settings validates a settings record taken from a backup. Missing fields
// fall back to the defaults; a stored app lock must be a bcrypt hash.
func (v *Validator) Settings(in SettingsInput) (models.Settings, error) {
	if err := v.check(in); err != nil {
		return models.Settings{}, err
	}
	s := models.DefaultSettings(0)
	applySettings(s, in)
	if in.AppLockPassword != nil && *in.AppLockPassword != "" {
		if _, err := bcrypt.Cost([]byte(*in.AppLockPassword)); err != nil {
			return models.Settings{}, fieldError("app_lock_password", "must be a bcrypt hash")
		}
		hash := *in.AppLockPassword
		s.AppLockPassword = &hash
	}
	return *s, nil
}

func applySettings(s *models.Settings, in SettingsInput) {
	setString(&s.Language, in.Language)
	setString(&s.Currency, in.Currency)
	setString(&s.Theme, in.Theme)
	setString(&s.NumberFormat, in.NumberFormat)
	setString(&s.TimeFormat, in.TimeFormat)
	setString(&s.FirstDay, in.FirstDay)
	setString(&s.Version, in.Version)
	if in.Reminder != nil {
		s.Reminder = *in.Reminder
	}
	if in.KeepScreenOn != nil {
		s.KeepScreenOn = *in.KeepScreenOn
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register validates and normalises a sign-up payload.
func (v *Validator) Register(in RegisterInput) (RegisterInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := v.check(in); err != nil {
		return RegisterInput{}, err
	}
	return in, nil
}

// Password rejects an empty secret.
func Password(p string) error {
	if p == "" {
		return fieldError("password", "this field is required")
	}
	return nil
}
