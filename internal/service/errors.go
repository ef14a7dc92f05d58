package service

import (
	"errors"
	"fmt"

	"github.com/Dan9191/cashbook/internal/repository"
	"github.com/Dan9191/cashbook/internal/validation"
)

var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrValidation         = validation.ErrInvalid
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrAppLockNotSet      = errors.New("app lock not set")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// storeError maps repository sentinels onto service errors.
func storeError(err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	default:
		return err
	}
}
