package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/repository"
	"github.com/Dan9191/cashbook/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// GetSettings returns the owner's settings, creating the defaults on first access
func (s *Service) GetSettings(ctx context.Context, ownerID int64) (*models.Settings, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.settingsOrDefault(ctx, ownerID)
}

func (s *Service) settingsOrDefault(ctx context.Context, ownerID int64) (*models.Settings, error) {
	settings, err := s.store.GetSettings(ctx, ownerID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	settings = models.DefaultSettings(ownerID)
	err = s.store.CreateSettings(ctx, settings)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with another first access.
		return s.store.GetSettings(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}
	s.log.Debugf("Default settings created for user %d", ownerID)
	return settings, nil
}

// UpdateSettings applies a partial update of the preference fields
func (s *Service) UpdateSettings(ctx context.Context, ownerID int64, in validation.SettingsInput) (*models.Settings, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	settings, err := s.settingsOrDefault(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.validate.SettingsUpdate(settings, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSettings(ctx, settings); err != nil {
		return nil, storeError(err, "settings")
	}
	return settings, nil
}

// SetAppLock stores a bcrypt hash of password as the app lock
func (s *Service) SetAppLock(ctx context.Context, ownerID int64, password string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := validation.Password(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash app lock password: %w", err)
	}
	settings, err := s.settingsOrDefault(ctx, ownerID)
	if err != nil {
		return err
	}
	h := string(hash)
	settings.AppLockPassword = &h
	if err := s.store.UpdateSettings(ctx, settings); err != nil {
		return storeError(err, "settings")
	}

	s.log.Infof("App lock set for user %d", ownerID)
	return nil
}

// VerifyAppLock checks password against the stored app lock
func (s *Service) VerifyAppLock(ctx context.Context, ownerID int64, password string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := validation.Password(password); err != nil {
		return err
	}

	settings, err := s.store.GetSettings(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAppLockNotSet
	}
	if err != nil {
		return err
	}
	if !settings.HasAppLock() {
		return ErrAppLockNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*settings.AppLockPassword), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// RemoveAppLock clears the app lock. Removing an absent lock succeeds.
func (s *Service) RemoveAppLock(ctx context.Context, ownerID int64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	settings, err := s.settingsOrDefault(ctx, ownerID)
	if err != nil {
		return err
	}
	settings.AppLockPassword = nil
	if err := s.store.UpdateSettings(ctx, settings); err != nil {
		return storeError(err, "settings")
	}

	s.log.Infof("App lock removed for user %d", ownerID)
	return nil
}
