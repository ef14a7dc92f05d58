package service

import (
	"context"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/validation"
)

// CreateAccount creates a new account for the owner. The display string
// "created" is always generated here.
func (s *Service) CreateAccount(ctx context.Context, ownerID int64, in validation.AccountInput) (*models.Account, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	in.Created, in.CreatedAt, in.UpdatedAt = "", nil, nil

	account, err := s.validate.Account(in, s.now())
	if err != nil {
		return nil, err
	}
	account.UserID = ownerID
	if err := s.store.CreateAccount(ctx, &account); err != nil {
		return nil, storeError(err, "account "+account.Name)
	}

	s.log.Infof("Account created for user %d: %s", ownerID, account.Name)
	return &account, nil
}

// GetAccount returns one of the owner's accounts
func (s *Service) GetAccount(ctx context.Context, ownerID, id int64) (*models.Account, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	account, err := s.store.GetAccount(ctx, ownerID, id)
	if err != nil {
		return nil, storeError(err, "account")
	}
	return account, nil
}

// ListAccounts returns the owner's accounts, newest first
func (s *Service) ListAccounts(ctx context.Context, ownerID int64) ([]models.Account, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.store.ListAccounts(ctx, ownerID)
}

// UpdateAccount renames an account. Transactions keep the old label.
func (s *Service) UpdateAccount(ctx context.Context, ownerID, id int64, in validation.AccountInput) (*models.Account, error) {
	account, err := s.GetAccount(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	valid, err := s.validate.Account(validation.AccountInput{Name: in.Name}, s.now())
	if err != nil {
		return nil, err
	}
	account.Name = valid.Name
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, storeError(err, "account "+account.Name)
	}
	return account, nil
}

// DeleteAccount removes an account. Transactions naming it are left as they are.
func (s *Service) DeleteAccount(ctx context.Context, ownerID, id int64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.store.DeleteAccount(ctx, ownerID, id); err != nil {
		return storeError(err, "account")
	}
	return nil
}
