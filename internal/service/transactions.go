package service

import (
	"context"
	"encoding/json"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/validation"
	"github.com/shopspring/decimal"
)

// CreateTransaction records an income or expense for the owner
func (s *Service) CreateTransaction(ctx context.Context, ownerID int64, in validation.TransactionInput) (*models.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	in.CreatedAt, in.UpdatedAt = nil, nil

	tx, err := s.validate.Transaction(in)
	if err != nil {
		return nil, err
	}
	tx.UserID = ownerID
	if err := s.store.CreateTransaction(ctx, &tx); err != nil {
		return nil, storeError(err, "transaction")
	}
	return &tx, nil
}

// GetTransaction returns one of the owner's transactions
func (s *Service) GetTransaction(ctx context.Context, ownerID, id int64) (*models.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	tx, err := s.store.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return nil, storeError(err, "transaction")
	}
	return tx, nil
}

// ListTransactions returns the owner's transactions matching filter
func (s *Service) ListTransactions(ctx context.Context, ownerID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, ownerID, filter)
}

// UpdateTransaction replaces the writable fields of a transaction
func (s *Service) UpdateTransaction(ctx context.Context, ownerID, id int64, in validation.TransactionInput) (*models.Transaction, error) {
	existing, err := s.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.saveTransaction(ctx, existing, in)
}

// PatchTransaction applies the fields present in patch, a JSON object, to a
// transaction and revalidates the result.
func (s *Service) PatchTransaction(ctx context.Context, ownerID, id int64, patch json.RawMessage) (*models.Transaction, error) {
	existing, err := s.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	in := validation.TransactionInputOf(*existing)
	if err := validation.Decode(patch, &in); err != nil {
		return nil, err
	}
	return s.saveTransaction(ctx, existing, in)
}

func (s *Service) saveTransaction(ctx context.Context, existing *models.Transaction, in validation.TransactionInput) (*models.Transaction, error) {
	in.CreatedAt, in.UpdatedAt = nil, nil

	tx, err := s.validate.Transaction(in)
	if err != nil {
		return nil, err
	}
	tx.ID, tx.UserID = existing.ID, existing.UserID
	if err := s.store.UpdateTransaction(ctx, &tx); err != nil {
		return nil, storeError(err, "transaction")
	}
	return &tx, nil
}

// DeleteTransaction removes one transaction
func (s *Service) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, ownerID, id); err != nil {
		return storeError(err, "transaction")
	}
	return nil
}

// SummarizeTransactions totals income and expense over the filtered set.
// The type filter is ignored so both sides are always counted.
func (s *Service) SummarizeTransactions(ctx context.Context, ownerID int64, filter models.TransactionFilter) (*models.TransactionSummary, error) {
	filter.Type = ""
	txs, err := s.ListTransactions(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	sum := &models.TransactionSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionIncome:
			sum.TotalIncome = sum.TotalIncome.Add(tx.Amount)
		case models.TransactionExpense:
			sum.TotalExpense = sum.TotalExpense.Add(tx.Amount)
		}
	}
	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpense)
	return sum, nil
}
