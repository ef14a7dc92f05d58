package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/repository"
	"github.com/Dan9191/cashbook/internal/validation"
	"github.com/sirupsen/logrus"
)

// ExportBackup snapshots everything the owner has. It never creates settings.
func (s *Service) ExportBackup(ctx context.Context, ownerID int64) (*models.Backup, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("export accounts: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx, ownerID, models.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	notes, err := s.store.ListNotes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("export notes: %w", err)
	}

	settings, err := s.store.GetSettings(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		settings = nil
	} else if err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}

	backup := &models.Backup{
		Accounts:     nonNil(accounts),
		Transactions: nonNil(txs),
		Notes:        nonNil(notes),
		Settings:     settings,
		Version:      models.BackupVersion,
	}

	// backupDate follows the newest inserted transaction, so an owner with
	// only accounts or notes exports a null date.
	latest, err := s.store.LatestTransaction(ctx, ownerID)
	switch {
	case err == nil:
		at := latest.CreatedAt
		backup.BackupDate = &at
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("export backup date: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":      ownerID,
		"accounts":     len(backup.Accounts),
		"transactions": len(backup.Transactions),
		"notes":        len(backup.Notes),
	}).Info("Backup exported")
	return backup, nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// RestoreBackup replaces all of the owner's data with the records in doc.
//
// Existing accounts, transactions, notes and settings are deleted before the
// document is looked at. Each record is then validated on its own; invalid
// ones are skipped and counted, never reported as a failure. Any owner
// reference inside the document is ignored.
//
// Unless atomic restores are configured the delete and the inserts are
// separate statements, so a failure part way leaves the owner with whatever
// was written so far.
func (s *Service) RestoreBackup(ctx context.Context, ownerID int64, doc *models.RestoreDocument) (*models.RestoreResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	result := &models.RestoreResult{Message: "Data restored successfully"}
	run := func(store repository.Store) error {
		if err := purgeOwner(ctx, store, ownerID); err != nil {
			return err
		}
		r := &restorer{svc: s, store: store, ownerID: ownerID, result: result}
		return r.run(ctx, doc)
	}

	var err error
	if s.config.RestoreAtomic {
		err = s.store.WithinTx(ctx, run)
	} else {
		err = run(s.store)
	}
	if err != nil {
		s.log.WithError(err).WithField("user_id", ownerID).Error("Restore failed")
		return nil, fmt.Errorf("restore backup: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  ownerID,
		"atomic":   s.config.RestoreAtomic,
		"restored": result.Restored,
		"skipped":  result.Skipped,
	}).Info("Backup restored")
	return result, nil
}

func purgeOwner(ctx context.Context, store repository.Store, ownerID int64) error {
	if err := store.DeleteAccounts(ctx, ownerID); err != nil {
		return err
	}
	if err := store.DeleteTransactions(ctx, ownerID); err != nil {
		return err
	}
	if err := store.DeleteNotes(ctx, ownerID); err != nil {
		return err
	}
	return store.DeleteSettings(ctx, ownerID)
}

type restorer struct {
	svc     *Service
	store   repository.Store
	ownerID int64
	result  *models.RestoreResult
}

func (r *restorer) run(ctx context.Context, doc *models.RestoreDocument) error {
	v := r.svc.validate
	now := r.svc.now()

	// Names are tracked so a repeated name is skipped before it reaches the
	// unique index; inside a database transaction that error would abort
	// every later insert.
	names := map[string]bool{}
	err := restoreEach(r, "account", doc.Accounts, &r.result.Restored.Accounts, &r.result.Skipped.Accounts,
		func(raw json.RawMessage) (models.Account, error) {
			var in validation.AccountInput
			if err := validation.Decode(raw, &in); err != nil {
				return models.Account{}, err
			}
			acc, err := v.Account(in, now)
			if err != nil {
				return acc, err
			}
			if names[acc.Name] {
				return acc, fmt.Errorf("account %q: %w", acc.Name, ErrConflict)
			}
			names[acc.Name] = true
			return acc, nil
		},
		func(acc *models.Account) error { return r.store.CreateAccount(ctx, acc) },
		func(acc *models.Account) { acc.UserID = r.ownerID },
	)
	if err != nil {
		return err
	}

	err = restoreEach(r, "transaction", doc.Transactions, &r.result.Restored.Transactions, &r.result.Skipped.Transactions,
		func(raw json.RawMessage) (models.Transaction, error) {
			var in validation.TransactionInput
			if err := validation.Decode(raw, &in); err != nil {
				return models.Transaction{}, err
			}
			return v.Transaction(in)
		},
		func(tx *models.Transaction) error { return r.store.CreateTransaction(ctx, tx) },
		func(tx *models.Transaction) { tx.UserID = r.ownerID },
	)
	if err != nil {
		return err
	}

	err = restoreEach(r, "note", doc.Notes, &r.result.Restored.Notes, &r.result.Skipped.Notes,
		func(raw json.RawMessage) (models.Note, error) {
			var in validation.NoteInput
			if err := validation.Decode(raw, &in); err != nil {
				return models.Note{}, err
			}
			return v.Note(in, now)
		},
		func(n *models.Note) error { return r.store.CreateNote(ctx, n) },
		func(n *models.Note) { n.UserID = r.ownerID },
	)
	if err != nil {
		return err
	}

	if doc.Settings == nil {
		return nil
	}
	return restoreEach(r, "settings", []json.RawMessage{doc.Settings}, &r.result.Restored.Settings, &r.result.Skipped.Settings,
		func(raw json.RawMessage) (models.Settings, error) {
			var in validation.SettingsInput
			if err := validation.Decode(raw, &in); err != nil {
				return models.Settings{}, err
			}
			return v.Settings(in)
		},
		func(st *models.Settings) error { return r.store.CreateSettings(ctx, st) },
		func(st *models.Settings) { st.UserID = r.ownerID },
	)
}

// restoreEach builds and stores every raw record of one kind. Records that
// fail validation or hit a uniqueness conflict are skipped; any other store
// error stops the restore.
func restoreEach[T any](
	r *restorer,
	kind string,
	raws []json.RawMessage,
	restored, skipped *int,
	build func(json.RawMessage) (T, error),
	create func(*T) error,
	own func(*T),
) error {
	for i, raw := range raws {
		rec, err := build(raw)
		if err == nil {
			own(&rec)
			err = create(&rec)
			if err == nil {
				*restored++
				continue
			}
		}
		if !errors.Is(err, ErrValidation) && !errors.Is(err, ErrConflict) && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("restore %s %d: %w", kind, i, err)
		}
		*skipped++
		r.svc.log.WithFields(logrus.Fields{
			"user_id": r.ownerID,
			"kind":    kind,
			"index":   i,
		}).WithError(err).Debug("Skipped invalid backup record")
	}
	return nil
}
