package service

import (
	"time"

	"github.com/Dan9191/cashbook/internal/config"
	"github.com/Dan9191/cashbook/internal/repository"
	"github.com/Dan9191/cashbook/internal/validation"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	store    repository.Store
	log      *logrus.Logger
	config   *config.Config
	validate *validation.Validator
	now      func() time.Time
}

// NewService initializes a new service
func NewService(store repository.Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		log:      log,
		config:   cfg,
		validate: validation.New(),
		now:      time.Now,
	}
}

// requireOwner fails closed when no identity was resolved for the request.
func requireOwner(ownerID int64) error {
	if ownerID <= 0 {
		return ErrUnauthorized
	}
	return nil
}
