package service

import (
	"io"
	"testing"
	"time"

	"github.com/Dan9191/cashbook/internal/config"
	"github.com/Dan9191/cashbook/internal/storetest"
	"github.com/Dan9191/cashbook/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 12, 29, 22, 35, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *storetest.Memory) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	mem := storetest.NewMemory()
	svc := NewService(mem, log, cfg)
	svc.now = func() time.Time { return fixedNow }
	return svc, mem
}

func txInput(account, typ, date, tm, amount string) validation.TransactionInput {
	a := decimal.RequireFromString(amount)
	return validation.TransactionInput{
		Account: account,
		Type:    typ,
		Date:    date,
		Time:    tm,
		Amount:  &a,
	}
}
