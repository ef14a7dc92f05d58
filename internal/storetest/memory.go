// Package storetest provides an in-memory repository.Store for tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/repository"
)

// Memory is an in-memory repository.Store. It mirrors the Postgres
// constraints the service relies on: unique (owner, account name), one
// settings row per owner and unique user email/username. It is not safe for
// concurrent use.
type Memory struct {
	// Fail, when set, is consulted before every write and the reminder query;
	// a non-nil result is returned instead of performing the operation.
	Fail func(op string) error

	users        []models.User
	accounts     []models.Account
	transactions []models.Transaction
	notes        []models.Note
	settings     []models.Settings

	nextID int64
	clock  time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

var _ repository.Store = (*Memory)(nil)

func (m *Memory) fail(op string) error {
	if m.Fail == nil {
		return nil
	}
	return m.Fail(op)
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

// tick returns a strictly increasing timestamp so insertion order is visible
// through created_at.
func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *Memory) stamp(createdAt, updatedAt *time.Time) {
	now := m.tick()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	if err := m.fail("CreateUser"); err != nil {
		return err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	u.ID = m.id()
	m.stamp(&u.CreatedAt, &u.UpdatedAt)
	m.users = append(m.users, *u)
	return nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) ListReminderRecipients(_ context.Context) ([]models.ReminderRecipient, error) {
	if err := m.fail("ListReminderRecipients"); err != nil {
		return nil, err
	}
	var out []models.ReminderRecipient
	for _, u := range m.users {
		for _, s := range m.settings {
			if s.UserID == u.ID && s.Reminder {
				out = append(out, models.ReminderRecipient{UserID: u.ID, Username: u.Username, Email: u.Email})
			}
		}
	}
	return out, nil
}

func (m *Memory) CreateAccount(_ context.Context, a *models.Account) error {
	if err := m.fail("CreateAccount"); err != nil {
		return err
	}
	for _, existing := range m.accounts {
		if existing.UserID == a.UserID && existing.Name == a.Name {
			return repository.ErrDuplicate
		}
	}
	a.ID = m.id()
	m.stamp(&a.CreatedAt, &a.UpdatedAt)
	m.accounts = append(m.accounts, *a)
	return nil
}

func (m *Memory) GetAccount(_ context.Context, userID, id int64) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.UserID == userID && a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) ListAccounts(_ context.Context, userID int64) ([]models.Account, error) {
	out := []models.Account{}
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) UpdateAccount(_ context.Context, a *models.Account) error {
	if err := m.fail("UpdateAccount"); err != nil {
		return err
	}
	idx := -1
	for i, existing := range m.accounts {
		if existing.UserID == a.UserID && existing.ID != a.ID && existing.Name == a.Name {
			return repository.ErrDuplicate
		}
		if existing.UserID == a.UserID && existing.ID == a.ID {
			idx = i
		}
	}
	if idx < 0 {
		return repository.ErrNotFound
	}
	a.UpdatedAt = m.tick()
	m.accounts[idx].Name = a.Name
	m.accounts[idx].UpdatedAt = a.UpdatedAt
	return nil
}

func (m *Memory) DeleteAccount(_ context.Context, userID, id int64) error {
	if err := m.fail("DeleteAccount"); err != nil {
		return err
	}
	n := len(m.accounts)
	m.accounts = filter(m.accounts, func(a models.Account) bool { return !(a.UserID == userID && a.ID == id) })
	if len(m.accounts) == n {
		return repository.ErrNotFound
	}
	return nil
}

func (m *Memory) DeleteAccounts(_ context.Context, userID int64) error {
	if err := m.fail("DeleteAccounts"); err != nil {
		return err
	}
	m.accounts = filter(m.accounts, func(a models.Account) bool { return a.UserID != userID })
	return nil
}

func (m *Memory) CreateTransaction(_ context.Context, t *models.Transaction) error {
	if err := m.fail("CreateTransaction"); err != nil {
		return err
	}
	t.ID = m.id()
	m.stamp(&t.CreatedAt, &t.UpdatedAt)
	m.transactions = append(m.transactions, *t)
	return nil
}

func (m *Memory) GetTransaction(_ context.Context, userID, id int64) (*models.Transaction, error) {
	for _, t := range m.transactions {
		if t.UserID == userID && t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) ListTransactions(_ context.Context, userID int64, f models.TransactionFilter) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, t := range m.transactions {
		switch {
		case t.UserID != userID,
			f.Account != "" && t.Account != f.Account,
			f.Type != "" && t.Type != f.Type,
			f.StartDate != "" && t.Date < f.StartDate,
			f.EndDate != "" && t.Date > f.EndDate:
			continue
		}
		out = append(out, t)
	}
	sortTransactions(out, f.Ordering)
	return out, nil
}

func sortTransactions(txs []models.Transaction, ordering string) {
	type key struct {
		field string
		desc  bool
	}
	var keys []key
	for _, f := range strings.Split(ordering, ",") {
		f = strings.TrimSpace(f)
		desc := strings.HasPrefix(f, "-")
		f = strings.TrimPrefix(f, "-")
		switch f {
		case "date", "time", "amount", "created_at":
			keys = append(keys, key{f, desc})
		}
	}
	if len(keys) == 0 {
		keys = []key{{"date", true}, {"time", true}}
	}
	keys = append(keys, key{"id", true})

	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		for _, k := range keys {
			var c int
			switch k.field {
			case "date":
				c = strings.Compare(a.Date, b.Date)
			case "time":
				c = strings.Compare(a.Time, b.Time)
			case "amount":
				c = a.Amount.Cmp(b.Amount)
			case "created_at":
				c = a.CreatedAt.Compare(b.CreatedAt)
			case "id":
				c = compareInt(a.ID, b.ID)
			}
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (m *Memory) LatestTransaction(_ context.Context, userID int64) (*models.Transaction, error) {
	var latest *models.Transaction
	for i := range m.transactions {
		t := &m.transactions[i]
		if t.UserID != userID {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) ||
			(t.CreatedAt.Equal(latest.CreatedAt) && t.ID > latest.ID) {
			latest = t
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (m *Memory) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	if err := m.fail("UpdateTransaction"); err != nil {
		return err
	}
	for i, existing := range m.transactions {
		if existing.UserID == t.UserID && existing.ID == t.ID {
			t.CreatedAt = existing.CreatedAt
			t.UpdatedAt = m.tick()
			m.transactions[i] = *t
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Memory) DeleteTransaction(_ context.Context, userID, id int64) error {
	if err := m.fail("DeleteTransaction"); err != nil {
		return err
	}
	n := len(m.transactions)
	m.transactions = filter(m.transactions, func(t models.Transaction) bool { return !(t.UserID == userID && t.ID == id) })
	if len(m.transactions) == n {
		return repository.ErrNotFound
	}
	return nil
}

func (m *Memory) DeleteTransactions(_ context.Context, userID int64) error {
	if err := m.fail("DeleteTransactions"); err != nil {
		return err
	}
	m.transactions = filter(m.transactions, func(t models.Transaction) bool { return t.UserID != userID })
	return nil
}

func (m *Memory) CreateNote(_ context.Context, n *models.Note) error {
	if err := m.fail("CreateNote"); err != nil {
		return err
	}
	n.ID = m.id()
	m.stamp(&n.CreatedAt, &n.UpdatedAt)
	m.notes = append(m.notes, *n)
	return nil
}

func (m *Memory) GetNote(_ context.Context, userID, id int64) (*models.Note, error) {
	for _, n := range m.notes {
		if n.UserID == userID && n.ID == id {
			out := n
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) ListNotes(_ context.Context, userID int64) ([]models.Note, error) {
	out := []models.Note{}
	for _, n := range m.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) UpdateNote(_ context.Context, n *models.Note) error {
	if err := m.fail("UpdateNote"); err != nil {
		return err
	}
	for i, existing := range m.notes {
		if existing.UserID == n.UserID && existing.ID == n.ID {
			n.UpdatedAt = m.tick()
			m.notes[i].Text = n.Text
			m.notes[i].UpdatedAt = n.UpdatedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Memory) DeleteNote(_ context.Context, userID, id int64) error {
	if err := m.fail("DeleteNote"); err != nil {
		return err
	}
	n := len(m.notes)
	m.notes = filter(m.notes, func(x models.Note) bool { return !(x.UserID == userID && x.ID == id) })
	if len(m.notes) == n {
		return repository.ErrNotFound
	}
	return nil
}

func (m *Memory) DeleteNotes(_ context.Context, userID int64) error {
	if err := m.fail("DeleteNotes"); err != nil {
		return err
	}
	m.notes = filter(m.notes, func(n models.Note) bool { return n.UserID != userID })
	return nil
}

func (m *Memory) GetSettings(_ context.Context, userID int64) (*models.Settings, error) {
	for _, s := range m.settings {
		if s.UserID == userID {
			out := s
			if s.AppLockPassword != nil {
				h := *s.AppLockPassword
				out.AppLockPassword = &h
			}
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) CreateSettings(_ context.Context, s *models.Settings) error {
	if err := m.fail("CreateSettings"); err != nil {
		return err
	}
	for _, existing := range m.settings {
		if existing.UserID == s.UserID {
			return repository.ErrDuplicate
		}
	}
	s.ID = m.id()
	s.CreatedAt, s.UpdatedAt = time.Time{}, time.Time{}
	m.stamp(&s.CreatedAt, &s.UpdatedAt)
	m.settings = append(m.settings, *s)
	return nil
}

func (m *Memory) UpdateSettings(_ context.Context, s *models.Settings) error {
	if err := m.fail("UpdateSettings"); err != nil {
		return err
	}
	for i, existing := range m.settings {
		if existing.UserID == s.UserID {
			s.ID, s.CreatedAt = existing.ID, existing.CreatedAt
			s.UpdatedAt = m.tick()
			m.settings[i] = *s
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Memory) DeleteSettings(_ context.Context, userID int64) error {
	if err := m.fail("DeleteSettings"); err != nil {
		return err
	}
	m.settings = filter(m.settings, func(s models.Settings) bool { return s.UserID != userID })
	return nil
}

// WithinTx snapshots the store and restores the snapshot if fn fails.
func (m *Memory) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		m.users = snapshot.users
		m.accounts = snapshot.accounts
		m.transactions = snapshot.transactions
		m.notes = snapshot.notes
		m.settings = snapshot.settings
		return err
	}
	return nil
}

func (m *Memory) clone() *Memory {
	return &Memory{
		users:        append([]models.User(nil), m.users...),
		accounts:     append([]models.Account(nil), m.accounts...),
		transactions: append([]models.Transaction(nil), m.transactions...),
		notes:        append([]models.Note(nil), m.notes...),
		settings:     append([]models.Settings(nil), m.settings...),
	}
}

// Counts reports how many rows of each kind the owner has.
func (m *Memory) Counts(userID int64) (accounts, transactions, notes, settings int) {
	for _, a := range m.accounts {
		if a.UserID == userID {
			accounts++
		}
	}
	for _, t := range m.transactions {
		if t.UserID == userID {
			transactions++
		}
	}
	for _, n := range m.notes {
		if n.UserID == userID {
			notes++
		}
	}
	for _, s := range m.settings {
		if s.UserID == userID {
			settings++
		}
	}
	return
}

func filter[T any](list []T, keep func(T) bool) []T {
	out := list[:0:0]
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
