// Package store holds the authoritative in-memory expense collection and
// its key-value persistence binding.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
	"ledger/internal/kv"
	applog "ledger/internal/log"
)

// EventPublisher receives change notifications after each successful
// mutation. Publishing is fire and forget: failures are logged and never
// roll back or corrupt the in-memory state.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
	PublishExpenseUpdated(ctx context.Context, e core.Expense) error
	PublishExpenseDeleted(ctx context.Context, id string) error
}

// Store is the ordered expense collection, newest first. All mutations are
// serialized through one mutex, so every derived aggregate reflects a
// mutation immediately upon return.
type Store struct {
	mu        sync.Mutex
	expenses  []core.Expense
	version   uint64
	slot      string
	kv        kv.Store
	publisher EventPublisher
	logger    *applog.Logger

	now   func() time.Time
	newID func() string
}

// New loads the collection from the named slot. An absent or malformed
// slot degrades to an empty collection with a warning; initialization
// never fails on bad persisted data.
func New(kvStore kv.Store, slot string, publisher EventPublisher, logger *applog.Logger) *Store {
	s := &Store{
		slot:      slot,
		kv:        kvStore,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentStore),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := s.kv.Get(context.Background(), s.slot)
	if errors.Is(err, kv.ErrSlotNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("Reading persisted expenses failed, starting empty",
			applog.FieldSlot, s.slot, applog.FieldError, err)
		return
	}
	var expenses []core.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		s.logger.Warn("Persisted expenses are malformed, starting empty",
			applog.FieldSlot, s.slot, applog.FieldError, err)
		return
	}
	s.expenses = expenses
}

// Add validates the form, assigns a fresh ID and creation timestamp, and
// prepends the expense. Invalid input never mutates the collection.
func (s *Store) Add(ctx context.Context, form core.ExpenseForm) (core.Expense, error) {
	expense, err := form.Build()
	if err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	expense.ID = s.newID()
	expense.CreatedAt = s.now().UTC()
	s.expenses = append([]core.Expense{expense}, s.expenses...)
	s.version++
	s.persistLocked(ctx)
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseCreated(ctx, expense); err != nil {
			s.logger.WarnContext(ctx, "Publishing created event failed",
				applog.FieldExpenseID, expense.ID, applog.FieldError, err)
		}
	}
	return expense, nil
}

// Delete removes the expense with the given id. Deleting an absent id is a
// no-op, not an error; the returned bool reports whether anything was
// removed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.expenses = append(s.expenses[:idx], s.expenses[idx+1:]...)
	s.version++
	s.persistLocked(ctx)
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseDeleted(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "Publishing deleted event failed",
				applog.FieldExpenseID, id, applog.FieldError, err)
		}
	}
	return true
}

// Update merges the patch into the expense with the given id, leaving
// untouched fields unchanged. An absent id is a no-op. A patch that fails
// validation leaves the collection unchanged.
func (s *Store) Update(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, bool, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return core.Expense{}, false, nil
	}

	merged, err := applyPatch(s.expenses[idx], patch)
	if err != nil {
		s.mu.Unlock()
		return core.Expense{}, true, err
	}
	s.expenses[idx] = merged
	s.version++
	s.persistLocked(ctx)
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseUpdated(ctx, merged); err != nil {
			s.logger.WarnContext(ctx, "Publishing updated event failed",
				applog.FieldExpenseID, id, applog.FieldError, err)
		}
	}
	return merged, true, nil
}

// Expenses returns a copy of the collection, newest first.
func (s *Store) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// Version returns the mutation counter. It increases on every successful
// Add, Delete, and Update, so it can key caches of derived aggregates.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// State returns the collection copy and the version it corresponds to as
// one consistent observation.
func (s *Store) State() ([]core.Expense, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out, s.version
}

// Len returns the number of expenses in the collection.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expenses)
}

// persistLocked writes the full collection back to the slot. A write
// failure is a warning, not an error: the in-memory state remains
// authoritative for the session.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.expenses)
	if err != nil {
		s.logger.ErrorContext(ctx, "Encoding expenses failed",
			applog.FieldSlot, s.slot, applog.FieldError, err)
		return
	}
	if err := s.kv.Put(ctx, s.slot, data); err != nil {
		s.logger.WarnContext(ctx, "Persisting expenses failed, in-memory state remains authoritative",
			applog.FieldSlot, s.slot, applog.FieldVersion, s.version, applog.FieldError, err)
	}
}

func (s *Store) indexLocked(id string) int {
	for i, e := range s.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func applyPatch(e core.Expense, patch core.ExpensePatch) (core.Expense, error) {
	if patch.Amount != nil {
		cents, err := core.ParseDecimalToCents(*patch.Amount)
		if err != nil {
			return core.Expense{}, err
		}
		e.Amount = core.Money{Cents: cents}
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Date != nil {
		date, err := core.ParseDate(*patch.Date)
		if err != nil {
			return core.Expense{}, err
		}
		e.Date = date
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
