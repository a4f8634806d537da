package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/storage"
)

// Repositories bundles every entity repository over one adapter.
type Repositories struct {
	Revenues     *RevenueRepository
	Expenses     *ExpenseRepository
	Goals        *GoalRepository
	Transactions *TransactionRepository
	Savings      *SavingRepository
	Categories   *CategoryRepository
	Settings     *SettingsRepository
}

// Option configures the shared repository environment.
type Option func(*env)

// WithClock overrides the time source used for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(e *env) { e.now = now }
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(newID func() string) Option {
	return func(e *env) { e.newID = newID }
}

func WithLogger(logger *log.Logger) Option {
	return func(e *env) { e.logger = log.OrDefault(logger, log.ComponentRepo) }
}

type env struct {
	adapter *storage.Adapter
	logger  *log.Logger
	now     func() time.Time
	newID   func() string
}

func New(adapter *storage.Adapter, opts ...Option) *Repositories {
	e := &env{
		adapter: adapter,
		logger:  log.OrDefault(nil, log.ComponentRepo),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return &Repositories{
		Revenues:     &RevenueRepository{collection[core.Revenue]{e, KeyRevenues}},
		Expenses:     &ExpenseRepository{collection[core.Expense]{e, KeyExpenses}},
		Goals:        &GoalRepository{collection[core.Goal]{e, KeyGoals}},
		Transactions: &TransactionRepository{collection[core.SavingsTransaction]{e, KeySavingsTransactions}},
		Savings:      &SavingRepository{collection[core.Saving]{e, KeySavings}},
		Categories:   &CategoryRepository{env: e},
		Settings:     &SettingsRepository{env: e},
	}
}

// entity lets the generic collection find records by id and normalize
// them before writing.
type entity[T any] interface {
	EntityID() string
	Normalized() T
}

// collection is the shared read-modify-write helper over one key.
type collection[T entity[T]] struct {
	env *env
	key string
}

func (c collection[T]) load(ctx context.Context) []T {
	items, _ := storage.GetItem[[]T](ctx, c.env.adapter, c.key)
	return items
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Normalized()
	}
	return storage.SetItem(ctx, c.env.adapter, c.key, out)
}

func (c collection[T]) find(ctx context.Context, id string) (T, bool) {
	for _, it := range c.load(ctx) {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c collection[T]) add(ctx context.Context, item T) error {
	items := c.load(ctx)
	return c.save(ctx, append(items, item))
}

// update replaces the record with the same id. It reports whether the
// record existed; a missing record is not written.
func (c collection[T]) update(ctx context.Context, item T) (bool, error) {
	items := c.load(ctx)
	for i := range items {
		if items[i].EntityID() == item.EntityID() {
			items[i] = item
			return true, c.save(ctx, items)
		}
	}
	c.env.logger.DebugContext(ctx, "Update of unknown id ignored", log.FieldKey, c.key, "id", item.EntityID())
	return false, nil
}

// removeWhere deletes every record for which match is true and returns them.
func (c collection[T]) removeWhere(ctx context.Context, match func(T) bool) ([]T, error) {
	items := c.load(ctx)
	kept := items[:0:0]
	var removed []T
	for _, it := range items {
		if match(it) {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	if len(removed) == 0 {
		return nil, nil
	}
	return removed, c.save(ctx, kept)
}

func (c collection[T]) remove(ctx context.Context, id string) (T, bool, error) {
	removed, err := c.removeWhere(ctx, func(it T) bool { return it.EntityID() == id })
	if err != nil || len(removed) == 0 {
		var zero T
		if err == nil {
			c.env.logger.DebugContext(ctx, "Delete of unknown id ignored", log.FieldKey, c.key, "id", id)
		}
		return zero, false, err
	}
	return removed[0], true, nil
}
