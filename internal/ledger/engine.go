// Package ledger keeps revenues, expenses, goals and savings transactions
// consistent with each other. It is the only code that writes across more
// than one collection.
package ledger

import (
	"context"
	"fmt"
	"time"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/notify"
	"finledger/internal/repository"
)

type Engine struct {
	repos     *repository.Repositories
	remaining RemainingStrategy
	notifier  notify.Notifier
	logger    *log.Logger
	now       func() time.Time
}

type Option func(*Engine)

func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = log.OrDefault(logger, log.ComponentLedger) }
}

// WithClock overrides the time source used for UpdatedAt and CompletedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithRemainingStrategy(s RemainingStrategy) Option {
	return func(e *Engine) { e.remaining = s }
}

func New(repos *repository.Repositories, opts ...Option) *Engine {
	e := &Engine{
		repos:    repos,
		notifier: notify.Noop{},
		logger:   log.OrDefault(nil, log.ComponentLedger),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.remaining == nil {
		e.remaining = NewRemainingStrategy(repos)
	}
	return e
}

func (e *Engine) Repositories() *repository.Repositories {
	return e.repos
}

// covers reports whether available can pay for requested at amount precision.
func covers(available, requested float64) bool {
	return core.Normalize(available) >= core.Normalize(requested)
}

// CreateRevenue stores a new revenue with its full amount remaining. Only one
// salary revenue may exist.
func (e *Engine) CreateRevenue(ctx context.Context, r core.Revenue) (core.Revenue, error) {
	if err := invalid("revenue", r.Validate()); err != nil {
		return core.Revenue{}, err
	}
	if r.Type == core.Salary && e.salaryExists(ctx, "") {
		return core.Revenue{}, invalid("revenue", ErrDuplicateSalary)
	}

	r.ID = ""
	r.RemainingAmount = r.Amount
	created, err := e.repos.Revenues.Add(ctx, r)
	if err != nil {
		return core.Revenue{}, fmt.Errorf("create revenue: %w", err)
	}

	e.logger.InfoContext(ctx, "Revenue created",
		log.NewFields().WithRevenue(created.ID, created.RemainingAmount).WithOperation(log.OpCreate).ToSlice()...)
	return created, nil
}

func (e *Engine) salaryExists(ctx context.Context, exceptID string) bool {
	for _, rev := range e.repos.Revenues.GetAll(ctx) {
		if rev.Type == core.Salary && rev.ID != exceptID {
			return true
		}
	}
	return false
}

// UpdateRevenue edits a revenue. A changed amount recomputes the remaining
// amount from the records drawing on the revenue; other edits keep it. An
// unknown id is ignored and returns a zero revenue.
func (e *Engine) UpdateRevenue(ctx context.Context, r core.Revenue) (core.Revenue, error) {
	if err := invalid("revenue", r.Validate()); err != nil {
		return core.Revenue{}, err
	}
	current, ok := e.repos.Revenues.Get(ctx, r.ID)
	if !ok {
		e.logger.DebugContext(ctx, "Update of unknown revenue ignored", log.FieldRevenueID, r.ID)
		return core.Revenue{}, nil
	}
	if r.Type == core.Salary && e.salaryExists(ctx, r.ID) {
		return core.Revenue{}, invalid("revenue", ErrDuplicateSalary)
	}

	if err := e.repos.Revenues.Update(ctx, r); err != nil {
		return core.Revenue{}, fmt.Errorf("update revenue: %w", err)
	}
	if core.Normalize(r.Amount) == current.Amount {
		updated, _ := e.repos.Revenues.Get(ctx, r.ID)
		return updated, nil
	}

	updated, _, err := e.remaining.RecomputeFromDependents(ctx, r.ID)
	if err != nil {
		return core.Revenue{}, fmt.Errorf("recompute remaining: %w", err)
	}
	e.logger.InfoContext(ctx, "Revenue amount changed",
		log.NewFields().WithRevenue(r.ID, updated.RemainingAmount).WithOperation(log.OpRecompute).ToSlice()...)
	return updated, nil
}

// DeleteRevenue removes every expense linked to the revenue and then the
// revenue itself. If the second step fails the expenses stay deleted.
// Savings transactions keep their now dangling revenue link.
func (e *Engine) DeleteRevenue(ctx context.Context, id string) error {
	var removed int
	err := runSteps(ctx, "delete revenue",
		step{"delete linked expenses", func(ctx context.Context) error {
			n, err := e.repos.Expenses.DeleteByRevenue(ctx, id)
			removed = n
			return err
		}},
		step{"delete revenue", func(ctx context.Context) error {
			return e.repos.Revenues.Delete(ctx, id)
		}},
	)
	if err != nil {
		e.logger.ErrorContext(ctx, "Revenue cascade delete failed",
			log.NewFields().WithOperation(log.OpDelete).WithError(err).ToSlice()...)
		return err
	}
	e.logger.InfoContext(ctx, "Revenue deleted", log.FieldRevenueID, id, log.FieldCount, removed)
	return nil
}
