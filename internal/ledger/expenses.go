package ledger

import (
	"context"
	"fmt"

	"finledger/internal/core"
	"finledger/internal/log"
)

// CreateExpense records an expense and deducts it from its revenue.
func (e *Engine) CreateExpense(ctx context.Context, x core.Expense) (core.Expense, error) {
	if err := invalid("expense", x.Validate()); err != nil {
		return core.Expense{}, err
	}
	rev, ok := e.repos.Revenues.Get(ctx, x.RevenueSourceID)
	if !ok {
		return core.Expense{}, &NotFoundError{Kind: "revenue", ID: x.RevenueSourceID}
	}
	if !covers(rev.RemainingAmount, x.Amount) {
		return core.Expense{}, &InsufficientFundsError{
			RevenueID: rev.ID,
			Available: rev.RemainingAmount,
			Requested: core.Normalize(x.Amount),
		}
	}

	x.ID = ""
	created, err := e.repos.Expenses.Add(ctx, x)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	// the expense is already stored; a failed deduction leaves the revenue
	// too high until the next recompute
	if _, _, err := e.remaining.ApplyDelta(ctx, rev.ID, -created.Amount); err != nil {
		return created, fmt.Errorf("deduct expense: %w", err)
	}

	e.logger.InfoContext(ctx, "Expense created",
		log.NewFields().WithExpense(created.ID, created.Amount, created.Category).WithOperation(log.OpDeduct).ToSlice()...)
	return created, nil
}

// UpdateExpense replaces the stored expense with updated. Availability on
// the target revenue is checked before anything is written, so a rejected
// update leaves every collection untouched. An unknown id is ignored.
func (e *Engine) UpdateExpense(ctx context.Context, updated core.Expense) (core.Expense, error) {
	if err := invalid("expense", updated.Validate()); err != nil {
		return core.Expense{}, err
	}
	old, ok := e.repos.Expenses.Get(ctx, updated.ID)
	if !ok {
		e.logger.DebugContext(ctx, "Update of unknown expense ignored", log.FieldExpenseID, updated.ID)
		return core.Expense{}, nil
	}
	target, ok := e.repos.Revenues.Get(ctx, updated.RevenueSourceID)
	if !ok {
		return core.Expense{}, &NotFoundError{Kind: "revenue", ID: updated.RevenueSourceID}
	}

	sameRevenue := old.RevenueSourceID == updated.RevenueSourceID
	available := target.RemainingAmount
	if sameRevenue {
		available = core.Add(available, old.Amount)
	}
	if !covers(available, updated.Amount) {
		return core.Expense{}, &InsufficientFundsError{
			RevenueID: target.ID,
			Available: available,
			Requested: core.Normalize(updated.Amount),
		}
	}

	updated.CreatedAt = old.CreatedAt
	if updated.Date.IsZero() {
		updated.Date = old.Date
	}
	if err := e.repos.Expenses.Update(ctx, updated); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	if sameRevenue {
		if _, _, err := e.remaining.ApplyDelta(ctx, target.ID, core.Sub(old.Amount, updated.Amount)); err != nil {
			return core.Expense{}, fmt.Errorf("adjust revenue: %w", err)
		}
	} else {
		// the old revenue may have been deleted; refunding it is then a no-op
		if _, _, err := e.remaining.ApplyDelta(ctx, old.RevenueSourceID, old.Amount); err != nil {
			return core.Expense{}, fmt.Errorf("refund old revenue: %w", err)
		}
		if _, _, err := e.remaining.ApplyDelta(ctx, target.ID, -updated.Amount); err != nil {
			return core.Expense{}, fmt.Errorf("deduct new revenue: %w", err)
		}
	}

	stored, _ := e.repos.Expenses.Get(ctx, updated.ID)
	e.logger.InfoContext(ctx, "Expense updated",
		log.NewFields().WithExpense(stored.ID, stored.Amount, stored.Category).WithOperation(log.OpUpdate).ToSlice()...)
	return stored, nil
}

// DeleteExpense refunds the expense to its revenue and removes it.
func (e *Engine) DeleteExpense(ctx context.Context, id string) error {
	x, ok := e.repos.Expenses.Get(ctx, id)
	if !ok {
		return nil
	}
	return runSteps(ctx, "delete expense",
		step{"refund revenue", func(ctx context.Context) error {
			_, _, err := e.remaining.ApplyDelta(ctx, x.RevenueSourceID, x.Amount)
			return err
		}},
		step{"remove expense", func(ctx context.Context) error {
			_, _, err := e.repos.Expenses.Delete(ctx, id)
			return err
		}},
	)
}
