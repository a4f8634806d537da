package repository

import (
	"context"

	"finledger/internal/core"
)

type ExpenseRepository struct {
	c collection[core.Expense]
}

func (r *ExpenseRepository) GetAll(ctx context.Context) []core.Expense {
	return r.c.load(ctx)
}

func (r *ExpenseRepository) Get(ctx context.Context, id string) (core.Expense, bool) {
	return r.c.find(ctx, id)
}

// ListByRevenue returns the expenses drawn against revenue id.
func (r *ExpenseRepository) ListByRevenue(ctx context.Context, revenueID string) []core.Expense {
	var out []core.Expense
	for _, e := range r.c.load(ctx) {
		if e.RevenueSourceID == revenueID {
			out = append(out, e)
		}
	}
	return out
}

func (r *ExpenseRepository) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = r.c.env.newID()
	}
	now := r.c.env.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.Date.IsZero() {
		e.Date = now
	}
	e = e.Normalized()
	if err := r.c.add(ctx, e); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, e core.Expense) error {
	_, err := r.c.update(ctx, e.Normalized())
	return err
}

// Delete removes expense id and returns the removed record, if any.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) (core.Expense, bool, error) {
	return r.c.remove(ctx, id)
}

// DeleteByRevenue removes every expense linked to revenue id and returns
// how many were removed.
func (r *ExpenseRepository) DeleteByRevenue(ctx context.Context, revenueID string) (int, error) {
	removed, err := r.c.removeWhere(ctx, func(e core.Expense) bool {
		return e.RevenueSourceID == revenueID
	})
	return len(removed), err
}

func (r *ExpenseRepository) ReplaceAll(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return r.c.save(ctx, expenses)
}
