package repository

import (
	"context"

	"finledger/internal/core"
)

// TransactionRepository owns the savings transaction log. Transactions are
// append-only: there is no Update.
type TransactionRepository struct {
	c collection[core.SavingsTransaction]
}

func (r *TransactionRepository) GetAll(ctx context.Context) []core.SavingsTransaction {
	return r.c.load(ctx)
}

func (r *TransactionRepository) ListByGoal(ctx context.Context, goalID string) []core.SavingsTransaction {
	var out []core.SavingsTransaction
	for _, t := range r.c.load(ctx) {
		if t.GoalID == goalID {
			out = append(out, t)
		}
	}
	return out
}

func (r *TransactionRepository) Add(ctx context.Context, t core.SavingsTransaction) (core.SavingsTransaction, error) {
	if t.ID == "" {
		t.ID = r.c.env.newID()
	}
	if t.Date.IsZero() {
		t.Date = r.c.env.now()
	}
	t = t.Normalized()
	if err := r.c.add(ctx, t); err != nil {
		return core.SavingsTransaction{}, err
	}
	return t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) (core.SavingsTransaction, bool, error) {
	return r.c.remove(ctx, id)
}

func (r *TransactionRepository) DeleteByGoal(ctx context.Context, goalID string) (int, error) {
	removed, err := r.c.removeWhere(ctx, func(t core.SavingsTransaction) bool {
		return t.GoalID == goalID
	})
	return len(removed), err
}

func (r *TransactionRepository) ReplaceAll(ctx context.Context, txs []core.SavingsTransaction) error {
	if txs == nil {
		txs = []core.SavingsTransaction{}
	}
	return r.c.save(ctx, txs)
}
