package ledger

import (
	"context"

	"finledger/internal/core"
	"finledger/internal/repository"
)

// RemainingStrategy is how a revenue's remaining amount is kept in step with
// the records drawing on it. Incremental edits go through ApplyDelta; edits
// to the revenue amount itself go through RecomputeFromDependents.
type RemainingStrategy interface {
	ApplyDelta(ctx context.Context, revenueID string, delta float64) (core.Revenue, bool, error)
	RecomputeFromDependents(ctx context.Context, revenueID string) (core.Revenue, bool, error)
}

type dependentsStrategy struct {
	repos *repository.Repositories
}

// NewRemainingStrategy returns the default strategy over repos.
func NewRemainingStrategy(repos *repository.Repositories) RemainingStrategy {
	return &dependentsStrategy{repos: repos}
}

func (s *dependentsStrategy) ApplyDelta(ctx context.Context, revenueID string, delta float64) (core.Revenue, bool, error) {
	return s.repos.Revenues.ApplyDelta(ctx, revenueID, delta)
}

// RecomputeFromDependents sets remaining to the revenue amount minus every
// linked expense and every deposit funded by the revenue.
func (s *dependentsStrategy) RecomputeFromDependents(ctx context.Context, revenueID string) (core.Revenue, bool, error) {
	rev, ok := s.repos.Revenues.Get(ctx, revenueID)
	if !ok {
		return core.Revenue{}, false, nil
	}
	rev.RemainingAmount = core.Sub(rev.Amount, drawnFrom(ctx, s.repos, revenueID))
	if _, err := s.repos.Revenues.SetRemaining(ctx, revenueID, rev.RemainingAmount); err != nil {
		return core.Revenue{}, true, err
	}
	return rev, true, nil
}

// drawnFrom is the total currently charged against a revenue.
func drawnFrom(ctx context.Context, repos *repository.Repositories, revenueID string) float64 {
	var amounts []float64
	for _, e := range repos.Expenses.ListByRevenue(ctx, revenueID) {
		amounts = append(amounts, e.Amount)
	}
	for _, tx := range repos.Transactions.GetAll(ctx) {
		if tx.RevenueSourceID == revenueID && tx.Type == core.Deposit {
			amounts = append(amounts, tx.Amount)
		}
	}
	return core.Sum(amounts...)
}

// goalBalance folds a goal's transactions into its current amount.
func goalBalance(txs []core.SavingsTransaction) float64 {
	amounts := make([]float64, len(txs))
	for i, tx := range txs {
		amounts[i] = tx.Signed()
	}
	return core.Sum(amounts...)
}
