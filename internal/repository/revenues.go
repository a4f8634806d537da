package repository

import (
	"context"

	"finledger/internal/core"
	"finledger/internal/log"
)

// RevenueRepository owns the revenues key. ApplyDelta, DeductFromRevenue,
// AddToRevenue, SetRemaining and ResetRemaining are the only code paths
// allowed to change a revenue's RemainingAmount.
type RevenueRepository struct {
	c collection[core.Revenue]
}

func (r *RevenueRepository) GetAll(ctx context.Context) []core.Revenue {
	return r.c.load(ctx)
}

func (r *RevenueRepository) Get(ctx context.Context, id string) (core.Revenue, bool) {
	return r.c.find(ctx, id)
}

// Add stores a new revenue. Missing ids and timestamps are generated, and a
// new revenue starts with its full amount remaining.
func (r *RevenueRepository) Add(ctx context.Context, rev core.Revenue) (core.Revenue, error) {
	if rev.ID == "" {
		rev.ID = r.c.env.newID()
		rev.RemainingAmount = rev.Amount
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = r.c.env.now()
	}
	rev = rev.Normalized()
	if err := r.c.add(ctx, rev); err != nil {
		return core.Revenue{}, err
	}
	return rev, nil
}

// Update replaces name, type and amount of an existing revenue. The stored
// RemainingAmount is kept; use SetRemaining to change it.
func (r *RevenueRepository) Update(ctx context.Context, rev core.Revenue) error {
	current, ok := r.c.find(ctx, rev.ID)
	if !ok {
		return nil
	}
	rev.RemainingAmount = current.RemainingAmount
	rev.CreatedAt = current.CreatedAt
	_, err := r.c.update(ctx, rev)
	return err
}

func (r *RevenueRepository) Delete(ctx context.Context, id string) error {
	_, _, err := r.c.remove(ctx, id)
	return err
}

// ApplyDelta adds delta to the remaining amount of revenue id. It reports
// false without writing when the revenue does not exist.
func (r *RevenueRepository) ApplyDelta(ctx context.Context, id string, delta float64) (core.Revenue, bool, error) {
	rev, ok := r.c.find(ctx, id)
	if !ok {
		return core.Revenue{}, false, nil
	}
	rev.RemainingAmount = core.Add(rev.RemainingAmount, delta)
	if _, err := r.c.update(ctx, rev); err != nil {
		return core.Revenue{}, true, err
	}
	r.c.env.logger.DebugContext(ctx, "Remaining amount adjusted",
		log.NewFields().WithRevenue(id, rev.RemainingAmount).WithOperation("apply_delta").ToSlice()...)
	return rev, true, nil
}

func (r *RevenueRepository) DeductFromRevenue(ctx context.Context, id string, amount float64) (core.Revenue, bool, error) {
	return r.ApplyDelta(ctx, id, -amount)
}

func (r *RevenueRepository) AddToRevenue(ctx context.Context, id string, amount float64) (core.Revenue, bool, error) {
	return r.ApplyDelta(ctx, id, amount)
}

// SetRemaining overwrites the remaining amount of revenue id.
func (r *RevenueRepository) SetRemaining(ctx context.Context, id string, remaining float64) (bool, error) {
	rev, ok := r.c.find(ctx, id)
	if !ok {
		return false, nil
	}
	rev.RemainingAmount = remaining
	return r.c.update(ctx, rev)
}

// ResetRemaining sets every revenue's remaining amount back to its full
// amount in a single write and returns how many revenues were reset.
func (r *RevenueRepository) ResetRemaining(ctx context.Context) (int, error) {
	items := r.c.load(ctx)
	if len(items) == 0 {
		return 0, nil
	}
	for i := range items {
		items[i].RemainingAmount = items[i].Amount
	}
	return len(items), r.c.save(ctx, items)
}

// ReplaceAll overwrites the whole collection.
func (r *RevenueRepository) ReplaceAll(ctx context.Context, revenues []core.Revenue) error {
	if revenues == nil {
		revenues = []core.Revenue{}
	}
	return r.c.save(ctx, revenues)
}

// DedupeSalary keeps only the last salary revenue, preserving the order of
// everything else.
func DedupeSalary(revenues []core.Revenue) []core.Revenue {
	last := -1
	for i, rev := range revenues {
		if rev.Type == core.Salary {
			last = i
		}
	}
	out := make([]core.Revenue, 0, len(revenues))
	for i, rev := range revenues {
		if rev.Type == core.Salary && i != last {
			continue
		}
		out = append(out, rev)
	}
	return out
}
