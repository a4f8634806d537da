package repository

import (
	"context"

	"finledger/internal/core"
)

// SavingRepository owns the legacy flat savings ledger. It is unrelated to
// goals and their transaction log.
type SavingRepository struct {
	c collection[core.Saving]
}

func (r *SavingRepository) GetAll(ctx context.Context) []core.Saving {
	return r.c.load(ctx)
}

func (r *SavingRepository) Add(ctx context.Context, s core.Saving) (core.Saving, error) {
	if s.ID == "" {
		s.ID = r.c.env.newID()
	}
	if s.Date.IsZero() {
		s.Date = r.c.env.now()
	}
	if s.Type == "" {
		s.Type = core.SavingManual
	}
	s = s.Normalized()
	if err := r.c.add(ctx, s); err != nil {
		return core.Saving{}, err
	}
	return s, nil
}

func (r *SavingRepository) Delete(ctx context.Context, id string) error {
	_, _, err := r.c.remove(ctx, id)
	return err
}

// Total is the signed sum of the ledger.
func (r *SavingRepository) Total(ctx context.Context) float64 {
	items := r.c.load(ctx)
	amounts := make([]float64, len(items))
	for i, s := range items {
		amounts[i] = s.Amount
	}
	return core.Sum(amounts...)
}

func (r *SavingRepository) ReplaceAll(ctx context.Context, savings []core.Saving) error {
	if savings == nil {
		savings = []core.Saving{}
	}
	return r.c.save(ctx, savings)
}
