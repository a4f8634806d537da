package repository

import (
	"context"

	"finledger/internal/core"
)

type GoalRepository struct {
	c collection[core.Goal]
}

func (r *GoalRepository) GetAll(ctx context.Context) []core.Goal {
	return r.c.load(ctx)
}

func (r *GoalRepository) Get(ctx context.Context, id string) (core.Goal, bool) {
	return r.c.find(ctx, id)
}

// Add stores a new goal, active unless a status is given.
func (r *GoalRepository) Add(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = r.c.env.newID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = r.c.env.now()
	}
	if g.Status == "" {
		g.Status = core.GoalActive
	}
	g = g.Normalized()
	if err := r.c.add(ctx, g); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (r *GoalRepository) Update(ctx context.Context, g core.Goal) error {
	_, err := r.c.update(ctx, g.Normalized())
	return err
}

func (r *GoalRepository) Delete(ctx context.Context, id string) (bool, error) {
	_, ok, err := r.c.remove(ctx, id)
	return ok, err
}

func (r *GoalRepository) ReplaceAll(ctx context.Context, goals []core.Goal) error {
	if goals == nil {
		goals = []core.Goal{}
	}
	return r.c.save(ctx, goals)
}
