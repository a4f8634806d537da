package repository

import (
	"context"
	"errors"
	"strings"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// ErrFixedCategory is returned when removing one of core.FixedCategories.
var ErrFixedCategory = errors.New("fixed category cannot be removed")

// CategoryRepository owns the expense and revenue category name lists.
type CategoryRepository struct {
	env *env
}

// DefaultRevenueCategories mirrors the revenue type enumeration.
func DefaultRevenueCategories() []string {
	return []string{
		string(core.Salary), string(core.Freelance), string(core.Business),
		string(core.Investment), string(core.Other),
	}
}

// List returns the expense categories, fixed ones first.
func (r *CategoryRepository) List(ctx context.Context) []string {
	stored, _ := storage.GetItem[[]string](ctx, r.env.adapter, KeyCategories)
	return dedupe(append(append([]string{}, core.FixedCategories...), stored...))
}

func (r *CategoryRepository) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	return storage.SetItem(ctx, r.env.adapter, KeyCategories, dedupe(append(r.List(ctx), name)))
}

// Remove deletes a user-defined category. Expenses already using it keep
// their category string.
func (r *CategoryRepository) Remove(ctx context.Context, name string) error {
	if core.IsFixedCategory(name) {
		return ErrFixedCategory
	}
	var kept []string
	for _, c := range r.List(ctx) {
		if c != name {
			kept = append(kept, c)
		}
	}
	return storage.SetItem(ctx, r.env.adapter, KeyCategories, kept)
}

func (r *CategoryRepository) RevenueCategories(ctx context.Context) []string {
	stored, ok := storage.GetItem[[]string](ctx, r.env.adapter, KeyRevenueCategories)
	if !ok || len(stored) == 0 {
		return DefaultRevenueCategories()
	}
	return dedupe(stored)
}

func (r *CategoryRepository) AddRevenueCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	return storage.SetItem(ctx, r.env.adapter, KeyRevenueCategories, dedupe(append(r.RevenueCategories(ctx), name)))
}

// ReplaceAll overwrites both lists. Nil lists are written as empty, which
// reads back as the defaults.
func (r *CategoryRepository) ReplaceAll(ctx context.Context, categories, revenueCategories []string) error {
	if categories == nil {
		categories = []string{}
	}
	if revenueCategories == nil {
		revenueCategories = []string{}
	}
	if err := storage.SetItem(ctx, r.env.adapter, KeyCategories, dedupe(categories)); err != nil {
		return err
	}
	return storage.SetItem(ctx, r.env.adapter, KeyRevenueCategories, dedupe(revenueCategories))
}

// dedupe trims names and drops blanks and duplicates, preserving order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
