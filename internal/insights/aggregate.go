// Package insights derives totals, rates and advice from the ledger's
// collections. Nothing here writes to storage.
package insights

import (
	"context"
	"sort"

	"finledger/internal/core"
	"finledger/internal/repository"
)

// Snapshot is the set of collections the derived views are computed from.
type Snapshot struct {
	Revenues []core.Revenue
	Expenses []core.Expense
	Goals    []core.Goal
}

// Load reads a fresh snapshot from the repositories.
func Load(ctx context.Context, repos *repository.Repositories) Snapshot {
	return Snapshot{
		Revenues: repos.Revenues.GetAll(ctx),
		Expenses: repos.Expenses.GetAll(ctx),
		Goals:    repos.Goals.GetAll(ctx),
	}
}

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Share    float64 `json:"share"`
}

type Summary struct {
	TotalRevenues    float64          `json:"totalRevenues"`
	TotalExpenses    float64          `json:"totalExpenses"`
	TotalSavings     float64          `json:"totalSavings"`
	RemainingBalance float64          `json:"remainingBalance"`
	ExpenseRate      float64          `json:"expenseRate"`
	SavingsRate      float64          `json:"savingsRate"`
	HealthScore      float64          `json:"healthScore"`
	ByCategory       []CategoryAmount `json:"byCategory"`
}

func TotalRevenues(s Snapshot) float64 {
	amounts := make([]float64, len(s.Revenues))
	for i, r := range s.Revenues {
		amounts[i] = r.Amount
	}
	return core.Sum(amounts...)
}

func TotalExpenses(s Snapshot) float64 {
	amounts := make([]float64, len(s.Expenses))
	for i, e := range s.Expenses {
		amounts[i] = e.Amount
	}
	return core.Sum(amounts...)
}

// TotalSavings is the sum of every goal's current amount.
func TotalSavings(s Snapshot) float64 {
	amounts := make([]float64, len(s.Goals))
	for i, g := range s.Goals {
		amounts[i] = g.CurrentAmount
	}
	return core.Sum(amounts...)
}

func ExpensesByCategory(s Snapshot) map[string]float64 {
	out := make(map[string]float64)
	for _, e := range s.Expenses {
		out[e.Category] = core.Add(out[e.Category], e.Amount)
	}
	return out
}

// CategoryBreakdown lists categories by descending amount, ties by name,
// with each category's share of total expenses in percent.
func CategoryBreakdown(s Snapshot) []CategoryAmount {
	total := TotalExpenses(s)
	byCat := ExpensesByCategory(s)
	out := make([]CategoryAmount, 0, len(byCat))
	for cat, amount := range byCat {
		out = append(out, CategoryAmount{Category: cat, Amount: amount, Share: core.Percent(amount, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func RemainingBalance(s Snapshot) float64 {
	return core.Sub(core.Sub(TotalRevenues(s), TotalExpenses(s)), TotalSavings(s))
}

// ExpenseRate is expenses as a percentage of revenues, 0 without revenues.
func ExpenseRate(s Snapshot) float64 {
	return core.Percent(TotalExpenses(s), TotalRevenues(s))
}

// SavingsRate is goal savings as a percentage of revenues, 0 without revenues.
func SavingsRate(s Snapshot) float64 {
	return core.Percent(TotalSavings(s), TotalRevenues(s))
}

// HealthScore is 100 - expenseRate + savingsRate clamped to [0, 100].
func HealthScore(s Snapshot) float64 {
	return clamp(100-ExpenseRate(s)+SavingsRate(s), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Summarize(s Snapshot) Summary {
	return Summary{
		TotalRevenues:    TotalRevenues(s),
		TotalExpenses:    TotalExpenses(s),
		TotalSavings:     TotalSavings(s),
		RemainingBalance: RemainingBalance(s),
		ExpenseRate:      ExpenseRate(s),
		SavingsRate:      SavingsRate(s),
		HealthScore:      HealthScore(s),
		ByCategory:       CategoryBreakdown(s),
	}
}
