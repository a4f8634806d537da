package ledger

import (
	"context"
	"fmt"

	"finledger/internal/core"
)

// Discrepancy is a stored value that disagrees with the value derived from
// the records it depends on.
type Discrepancy struct {
	Kind     string  `json:"kind"`
	ID       string  `json:"id"`
	Stored   float64 `json:"stored"`
	Expected float64 `json:"expected"`
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s %s: stored %s, expected %s", d.Kind, d.ID,
		core.FormatAmount(d.Stored, ""), core.FormatAmount(d.Expected, ""))
}

// Verify compares every revenue's remaining amount and every goal's current
// amount with the values derived from their dependents. It never writes.
// Revenue checks are only meaningful within a period: a carry-over restores
// remaining amounts while keeping the period's expenses.
func (e *Engine) Verify(ctx context.Context) []Discrepancy {
	var out []Discrepancy
	for _, rev := range e.repos.Revenues.GetAll(ctx) {
		expected := core.Sub(rev.Amount, drawnFrom(ctx, e.repos, rev.ID))
		if core.Normalize(rev.RemainingAmount) != expected {
			out = append(out, Discrepancy{Kind: "revenue", ID: rev.ID, Stored: rev.RemainingAmount, Expected: expected})
		}
	}
	for _, g := range e.repos.Goals.GetAll(ctx) {
		expected := goalBalance(e.repos.Transactions.ListByGoal(ctx, g.ID))
		if core.Normalize(g.CurrentAmount) != expected {
			out = append(out, Discrepancy{Kind: "goal", ID: g.ID, Stored: g.CurrentAmount, Expected: expected})
		}
	}
	return out
}
