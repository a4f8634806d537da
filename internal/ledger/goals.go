package ledger

import (
	"context"
	"fmt"

	"finledger/internal/core"
	"finledger/internal/log"
)

// CreateGoal stores a new active goal with nothing saved yet.
func (e *Engine) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := invalid("goal", g.Validate()); err != nil {
		return core.Goal{}, err
	}
	g.ID = ""
	g.CurrentAmount = 0
	g.Status = core.GoalActive
	g.CompletedAt = nil
	if g.Currency == "" {
		g.Currency = e.repos.Settings.GetSettings(ctx).Currency
	}
	created, err := e.repos.Goals.Add(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	e.logger.InfoContext(ctx, "Goal created", log.NewFields().WithGoal(created.ID).WithOperation(log.OpCreate).ToSlice()...)
	return created, nil
}

// UpdateGoal edits a goal's descriptive fields and target. The current
// amount and status are not taken from g; completion is re-evaluated
// against the new target.
func (e *Engine) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := invalid("goal", g.Validate()); err != nil {
		return core.Goal{}, err
	}
	current, ok := e.repos.Goals.Get(ctx, g.ID)
	if !ok {
		e.logger.DebugContext(ctx, "Update of unknown goal ignored", log.FieldGoalID, g.ID)
		return core.Goal{}, nil
	}

	current.Title = g.Title
	current.Description = g.Description
	current.Emoji = g.Emoji
	current.TargetAmount = g.TargetAmount
	current.Deadline = g.Deadline
	current.Category = g.Category
	current.IsAutoSaveEnabled = g.IsAutoSaveEnabled
	current.AutoSaveRuleID = g.AutoSaveRuleID
	if g.Currency != "" {
		current.Currency = g.Currency
	}
	if err := e.repos.Goals.Update(ctx, current); err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	updated, _, err := e.RecomputeGoal(ctx, g.ID)
	return updated, err
}

// SetGoalStatus pauses, resumes, archives or completes a goal by hand.
func (e *Engine) SetGoalStatus(ctx context.Context, id string, status core.GoalStatus) (core.Goal, error) {
	if !status.IsValid() {
		return core.Goal{}, invalid("goal", core.ErrInvalidGoalStatus)
	}
	g, ok := e.repos.Goals.Get(ctx, id)
	if !ok {
		return core.Goal{}, &NotFoundError{Kind: "goal", ID: id}
	}
	now := e.now()
	g.Status = status
	g.UpdatedAt = &now
	if status == core.GoalCompleted && g.CompletedAt == nil {
		g.CompletedAt = &now
	}
	if err := e.repos.Goals.Update(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("set goal status: %w", err)
	}
	// resuming a goal that already reached its target completes it
	if status == core.GoalActive {
		g, _, err := e.RecomputeGoal(ctx, id)
		return g, err
	}
	return g, nil
}

// RecomputeGoal re-derives the goal's current amount from its transactions
// and moves an active goal that reached its target to completed. It reports
// false when the goal does not exist.
func (e *Engine) RecomputeGoal(ctx context.Context, goalID string) (core.Goal, bool, error) {
	g, ok := e.repos.Goals.Get(ctx, goalID)
	if !ok {
		return core.Goal{}, false, nil
	}
	now := e.now()
	g.CurrentAmount = goalBalance(e.repos.Transactions.ListByGoal(ctx, goalID))
	g.UpdatedAt = &now
	if g.Status == core.GoalActive && covers(g.CurrentAmount, g.TargetAmount) {
		g.Status = core.GoalCompleted
		g.CompletedAt = &now
		e.logger.InfoContext(ctx, "Goal completed", log.FieldGoalID, goalID, log.FieldAmount, g.CurrentAmount)
	}
	if err := e.repos.Goals.Update(ctx, g); err != nil {
		return core.Goal{}, true, fmt.Errorf("recompute goal: %w", err)
	}
	return g, true, nil
}

// DeleteGoal removes the goal's transactions and then the goal. Revenues
// that funded deposits are not refunded.
func (e *Engine) DeleteGoal(ctx context.Context, id string) error {
	return runSteps(ctx, "delete goal",
		step{"delete transactions", func(ctx context.Context) error {
			_, err := e.repos.Transactions.DeleteByGoal(ctx, id)
			return err
		}},
		step{"delete goal", func(ctx context.Context) error {
			_, err := e.repos.Goals.Delete(ctx, id)
			return err
		}},
	)
}

// AddSavingsTransaction records a deposit or withdrawal on a goal. A deposit
// funded by a revenue is deducted from it. Withdrawals never take the goal
// below zero.
func (e *Engine) AddSavingsTransaction(ctx context.Context, tx core.SavingsTransaction) (core.SavingsTransaction, core.Goal, error) {
	if err := invalid("savings transaction", tx.Validate()); err != nil {
		return core.SavingsTransaction{}, core.Goal{}, err
	}
	goal, ok := e.repos.Goals.Get(ctx, tx.GoalID)
	if !ok {
		return core.SavingsTransaction{}, core.Goal{}, &NotFoundError{Kind: "goal", ID: tx.GoalID}
	}

	fundedBy := ""
	switch tx.Type {
	case core.Deposit:
		if tx.RevenueSourceID != "" {
			rev, ok := e.repos.Revenues.Get(ctx, tx.RevenueSourceID)
			if !ok {
				return core.SavingsTransaction{}, core.Goal{}, &NotFoundError{Kind: "revenue", ID: tx.RevenueSourceID}
			}
			if !covers(rev.RemainingAmount, tx.Amount) {
				return core.SavingsTransaction{}, core.Goal{}, &InsufficientFundsError{
					RevenueID: rev.ID,
					Available: rev.RemainingAmount,
					Requested: core.Normalize(tx.Amount),
				}
			}
			fundedBy = rev.ID
		}
	case core.Withdrawal:
		balance := goalBalance(e.repos.Transactions.ListByGoal(ctx, goal.ID))
		if !covers(balance, tx.Amount) {
			return core.SavingsTransaction{}, core.Goal{}, &InsufficientFundsError{
				GoalID:    goal.ID,
				Available: balance,
				Requested: core.Normalize(tx.Amount),
			}
		}
	}

	tx.ID = ""
	created, err := e.repos.Transactions.Add(ctx, tx)
	if err != nil {
		return core.SavingsTransaction{}, core.Goal{}, fmt.Errorf("add savings transaction: %w", err)
	}
	if fundedBy != "" {
		if _, _, err := e.remaining.ApplyDelta(ctx, fundedBy, -created.Amount); err != nil {
			return created, core.Goal{}, fmt.Errorf("deduct deposit: %w", err)
		}
	}
	updated, _, err := e.RecomputeGoal(ctx, goal.ID)
	if err != nil {
		return created, core.Goal{}, err
	}

	e.logger.InfoContext(ctx, "Savings transaction added",
		log.FieldTxID, created.ID,
		log.FieldGoalID, goal.ID,
		log.FieldAmount, created.Signed())
	return created, updated, nil
}

// DeleteSavingsTransaction removes a transaction and re-derives its goal.
// A revenue that funded the deposit is not refunded.
func (e *Engine) DeleteSavingsTransaction(ctx context.Context, id string) error {
	removed, ok, err := e.repos.Transactions.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete savings transaction: %w", err)
	}
	if !ok {
		return nil
	}
	_, _, err = e.RecomputeGoal(ctx, removed.GoalID)
	return err
}
