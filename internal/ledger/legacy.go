package ledger

import (
	"context"
	"fmt"

	"finledger/internal/core"
	"finledger/internal/log"
)

// AddSaving records an entry in the legacy savings ledger. The legacy
// ledger never touches goals or savings transactions.
func (e *Engine) AddSaving(ctx context.Context, s core.Saving) (core.Saving, error) {
	if err := invalid("saving", s.Validate()); err != nil {
		return core.Saving{}, err
	}
	s.ID = ""
	created, err := e.repos.Savings.Add(ctx, s)
	if err != nil {
		return core.Saving{}, fmt.Errorf("add saving: %w", err)
	}
	return created, nil
}

func (e *Engine) DeleteSaving(ctx context.Context, id string) error {
	return e.repos.Savings.Delete(ctx, id)
}

// ContributeToGoalLegacy moves amount out of the legacy savings pool into a
// goal, recorded as a negative goal entry.
func (e *Engine) ContributeToGoalLegacy(ctx context.Context, amount float64, description string) (core.Saving, error) {
	if amount <= 0 {
		return core.Saving{}, invalid("saving", core.ErrInvalidAmount)
	}
	return e.AddSaving(ctx, core.Saving{
		Amount:      -amount,
		Description: description,
		Type:        core.SavingGoal,
	})
}

// UpdateSettings persists s and asks the notifier to schedule or cancel
// reminders. Notifier failures are logged and never returned.
func (e *Engine) UpdateSettings(ctx context.Context, s core.AppSettings) error {
	if err := e.repos.Settings.SaveSettings(ctx, s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	var err error
	if s.NotificationsEnabled {
		err = e.notifier.Schedule(ctx)
	} else {
		err = e.notifier.Cancel(ctx)
	}
	if err != nil {
		e.logger.WarnContext(ctx, "Notification update failed",
			log.NewFields().WithComponent(log.ComponentNotify).WithError(err).ToSlice()...)
	}
	return nil
}

func (e *Engine) UpdateProfile(ctx context.Context, p core.UserProfile) error {
	if err := invalid("profile", p.Validate()); err != nil {
		return err
	}
	return e.repos.Settings.SaveProfile(ctx, p)
}
