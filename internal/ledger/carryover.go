package ledger

import (
	"context"
	"fmt"
	"time"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/repository"
)

// PeriodStrategy names the budgeting period containing a point in time.
// Two times fall in the same period exactly when their ids are equal.
type PeriodStrategy interface {
	PeriodID(t time.Time) string
	MarkerKey() string
}

// MonthlyPeriod identifies calendar months as YYYY-MM.
type MonthlyPeriod struct{}

func (MonthlyPeriod) PeriodID(t time.Time) string { return t.Format("2006-01") }
func (MonthlyPeriod) MarkerKey() string {
	return repository.LastProcessedKey(string(core.CadenceMonthly))
}

// WeeklyPeriod identifies ISO weeks as YYYY-Www.
type WeeklyPeriod struct{}

func (WeeklyPeriod) PeriodID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func (WeeklyPeriod) MarkerKey() string {
	return repository.LastProcessedKey(string(core.CadenceWeekly))
}

var periodStrategies = map[core.Cadence]PeriodStrategy{
	core.CadenceMonthly: MonthlyPeriod{},
	core.CadenceWeekly:  WeeklyPeriod{},
}

// GetPeriodStrategy returns the period strategy for a cadence.
func GetPeriodStrategy(cadence core.Cadence) (PeriodStrategy, error) {
	s, ok := periodStrategies[cadence]
	if !ok {
		return nil, fmt.Errorf("unknown cadence: %s", cadence)
	}
	return s, nil
}

// RegisterPeriodStrategy adds or replaces the strategy for a cadence.
func RegisterPeriodStrategy(cadence core.Cadence, s PeriodStrategy) {
	periodStrategies[cadence] = s
}

// CarryOver starts a new budgeting period by restoring every revenue's
// remaining amount to its full amount. Expenses are kept.
type CarryOver struct {
	repos  *repository.Repositories
	logger *log.Logger
}

func NewCarryOver(repos *repository.Repositories, logger *log.Logger) *CarryOver {
	return &CarryOver{repos: repos, logger: log.OrDefault(logger, log.ComponentCarry)}
}

// Run resets remaining amounts when now lies in a different period from the
// last processed one, then records the current period. It reports whether
// a reset happened. The marker is only written after a successful reset, so
// a failed run is retried next time.
func (c *CarryOver) Run(ctx context.Context, now time.Time) (bool, error) {
	cadence := c.repos.Settings.GetProfile(ctx).EffectiveCadence()
	strategy, err := GetPeriodStrategy(cadence)
	if err != nil {
		return false, err
	}

	key := strategy.MarkerKey()
	current := strategy.PeriodID(now)
	if c.repos.Settings.Marker(ctx, key) == current {
		return false, nil
	}

	n, err := c.repos.Revenues.ResetRemaining(ctx)
	if err != nil {
		return false, fmt.Errorf("reset remaining amounts: %w", err)
	}
	if err := c.repos.Settings.SetMarker(ctx, key, current); err != nil {
		return true, fmt.Errorf("record processed period: %w", err)
	}

	c.logger.InfoContext(ctx, "Carried over to new period",
		log.FieldOperation, log.OpCarryOver,
		log.FieldCadence, string(cadence),
		log.FieldPeriod, current,
		log.FieldCount, n)
	return true, nil
}
