package insights

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"finledger/internal/core"
)

// Priority orders advice; lower values are more urgent.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return "unknown"
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Advice keys. Callers translate them for display.
const (
	AdviceNoIncome              = "advice.no_income"
	AdviceDeficit               = "advice.deficit"
	AdviceHighExpenseRatio      = "advice.high_expense_ratio"
	AdviceCategoryConcentration = "advice.category_concentration"
	AdviceLowSavingsRate        = "advice.low_savings_rate"
	AdviceStalledGoals          = "advice.stalled_goals"
	AdviceNoGoals               = "advice.no_goals"
	AdviceHealthy               = "advice.healthy"
)

const (
	highExpenseRatio      = 80.0
	concentrationShare    = 40.0
	lowSavingsRate        = 10.0
	stalledGoalWindowDays = 30
)

type Advice struct {
	Key      string            `json:"key"`
	Priority Priority          `json:"priority"`
	Params   map[string]string `json:"params,omitempty"`
}

type facts struct {
	snap    Snapshot
	summary Summary
	now     time.Time
}

type rule struct {
	key      string
	priority Priority
	eval     func(f facts) (map[string]string, bool)
}

// rules are evaluated in this order; equal priorities keep it.
var rules = []rule{
	{AdviceNoIncome, PriorityCritical, func(f facts) (map[string]string, bool) {
		return nil, f.summary.TotalRevenues == 0
	}},
	{AdviceDeficit, PriorityCritical, func(f facts) (map[string]string, bool) {
		if f.summary.RemainingBalance >= 0 {
			return nil, false
		}
		return map[string]string{"amount": core.FormatAmount(-f.summary.RemainingBalance, "")}, true
	}},
	{AdviceHighExpenseRatio, PriorityHigh, func(f facts) (map[string]string, bool) {
		if f.summary.ExpenseRate <= highExpenseRatio {
			return nil, false
		}
		return map[string]string{"rate": formatRate(f.summary.ExpenseRate)}, true
	}},
	{AdviceCategoryConcentration, PriorityMedium, func(f facts) (map[string]string, bool) {
		if len(f.summary.ByCategory) == 0 {
			return nil, false
		}
		top := f.summary.ByCategory[0]
		if top.Share <= concentrationShare {
			return nil, false
		}
		return map[string]string{"category": top.Category, "share": formatRate(top.Share)}, true
	}},
	{AdviceLowSavingsRate, PriorityMedium, func(f facts) (map[string]string, bool) {
		if f.summary.TotalRevenues == 0 || f.summary.SavingsRate >= lowSavingsRate {
			return nil, false
		}
		return map[string]string{"rate": formatRate(f.summary.SavingsRate)}, true
	}},
	{AdviceStalledGoals, PriorityMedium, func(f facts) (map[string]string, bool) {
		stalled := StalledGoals(f.snap.Goals, f.now)
		if len(stalled) == 0 {
			return nil, false
		}
		titles := make([]string, len(stalled))
		for i, g := range stalled {
			titles[i] = g.Title
		}
		return map[string]string{"count": strconv.Itoa(len(stalled)), "goals": strings.Join(titles, ", ")}, true
	}},
	{AdviceNoGoals, PriorityLow, func(f facts) (map[string]string, bool) {
		return nil, len(f.snap.Goals) == 0
	}},
}

// StalledGoals returns active goals with nothing saved whose deadline is
// past or within the next 30 days.
func StalledGoals(goals []core.Goal, now time.Time) []core.Goal {
	horizon := now.AddDate(0, 0, stalledGoalWindowDays)
	var out []core.Goal
	for _, g := range goals {
		if g.Status != core.GoalActive || g.CurrentAmount > 0 || g.Deadline == nil {
			continue
		}
		if !g.Deadline.After(horizon) {
			out = append(out, g)
		}
	}
	return out
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// GenerateAdvice evaluates every rule and returns the n most urgent. When
// no rule fires the result is the healthy acknowledgement. n <= 0 returns
// all of them.
func GenerateAdvice(s Snapshot, now time.Time, n int) []Advice {
	f := facts{snap: s, summary: Summarize(s), now: now}

	var out []Advice
	for _, r := range rules {
		if params, ok := r.eval(f); ok {
			out = append(out, Advice{Key: r.key, Priority: r.priority, Params: params})
		}
	}
	if len(out) == 0 {
		return []Advice{{Key: AdviceHealthy, Priority: PriorityLow}}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Translator turns an advice key and its parameters into display text.
type Translator func(key string, params map[string]string) string

// Render translates each advice; a nil translator returns the keys.
func Render(advice []Advice, t Translator) []string {
	out := make([]string, len(advice))
	for i, a := range advice {
		if t == nil {
			out[i] = a.Key
			continue
		}
		out[i] = t(a.Key, a.Params)
	}
	return out
}
