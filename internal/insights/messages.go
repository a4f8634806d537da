package insights

import (
	"sort"
	"strings"
)

var english = map[string]string{
	AdviceNoIncome:              "No income recorded yet. Add a revenue to start budgeting.",
	AdviceDeficit:               "You are spending {amount} more than you earn.",
	AdviceHighExpenseRatio:      "Expenses take {rate}% of your income. Try to stay under 80%.",
	AdviceCategoryConcentration: "{category} accounts for {share}% of your spending.",
	AdviceLowSavingsRate:        "You save {rate}% of your income. Aim for at least 10%.",
	AdviceStalledGoals:          "{count} goal(s) near their deadline have no savings yet: {goals}.",
	AdviceNoGoals:               "Set a savings goal to give your budget a target.",
	AdviceHealthy:               "Your finances look healthy. Keep it up!",
}

// English is the built-in translator. Unknown keys are returned as is and
// {name} placeholders are filled from params.
func English(key string, params map[string]string) string {
	msg, ok := english[key]
	if !ok {
		return key
	}
	if len(params) == 0 {
		return msg
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", params[name])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
