package core

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestRevenueValidate(t *testing.T) {
	good := Revenue{Name: "Job", Amount: 1000, Type: Salary}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		r    Revenue
		want error
	}{
		{Revenue{Name: " ", Amount: 1, Type: Salary}, ErrEmptyName},
		{Revenue{Name: "a", Amount: -1, Type: Salary}, ErrInvalidAmount},
		{Revenue{Name: "a", Amount: 1, Type: "lottery"}, ErrInvalidRevenueType},
	}
	for i, tc := range bads {
		if err := tc.r.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Name: "Groceries", Amount: 10, Category: "food", RevenueSourceID: "r1"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Name: "", Amount: 1, Category: "c", RevenueSourceID: "r"},
		{Name: "a", Amount: 0, Category: "c", RevenueSourceID: "r"},
		{Name: "a", Amount: 1, Category: "", RevenueSourceID: "r"},
		{Name: "a", Amount: 1, Category: "c", RevenueSourceID: ""},
		{Name: "a", Amount: 1, Category: "c", RevenueSourceID: "r", Description: strings.Repeat("x", 201)},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalAndTransactionValidate(t *testing.T) {
	if err := (Goal{Title: "Car", TargetAmount: 500}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Goal{Title: "Car", TargetAmount: 0}).Validate(); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	if err := (Goal{Title: "Car", TargetAmount: 1, Status: "lost"}).Validate(); !errors.Is(err, ErrInvalidGoalStatus) {
		t.Fatalf("expected ErrInvalidGoalStatus, got %v", err)
	}

	tx := SavingsTransaction{GoalID: "g", Amount: 5, Type: Deposit}
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	tx.Type = "transfer"
	if err := tx.Validate(); !errors.Is(err, ErrInvalidTxType) {
		t.Fatalf("expected ErrInvalidTxType, got %v", err)
	}
}

func TestAmountValidationUsesStoredValue(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)

	tests := []struct {
		name string
		v    interface{ Validate() error }
		ok   bool
	}{
		{"revenue nan", Revenue{Name: "a", Amount: nan, Type: Other}, false},
		{"revenue +inf", Revenue{Name: "a", Amount: inf, Type: Other}, false},
		{"revenue -inf", Revenue{Name: "a", Amount: -inf, Type: Other}, false},
		{"revenue zero", Revenue{Name: "a", Type: Other}, true},
		{"expense nan", Expense{Name: "a", Amount: nan, Category: "c", RevenueSourceID: "r"}, false},
		{"expense inf", Expense{Name: "a", Amount: inf, Category: "c", RevenueSourceID: "r"}, false},
		{"expense 0.0004", Expense{Name: "a", Amount: 0.0004, Category: "c", RevenueSourceID: "r"}, false},
		{"expense 0.0005", Expense{Name: "a", Amount: 0.0005, Category: "c", RevenueSourceID: "r"}, true},
		{"goal nan", Goal{Title: "a", TargetAmount: nan}, false},
		{"goal inf", Goal{Title: "a", TargetAmount: inf}, false},
		{"goal 0.0004", Goal{Title: "a", TargetAmount: 0.0004}, false},
		{"tx nan", SavingsTransaction{GoalID: "g", Amount: nan, Type: Deposit}, false},
		{"tx inf", SavingsTransaction{GoalID: "g", Amount: inf, Type: Deposit}, false},
		{"tx 0.0004", SavingsTransaction{GoalID: "g", Amount: 0.0004, Type: Deposit}, false},
		{"tx 0.0005", SavingsTransaction{GoalID: "g", Amount: 0.0005, Type: Deposit}, true},
		{"saving nan", Saving{Amount: nan}, false},
		{"saving -inf", Saving{Amount: -inf}, false},
		{"saving -0.0004", Saving{Amount: -0.0004}, false},
		{"saving -0.0005", Saving{Amount: -0.0005}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidAmount) && !errors.Is(err, ErrInvalidTarget) {
				t.Fatalf("expected amount error, got %v", err)
			}
		})
	}
}

func TestSignedAndCadence(t *testing.T) {
	if got := (SavingsTransaction{Amount: 5, Type: Withdrawal}).Signed(); got != -5 {
		t.Fatalf("withdrawal signed = %v", got)
	}
	if got := (UserProfile{}).EffectiveCadence(); got != CadenceMonthly {
		t.Fatalf("default cadence = %v", got)
	}
	if got := (UserProfile{Cadence: CadenceWeekly}).EffectiveCadence(); got != CadenceWeekly {
		t.Fatalf("weekly cadence = %v", got)
	}
	if !IsFixedCategory(" Rent ") || IsFixedCategory("travel") {
		t.Fatalf("unexpected fixed category detection")
	}
}
