package ledger

import (
	"errors"
	"fmt"
	"strings"

	"finledger/internal/core"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateSalary   = errors.New("a salary revenue already exists")
)

// InsufficientFundsError is returned when a revenue's remaining amount, or
// a goal's current amount for withdrawals, cannot cover a request. Exactly
// one of RevenueID and GoalID is set.
type InsufficientFundsError struct {
	RevenueID string
	GoalID    string
	Available float64
	Requested float64
}

func (e *InsufficientFundsError) Error() string {
	source := "revenue " + e.RevenueID
	if e.GoalID != "" {
		source = "goal " + e.GoalID
	}
	return fmt.Sprintf("insufficient funds in %s: available %s, requested %s",
		source, core.FormatAmount(e.Available, ""), core.FormatAmount(e.Requested, ""))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// ValidationError wraps a field-level validation failure from core.
type ValidationError struct {
	Entity string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Entity, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CascadeError reports a multi-step operation that stopped part way. Steps
// in Completed were persisted and are not rolled back.
type CascadeError struct {
	Op        string
	Completed []string
	Failed    string
	Err       error
}

func (e *CascadeError) Error() string {
	done := "none"
	if len(e.Completed) > 0 {
		done = strings.Join(e.Completed, ", ")
	}
	return fmt.Sprintf("%s: step %q failed after [%s]: %v", e.Op, e.Failed, done, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

func invalid(entity string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Entity: entity, Err: err}
}
