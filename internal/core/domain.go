package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Salary     RevenueType = "salary"
	Freelance  RevenueType = "freelance"
	Business   RevenueType = "business"
	Investment RevenueType = "investment"
	Other      RevenueType = "other"
)

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
	GoalArchived  GoalStatus = "archived"
)

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

const (
	SavingManual    SavingType = "manual"
	SavingGoal      SavingType = "goal"
	SavingAutomatic SavingType = "automatic"
)

const (
	CadenceMonthly Cadence = "monthly"
	CadenceWeekly  Cadence = "weekly"
)

type (
	RevenueType     string
	GoalStatus      string
	TransactionType string
	SavingType      string

	// Cadence is how often revenue remaining amounts are carried over.
	Cadence string

	Revenue struct {
		ID              string      `json:"id"`
		Name            string      `json:"name"`
		Amount          float64     `json:"amount"`
		Type            RevenueType `json:"type"`
		RemainingAmount float64     `json:"remainingAmount"`
		CreatedAt       time.Time   `json:"createdAt"`
	}

	Expense struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Amount          float64   `json:"amount"`
		Category        string    `json:"category"`
		Description     string    `json:"description"`
		RevenueSourceID string    `json:"revenueSourceId"`
		Date            time.Time `json:"date"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	// Goal is a savings target. CurrentAmount is a cache of the fold over
	// the goal's savings transactions and is never written directly.
	Goal struct {
		ID                string     `json:"id"`
		Title             string     `json:"title"`
		Description       string     `json:"description,omitempty"`
		Emoji             string     `json:"emoji,omitempty"`
		TargetAmount      float64    `json:"targetAmount"`
		CurrentAmount     float64    `json:"currentAmount"`
		Currency          string     `json:"currency"`
		CreatedAt         time.Time  `json:"createdAt"`
		UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
		Deadline          *time.Time `json:"deadline,omitempty"`
		Category          string     `json:"category,omitempty"`
		Status            GoalStatus `json:"status"`
		IsAutoSaveEnabled bool       `json:"isAutoSaveEnabled,omitempty"`
		AutoSaveRuleID    string     `json:"autoSaveRuleId,omitempty"`
		CompletedAt       *time.Time `json:"completedAt,omitempty"`
	}

	SavingsTransaction struct {
		ID              string          `json:"id"`
		GoalID          string          `json:"goalId"`
		Amount          float64         `json:"amount"`
		Type            TransactionType `json:"type"`
		Description     string          `json:"description,omitempty"`
		Date            time.Time       `json:"date"`
		RevenueSourceID string          `json:"revenueSourceId,omitempty"`
	}

	// Saving is an entry of the legacy flat savings ledger. Amount is signed.
	Saving struct {
		ID          string     `json:"id"`
		Amount      float64    `json:"amount"`
		Description string     `json:"description"`
		Date        time.Time  `json:"date"`
		Type        SavingType `json:"type"`
	}

	AppSettings struct {
		Currency             string `json:"currency"`
		Language             string `json:"language"`
		NotificationsEnabled bool   `json:"notificationsEnabled"`
	}

	UserProfile struct {
		Name       string  `json:"name"`
		Profession string  `json:"profession"`
		Cadence    Cadence `json:"cadence,omitempty"`
	}
)

// FixedCategories cannot be removed from the expense category list.
var FixedCategories = []string{"rent", "food", "transport"}

var (
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrMissingRevenue     = errors.New("missing revenue source")
	ErrInvalidRevenueType = errors.New("invalid revenue type")
	ErrEmptyTitle         = errors.New("empty title")
	ErrInvalidTarget      = errors.New("invalid target amount")
	ErrMissingGoal        = errors.New("missing goal")
	ErrInvalidTxType      = errors.New("invalid transaction type")
	ErrInvalidGoalStatus  = errors.New("invalid goal status")
	ErrInvalidCadence     = errors.New("invalid cadence")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

const maxDescriptionLength = 200

// storedAmount reports whether v is finite and returns the value it will
// be persisted as.
func storedAmount(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return Normalize(v), true
}

// positiveAmount reports whether v is still above zero once normalized.
func positiveAmount(v float64) bool {
	n, ok := storedAmount(v)
	return ok && n > 0
}

// DefaultSettings is used whenever no settings have been persisted yet.
func DefaultSettings() AppSettings {
	return AppSettings{Currency: "MAD", Language: "fr", NotificationsEnabled: true}
}

// DefaultProfile is used whenever no profile has been persisted yet.
func DefaultProfile() UserProfile {
	return UserProfile{Cadence: CadenceMonthly}
}

func (t RevenueType) IsValid() bool {
	switch t {
	case Salary, Freelance, Business, Investment, Other:
		return true
	}
	return false
}

func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalPaused, GoalArchived:
		return true
	}
	return false
}

func (t TransactionType) IsValid() bool {
	return t == Deposit || t == Withdrawal
}

func (c Cadence) IsValid() bool {
	return c == CadenceMonthly || c == CadenceWeekly
}

// IsFixedCategory reports whether name is one of the built-in categories.
func IsFixedCategory(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range FixedCategories {
		if c == n {
			return true
		}
	}
	return false
}

func (r Revenue) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if n, ok := storedAmount(r.Amount); !ok || n < 0 {
		return ErrInvalidAmount
	}
	if !r.Type.IsValid() {
		return ErrInvalidRevenueType
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if !positiveAmount(e.Amount) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.RevenueSourceID) == "" {
		return ErrMissingRevenue
	}
	if len(e.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if !positiveAmount(g.TargetAmount) {
		return ErrInvalidTarget
	}
	if g.Status != "" && !g.Status.IsValid() {
		return ErrInvalidGoalStatus
	}
	return nil
}

func (t SavingsTransaction) Validate() error {
	if strings.TrimSpace(t.GoalID) == "" {
		return ErrMissingGoal
	}
	if !positiveAmount(t.Amount) {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidTxType
	}
	return nil
}

func (s Saving) Validate() error {
	if n, ok := storedAmount(s.Amount); !ok || n == 0 {
		return ErrInvalidAmount
	}
	if len(s.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (p UserProfile) Validate() error {
	if p.Cadence != "" && !p.Cadence.IsValid() {
		return ErrInvalidCadence
	}
	return nil
}

// EffectiveCadence returns the profile's cadence, defaulting to monthly.
func (p UserProfile) EffectiveCadence() Cadence {
	if p.Cadence.IsValid() {
		return p.Cadence
	}
	return CadenceMonthly
}

// Signed returns the transaction amount as it contributes to a goal.
func (t SavingsTransaction) Signed() float64 {
	if t.Type == Withdrawal {
		return -t.Amount
	}
	return t.Amount
}

// Normalized returns a copy with every amount rounded to AmountPlaces.
func (r Revenue) Normalized() Revenue {
	r.Amount = Normalize(r.Amount)
	r.RemainingAmount = Normalize(r.RemainingAmount)
	return r
}

func (e Expense) Normalized() Expense {
	e.Amount = Normalize(e.Amount)
	return e
}

func (g Goal) Normalized() Goal {
	g.TargetAmount = Normalize(g.TargetAmount)
	g.CurrentAmount = Normalize(g.CurrentAmount)
	return g
}

func (t SavingsTransaction) Normalized() SavingsTransaction {
	t.Amount = Normalize(t.Amount)
	return t
}

func (s Saving) Normalized() Saving {
	s.Amount = Normalize(s.Amount)
	return s
}

func (r Revenue) EntityID() string            { return r.ID }
func (e Expense) EntityID() string            { return e.ID }
func (g Goal) EntityID() string               { return g.ID }
func (t SavingsTransaction) EntityID() string { return t.ID }
func (s Saving) EntityID() string             { return s.ID }
