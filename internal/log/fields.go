package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldKey         = "key"
	FieldRevenueID   = "revenue_id"
	FieldExpenseID   = "expense_id"
	FieldGoalID      = "goal_id"
	FieldTxID        = "transaction_id"
	FieldAmount      = "amount"
	FieldRemaining   = "remaining"
	FieldCategory    = "category"
	FieldPeriod      = "period"
	FieldCadence     = "cadence"
	FieldCount       = "count"
	FieldBackupType  = "backup_type"
	FieldBackendType = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentRepo     = "repository"
	ComponentLedger   = "ledger"
	ComponentCarry    = "carryover"
	ComponentInsights = "insights"
	ComponentBackup   = "backup"
	ComponentNotify   = "notify"
	ComponentAMQP     = "amqp"
	ComponentCache    = "cache"
	ComponentBackend  = "backend"
	ComponentWorker   = "worker"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpDeduct    = "deduct"
	OpRefund    = "refund"
	OpRecompute = "recompute"
	OpCarryOver = "carry_over"
	OpSnapshot  = "snapshot"
	OpRestore   = "restore"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error message, skipping nil errors.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRevenue adds the revenue id and its remaining amount.
func (f LogFields) WithRevenue(id string, remaining float64) LogFields {
	f[FieldRevenueID] = id
	f[FieldRemaining] = remaining
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id string, amount float64, category string) LogFields {
	f[FieldExpenseID] = id
	f[FieldAmount] = amount
	f[FieldCategory] = category
	return f
}

func (f LogFields) WithGoal(id string) LogFields {
	f[FieldGoalID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
