// Package repository provides one repository per entity collection.
//
// Each repository owns exactly one key (two for categories) and performs a
// full read-modify-write of that collection per call. Update and Delete of
// an unknown id are silent no-ops. Every write normalizes amounts.
package repository

// Persisted keys. The layout is part of the backup contract.
const (
	KeyRevenues            = "revenues"
	KeyExpenses            = "expenses"
	KeyGoals               = "goals"
	KeySavings             = "savings"
	KeySavingsTransactions = "savings_transactions"
	KeyCategories          = "categories"
	KeyRevenueCategories   = "revenue_categories"
	KeySettings            = "settings"
	KeyUserProfile         = "user_profile"
	KeyOnboardingComplete  = "onboarding_complete"
	KeyLastBackupTime      = "last_backup_time"
	KeyLastProcessedPrefix = "last_processed_"
)

// LastProcessedKey returns the carry-over marker key for a cadence name.
func LastProcessedKey(cadence string) string {
	return KeyLastProcessedPrefix + cadence
}
