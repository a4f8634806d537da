package repository

import (
	"context"
	"time"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// SettingsRepository owns the single-row settings, the user profile and
// the small bookkeeping markers.
type SettingsRepository struct {
	env *env
}

func (r *SettingsRepository) GetSettings(ctx context.Context) core.AppSettings {
	s, ok := storage.GetItem[core.AppSettings](ctx, r.env.adapter, KeySettings)
	if !ok {
		return core.DefaultSettings()
	}
	return s
}

func (r *SettingsRepository) SaveSettings(ctx context.Context, s core.AppSettings) error {
	return storage.SetItem(ctx, r.env.adapter, KeySettings, s)
}

func (r *SettingsRepository) GetProfile(ctx context.Context) core.UserProfile {
	p, ok := storage.GetItem[core.UserProfile](ctx, r.env.adapter, KeyUserProfile)
	if !ok {
		return core.DefaultProfile()
	}
	return p
}

func (r *SettingsRepository) SaveProfile(ctx context.Context, p core.UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return storage.SetItem(ctx, r.env.adapter, KeyUserProfile, p)
}

func (r *SettingsRepository) IsOnboardingComplete(ctx context.Context) bool {
	done, _ := storage.GetItem[bool](ctx, r.env.adapter, KeyOnboardingComplete)
	return done
}

func (r *SettingsRepository) SetOnboardingComplete(ctx context.Context, done bool) error {
	return storage.SetItem(ctx, r.env.adapter, KeyOnboardingComplete, done)
}

// Marker returns the string stored under key, or "" when absent.
func (r *SettingsRepository) Marker(ctx context.Context, key string) string {
	v, _ := storage.GetItem[string](ctx, r.env.adapter, key)
	return v
}

func (r *SettingsRepository) SetMarker(ctx context.Context, key, value string) error {
	return storage.SetItem(ctx, r.env.adapter, key, value)
}

func (r *SettingsRepository) LastBackupTime(ctx context.Context) (time.Time, bool) {
	return storage.GetItem[time.Time](ctx, r.env.adapter, KeyLastBackupTime)
}

func (r *SettingsRepository) SetLastBackupTime(ctx context.Context, t time.Time) error {
	return storage.SetItem(ctx, r.env.adapter, KeyLastBackupTime, t.UTC())
}
