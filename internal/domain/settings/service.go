package settings

import "context"

type SettingsService interface {
	GetSettings(ctx context.Context) (SettingsResponse, error)

	// GetWorkSettings never fails on bad stored values; it falls back to defaults
	GetWorkSettings(ctx context.Context) WorkSettings

	UpdateWorkingHours(ctx context.Context, req UpdateWorkingHoursRequest) (SettingsResponse, error)
	UpdateWorkTime(ctx context.Context, req UpdateWorkTimeRequest) (SettingsResponse, error)
}
