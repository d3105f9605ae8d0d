package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
	"github.com/cmlabs-hris/face-attendance-go/internal/repository/postgresql"
)

type SettingsServiceImpl struct {
	settings.SettingsRepository
	txManager postgresql.TxManager
	defaults  settings.WorkSettings
}

// NewSettingsService falls back to defaults for any key missing from the table.
func NewSettingsService(repo settings.SettingsRepository, txManager postgresql.TxManager, defaults settings.WorkSettings) settings.SettingsService {
	return &SettingsServiceImpl{
		SettingsRepository: repo,
		txManager:          txManager,
		defaults:           sanitizeDefaults(defaults),
	}
}

func sanitizeDefaults(d settings.WorkSettings) settings.WorkSettings {
	fallback := settings.DefaultWorkSettings()
	if d.WorkingHours < 1 || d.WorkingHours > 24 {
		d.WorkingHours = fallback.WorkingHours
	}
	if !validator.IsValidClock(d.WorkStartTime) {
		d.WorkStartTime = fallback.WorkStartTime
	}
	if !validator.IsValidClock(d.WorkEndTime) {
		d.WorkEndTime = fallback.WorkEndTime
	}
	return d
}

// unquote strips the JSON quoting some clients store around plain values.
func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return strings.TrimSpace(value)
}

// GetWorkSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) GetWorkSettings(ctx context.Context) settings.WorkSettings {
	resolved := s.defaults

	all, err := s.SettingsRepository.GetAll(ctx)
	if err != nil {
		slog.Warn("Settings unavailable, using defaults", "error", err)
		return resolved
	}

	for _, setting := range all {
		value := unquote(setting.Value)
		switch setting.Key {
		case settings.KeyWorkingHours:
			hours, err := strconv.Atoi(value)
			if err != nil || hours < 1 || hours > 24 {
				slog.Warn("Ignoring invalid setting", "key", setting.Key, "value", setting.Value)
				continue
			}
			resolved.WorkingHours = hours
		case settings.KeyWorkStartTime:
			if !validator.IsValidClock(value) {
				slog.Warn("Ignoring invalid setting", "key", setting.Key, "value", setting.Value)
				continue
			}
			resolved.WorkStartTime = worktime.NormalizeClock(value)
		case settings.KeyWorkEndTime:
			if !validator.IsValidClock(value) {
				slog.Warn("Ignoring invalid setting", "key", setting.Key, "value", setting.Value)
				continue
			}
			resolved.WorkEndTime = worktime.NormalizeClock(value)
		}
	}

	return resolved
}

// GetSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (settings.SettingsResponse, error) {
	return settings.ToResponse(s.GetWorkSettings(ctx)), nil
}

// UpdateWorkingHours implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateWorkingHours(ctx context.Context, req settings.UpdateWorkingHoursRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	if err := s.SettingsRepository.Upsert(ctx, settings.KeyWorkingHours, strconv.Itoa(req.WorkingHours)); err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to update working hours: %w", err)
	}

	return s.GetSettings(ctx)
}

// UpdateWorkTime implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateWorkTime(ctx context.Context, req settings.UpdateWorkTimeRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.SettingsRepository.Upsert(txCtx, settings.KeyWorkStartTime, worktime.NormalizeClock(req.WorkStartTime)); err != nil {
			return err
		}
		return s.SettingsRepository.Upsert(txCtx, settings.KeyWorkEndTime, worktime.NormalizeClock(req.WorkEndTime))
	})
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to update work time: %w", err)
	}

	return s.GetSettings(ctx)
}

