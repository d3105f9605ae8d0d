package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateWorkingHours(w http.ResponseWriter, r *http.Request)
	UpdateWorkTime(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

// GetSettings handles GET /settings
func (h *settingsHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateWorkingHours handles PUT /settings/working-hours
func (h *settingsHandlerImpl) UpdateWorkingHours(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateWorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.UpdateWorkingHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Working hours updated", "working_hours", result.WorkingHours)
	response.SuccessWithMessage(w, "Working hours updated", result)
}

// UpdateWorkTime handles PUT /settings/work-time
func (h *settingsHandlerImpl) UpdateWorkTime(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateWorkTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.UpdateWorkTime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Work time updated", "start", result.WorkStartTime, "end", result.WorkEndTime)
	response.SuccessWithMessage(w, "Work time updated", result)
}
