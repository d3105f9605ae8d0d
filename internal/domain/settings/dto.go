package settings

import (
	"strings"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
)

type UpdateWorkingHoursRequest struct {
	WorkingHours int `json:"working_hours"`
}

func (r *UpdateWorkingHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkingHours < 1 || r.WorkingHours > 24 {
		errs.Add("working_hours", "working_hours must be between 1 and 24")
	}

	return errs.Err()
}

type UpdateWorkTimeRequest struct {
	WorkStartTime string `json:"work_start_time"`
	WorkEndTime   string `json:"work_end_time"`
}

func (r *UpdateWorkTimeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.WorkStartTime = strings.TrimSpace(r.WorkStartTime)
	r.WorkEndTime = strings.TrimSpace(r.WorkEndTime)

	startOK := validator.IsValidClock(r.WorkStartTime)
	endOK := validator.IsValidClock(r.WorkEndTime)
	if !startOK {
		errs.Add("work_start_time", "work_start_time must be in HH:MM format")
	}
	if !endOK {
		errs.Add("work_end_time", "work_end_time must be in HH:MM format")
	}
	if startOK && endOK {
		start, _ := worktime.ParseClock(r.WorkStartTime)
		end, _ := worktime.ParseClock(r.WorkEndTime)
		if end <= start {
			errs.Add("work_end_time", "work_end_time must be after work_start_time")
		}
	}

	return errs.Err()
}

type SettingsResponse struct {
	WorkingHours   int    `json:"working_hours"`
	WorkingMinutes int    `json:"working_minutes"`
	WorkStartTime  string `json:"work_start_time"`
	WorkEndTime    string `json:"work_end_time"`
}

func ToResponse(w WorkSettings) SettingsResponse {
	return SettingsResponse{
		WorkingHours:   w.WorkingHours,
		WorkingMinutes: w.WorkingMinutes(),
		WorkStartTime:  w.WorkStartTime,
		WorkEndTime:    w.WorkEndTime,
	}
}
