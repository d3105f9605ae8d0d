package settings

import (
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
)

const (
	KeyWorkingHours  = "working_hours"
	KeyWorkStartTime = "work_start_time"
	KeyWorkEndTime   = "work_end_time"
)

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// WorkSettings is the resolved working-day configuration.
type WorkSettings struct {
	WorkingHours  int
	WorkStartTime string
	WorkEndTime   string
}

// DefaultWorkSettings is used for keys that are missing or unparsable.
func DefaultWorkSettings() WorkSettings {
	return WorkSettings{
		WorkingHours:  worktime.DefaultWorkingHours,
		WorkStartTime: worktime.DefaultWorkStartTime,
		WorkEndTime:   worktime.DefaultWorkEndTime,
	}
}

func (w WorkSettings) WorkingMinutes() int {
	return w.WorkingHours * 60
}
