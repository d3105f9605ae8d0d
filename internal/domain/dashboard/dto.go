package dashboard

import (
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/recognition"
)

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	Date          string                      `json:"date"`
	Summary       SummaryResponse             `json:"summary"`
	RecentRecords []attendance.RecordResponse `json:"recent_records"`
	Recognition   recognition.StatusResponse  `json:"recognition"`
}

// SummaryResponse contains today's headline counts
type SummaryResponse struct {
	TotalEmployees int64   `json:"total_employees"`
	PresentToday   int64   `json:"present_today"`
	AbsentToday    int64   `json:"absent_today"`
	AttendanceRate float64 `json:"attendance_rate"`
	UpdatedAt      string  `json:"updated_at"`
}
