package report

import "context"

// ReportService builds the staff log, person log and monthly views.
type ReportService interface {
	// DailySummary returns one row per employee for a single day
	DailySummary(ctx context.Context, req DailyReportRequest) (DailySummaryResponse, error)
	ExportDaily(ctx context.Context, req ExportDailyRequest) (ExportFile, error)

	// PersonMonthly returns one row per day with activity, newest first
	PersonMonthly(ctx context.Context, req PersonRangeRequest) (PersonMonthlyResponse, error)
	ExportPersonMonthly(ctx context.Context, req ExportPersonMonthlyRequest) (ExportFile, error)

	// PersonCalendar returns every day of a month, including days without entries
	PersonCalendar(ctx context.Context, req PersonCalendarRequest) (PersonCalendarResponse, error)

	// DailyActivities returns the raw entry/exit events of one day, oldest first
	DailyActivities(ctx context.Context, req PersonDateRequest) (DailyActivitiesResponse, error)
	ExportDailyActivities(ctx context.Context, req PersonDateRequest) (ExportFile, error)

	// DateSpecific returns one row per record, each carrying the day's attendance total
	DateSpecific(ctx context.Context, req PersonDateRequest) (DateSpecificResponse, error)
}
