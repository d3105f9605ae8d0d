package report

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/export"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
)

// Row highlight per band in XLSX exports.
var bandFills = map[string]string{
	string(worktime.BandComplete): "#C6EFCE",
	string(worktime.BandMinor):    "#FFEB9C",
	string(worktime.BandModerate): "#F8CBAD",
	string(worktime.BandSevere):   "#FFC7CE",
	string(worktime.BandNoEntry):  "#EDEDED",
}

var staffLogHeaders = []string{
	"Employee", "Job Title", "Entry Time", "Exit Time", "Hours Worked", "Status", "Entry Photo", "Exit Photo",
}

var detailedStaffLogHeaders = []string{
	"Employee Name", "Job Title", "Date", "Entry Time", "Exit Time", "Attendance Hours",
	"Expected Hours", "Leak Hours", "Late Arrival", "Status", "Entry Snapshot", "Exit Snapshot",
}

var monthlyLogHeaders = []string{
	"Day", "Time In", "Time Out", "Attendance Hours", "Leak Hours", "Class", "Image In", "Image Out",
}

var personLogHeaders = []string{"Entry #", "Date", "Time", "Type", "Snapshot"}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func slug(s string) string {
	return strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func render(t export.Table, format, basename string) (report.ExportFile, error) {
	switch format {
	case report.FormatXLSX:
		data, err := export.XLSX(t)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("failed to render xlsx: %w", err)
		}
		return report.ExportFile{Filename: basename + ".xlsx", ContentType: export.ContentTypeXLSX, Data: data}, nil
	case report.FormatCSV, report.FormatDetailed:
		data, err := export.CSV(t)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("failed to render csv: %w", err)
		}
		return report.ExportFile{Filename: basename + ".csv", ContentType: export.ContentTypeCSV, Data: data}, nil
	default:
		return report.ExportFile{}, report.ErrInvalidExportFormat
	}
}

// ExportDaily implements report.ReportService.
func (s *ReportServiceImpl) ExportDaily(ctx context.Context, req report.ExportDailyRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	summary, err := s.DailySummary(ctx, report.DailyReportRequest{Date: req.Date})
	if err != nil {
		return report.ExportFile{}, err
	}

	switch req.Format {
	case report.FormatCSV:
		return render(staffLogTable(summary), req.Format, "staff-log-"+summary.Date)
	default:
		return render(detailedStaffLogTable(summary), req.Format, "staff-log-detailed-"+summary.Date)
	}
}

// staffLogTable is the quick export; lateness is always judged against 09:00.
func staffLogTable(summary report.DailySummaryResponse) export.Table {
	t := export.Table{Sheet: "Staff Log", Headers: staffLogHeaders, Rows: make([][]string, 0, len(summary.Rows))}
	for _, row := range summary.Rows {
		late := row.FirstEntry != nil && worktime.IsLateArrival(*row.FirstEntry, worktime.DefaultWorkStartTime)
		t.Rows = append(t.Rows, []string{
			row.EmployeeName,
			row.JobClass,
			row.EntryTime,
			row.ExitTime,
			row.AttendanceHours,
			worktime.Status(late, row.LeakMinutes),
			deref(row.EntrySnapshot),
			deref(row.ExitSnapshot),
		})
	}
	return t
}

func detailedStaffLogTable(summary report.DailySummaryResponse) export.Table {
	t := export.Table{
		Sheet:    "Staff Log",
		Headers:  detailedStaffLogHeaders,
		Rows:     make([][]string, 0, len(summary.Rows)),
		RowFills: make([]string, 0, len(summary.Rows)),
	}
	for _, row := range summary.Rows {
		t.Rows = append(t.Rows, []string{
			row.EmployeeName,
			row.JobClass,
			summary.Date,
			row.EntryTime,
			row.ExitTime,
			row.AttendanceHours,
			worktime.FormatMinutes(row.WorkingMinutes),
			row.LeakHours,
			yesNo(row.IsLate),
			row.Status,
			deref(row.EntrySnapshot),
			deref(row.ExitSnapshot),
		})
		t.RowFills = append(t.RowFills, bandFills[row.Band])
	}
	return t
}

// ExportPersonMonthly implements report.ReportService.
func (s *ReportServiceImpl) ExportPersonMonthly(ctx context.Context, req report.ExportPersonMonthlyRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	monthly, err := s.PersonMonthly(ctx, req.PersonRangeRequest)
	if err != nil {
		return report.ExportFile{}, err
	}

	t := export.Table{
		Sheet:    "Monthly Log",
		Headers:  monthlyLogHeaders,
		Rows:     make([][]string, 0, len(monthly.Days)),
		RowFills: make([]string, 0, len(monthly.Days)),
	}
	for _, day := range monthly.Days {
		dayOfMonth := ""
		if len(day.Date) == len(worktime.DateLayout) {
			if n, err := strconv.Atoi(day.Date[8:]); err == nil {
				dayOfMonth = strconv.Itoa(n)
			}
		}
		t.Rows = append(t.Rows, []string{
			dayOfMonth,
			day.TimeIn,
			day.TimeOut,
			day.AttendanceHours,
			day.LeakHours,
			monthly.Employee.JobClass,
			deref(day.EntrySnapshot),
			deref(day.ExitSnapshot),
		})
		t.RowFills = append(t.RowFills, bandFills[day.Band])
	}

	basename := fmt.Sprintf("attendance-%s-%s-to-%s", slug(monthly.Employee.Name), monthly.From, monthly.To)
	return render(t, req.Format, basename)
}

// ExportDailyActivities implements report.ReportService.
func (s *ReportServiceImpl) ExportDailyActivities(ctx context.Context, req report.PersonDateRequest) (report.ExportFile, error) {
	activities, err := s.DailyActivities(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	t := export.Table{Sheet: "Person Log", Headers: personLogHeaders, Rows: make([][]string, 0, len(activities.Activities))}
	for i, a := range activities.Activities {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			a.Timestamp.Format(worktime.DateLayout),
			a.Time,
			attendance.EntryType(a.EntryType).Label(),
			deref(a.SnapshotURL),
		})
	}

	basename := fmt.Sprintf("person-log-%s-%s", slug(activities.Employee.Name), activities.Date)
	return render(t, report.FormatCSV, basename)
}
