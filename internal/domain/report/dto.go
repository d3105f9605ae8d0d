package report

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
)

// Export formats.
const (
	FormatCSV      = "csv"
	FormatDetailed = "detailed"
	FormatXLSX     = "xlsx"
)

const (
	defaultRangeDays = 30
	maxRangeDays     = 366
)

// ========================================
// REQUESTS
// ========================================

type DailyReportRequest struct {
	Date string `json:"date"`
}

func (r *DailyReportRequest) Validate() error {
	var errs validator.ValidationErrors
	validateDate(&errs, "date", &r.Date)
	return errs.Err()
}

type ExportDailyRequest struct {
	Date   string `json:"date"`
	Format string `json:"format"`
}

func (r *ExportDailyRequest) Validate() error {
	var errs validator.ValidationErrors

	validateDate(&errs, "date", &r.Date)
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = FormatCSV
	}
	if !validator.IsInSlice(r.Format, []string{FormatCSV, FormatDetailed, FormatXLSX}) {
		errs.Add("format", "format must be one of csv, detailed, xlsx")
	}

	return errs.Err()
}

// PersonRangeRequest defaults to the last 30 days ending today.
type PersonRangeRequest struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func (r *PersonRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	var from, to time.Time
	fromOK, toOK := true, true
	if r.From != "" {
		from, fromOK = validator.IsValidDate(r.From)
		if !fromOK {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}
	if r.To != "" {
		to, toOK = validator.IsValidDate(r.To)
		if !toOK {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		}
	}
	if r.From != "" && r.To != "" && fromOK && toOK {
		if to.Before(from) {
			errs.Add("to", ErrInvalidDateRange.Error())
		} else if to.Sub(from) > maxRangeDays*24*time.Hour {
			errs.Add("to", ErrDateRangeTooLong.Error())
		}
	}

	return errs.Err()
}

// Resolve fills missing bounds relative to today (a YYYY-MM-DD string).
func (r *PersonRangeRequest) Resolve(today string) {
	if r.To == "" {
		r.To = today
	}
	if r.From == "" {
		to, _ := time.Parse("2006-01-02", r.To)
		r.From = to.AddDate(0, 0, -(defaultRangeDays - 1)).Format("2006-01-02")
	}
}

type ExportPersonMonthlyRequest struct {
	PersonRangeRequest
	Format string `json:"format"`
}

func (r *ExportPersonMonthlyRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := r.PersonRangeRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = FormatCSV
	}
	if r.Format != FormatCSV && r.Format != FormatXLSX {
		errs.Add("format", "format must be csv or xlsx")
	}

	return errs.Err()
}

type PersonCalendarRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
}

func (r *PersonCalendarRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if r.Month != "" && !validator.IsValidMonth(r.Month) {
		errs.Add("month", "month must be in YYYY-MM format")
	}

	return errs.Err()
}

type PersonDateRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func (r *PersonDateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	validateDate(&errs, "date", &r.Date)

	return errs.Err()
}

// validateDate accepts an empty value (meaning today) or YYYY-MM-DD.
func validateDate(errs *validator.ValidationErrors, field string, value *string) {
	*value = strings.TrimSpace(*value)
	if *value == "" {
		return
	}
	if _, ok := validator.IsValidDate(*value); !ok {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
	}
}

// ========================================
// RESPONSES
// ========================================

type EmployeeSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	JobClass string  `json:"job_class"`
	PhotoURL *string `json:"photo_url"`
}

// DailySummaryRow is one employee's day in the staff log.
type DailySummaryRow struct {
	EmployeeID        string     `json:"employee_id"`
	EmployeeName      string     `json:"employee_name"`
	JobClass          string     `json:"job_class"`
	FirstEntry        *time.Time `json:"first_entry"`
	LastExit          *time.Time `json:"last_exit"`
	EntryTime         string     `json:"entry_time"`
	ExitTime          string     `json:"exit_time"`
	EntrySnapshot     *string    `json:"entry_snapshot"`
	ExitSnapshot      *string    `json:"exit_snapshot"`
	AttendanceMinutes int        `json:"attendance_minutes"`
	WorkingMinutes    int        `json:"working_minutes"`
	LeakMinutes       int        `json:"leak_minutes"`
	AttendanceHours   string     `json:"attendance_hours"`
	LeakHours         string     `json:"leak_hours"`
	IsLate            bool       `json:"is_late"`
	Status            string     `json:"status"`
	Band              string     `json:"band"`
	BandLabel         string     `json:"band_label"`
	BandColor         string     `json:"band_color"`
}

type DailyTotals struct {
	Employees  int `json:"employees"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
	UnderHours int `json:"under_hours"`
}

type DailySummaryResponse struct {
	Date          string            `json:"date"`
	WorkingHours  int               `json:"working_hours"`
	WorkStartTime string            `json:"work_start_time"`
	Totals        DailyTotals       `json:"totals"`
	Rows          []DailySummaryRow `json:"rows"`
}

// DayRow is one day in a person's monthly view.
type DayRow struct {
	Date              string     `json:"date"`
	FirstEntry        *time.Time `json:"first_entry"`
	LastExit          *time.Time `json:"last_exit"`
	TimeIn            string     `json:"time_in"`
	TimeOut           string     `json:"time_out"`
	EntrySnapshot     *string    `json:"entry_snapshot"`
	ExitSnapshot      *string    `json:"exit_snapshot"`
	AttendanceMinutes int        `json:"attendance_minutes"`
	LeakMinutes       int        `json:"leak_minutes"`
	AttendanceHours   string     `json:"attendance_hours"`
	LeakHours         string     `json:"leak_hours"`
	IsLate            bool       `json:"is_late"`
	Band              string     `json:"band"`
	BandLabel         string     `json:"band_label"`
	BandColor         string     `json:"band_color"`
	Records           int        `json:"records"`
}

type PersonMonthlyResponse struct {
	Employee     EmployeeSummary `json:"employee"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	WorkingHours int             `json:"working_hours"`
	Days         []DayRow        `json:"days"`
}

type CalendarDay struct {
	Date              string `json:"date"`
	Day               int    `json:"day"`
	Weekday           string `json:"weekday"`
	AttendanceMinutes int    `json:"attendance_minutes"`
	Band              string `json:"band"`
	BandLabel         string `json:"band_label"`
	BandColor         string `json:"band_color"`
}

type PersonCalendarResponse struct {
	Employee     EmployeeSummary `json:"employee"`
	Month        string          `json:"month"`
	WorkingHours int             `json:"working_hours"`
	Days         []CalendarDay   `json:"days"`
}

type ActivityRow struct {
	ID          string    `json:"id"`
	EntryType   string    `json:"entry_type"`
	Timestamp   time.Time `json:"timestamp"`
	Time        string    `json:"time"`
	SnapshotURL *string   `json:"snapshot_url"`
}

type DailyActivitiesResponse struct {
	Employee          EmployeeSummary `json:"employee"`
	Date              string          `json:"date"`
	AttendanceMinutes int             `json:"attendance_minutes"`
	AttendanceHours   string          `json:"attendance_hours"`
	Activities        []ActivityRow   `json:"activities"`
}

// DateSpecificRow repeats the day total on every record, as the person log table shows it.
type DateSpecificRow struct {
	ActivityRow
	DayAttendanceMinutes int    `json:"day_attendance_minutes"`
	DayAttendanceHours   string `json:"day_attendance_hours"`
}

type DateSpecificResponse struct {
	Employee EmployeeSummary   `json:"employee"`
	Date     string            `json:"date"`
	Rows     []DateSpecificRow `json:"rows"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
