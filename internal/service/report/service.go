package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/worktime"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	settingsSvc    settings.SettingsService
	loc            *time.Location
	now            func() time.Time
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsSvc settings.SettingsService,
	loc *time.Location,
) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		settingsSvc:    settingsSvc,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *ReportServiceImpl) today() string {
	return s.now().In(s.loc).Format(worktime.DateLayout)
}

// dayBounds resolves an optional YYYY-MM-DD into [start, end) in the report zone.
func (s *ReportServiceImpl) dayBounds(date string) (string, time.Time, time.Time, error) {
	if date == "" {
		date = s.today()
	}
	day, err := worktime.ParseDate(date, s.loc)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	start, end := worktime.DayBounds(day, s.loc)
	return date, start, end, nil
}

func (s *ReportServiceImpl) getEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, report.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func toEmployeeSummary(e employee.Employee) report.EmployeeSummary {
	return report.EmployeeSummary{
		ID:       e.ID,
		Name:     e.Name,
		JobClass: e.JobClass,
		PhotoURL: e.PhotoURL,
	}
}

func (s *ReportServiceImpl) dailyRow(emp employee.Employee, day *dayActivity, ws settings.WorkSettings) report.DailySummaryRow {
	workingMinutes := ws.WorkingMinutes()
	attended := 0
	late := false
	if day != nil {
		attended = day.attendanceMinutes()
		late = day.isLate(ws.WorkStartTime)
	}
	leak := worktime.LeakMinutes(workingMinutes, attended)
	band, label := worktime.LeakBand(attended, workingMinutes)

	return report.DailySummaryRow{
		EmployeeID:        emp.ID,
		EmployeeName:      emp.Name,
		JobClass:          emp.JobClass,
		FirstEntry:        day.entryTime(),
		LastExit:          day.exitTime(),
		EntryTime:         formatClock(day.entryTime()),
		ExitTime:          formatClock(day.exitTime()),
		EntrySnapshot:     day.entrySnapshot(),
		ExitSnapshot:      day.exitSnapshot(),
		AttendanceMinutes: attended,
		WorkingMinutes:    workingMinutes,
		LeakMinutes:       leak,
		AttendanceHours:   worktime.FormatMinutes(attended),
		LeakHours:         worktime.FormatMinutes(leak),
		IsLate:            late,
		Status:            worktime.Status(late, leak),
		Band:              string(band),
		BandLabel:         label,
		BandColor:         band.Color(),
	}
}

// DailySummary implements report.ReportService.
func (s *ReportServiceImpl) DailySummary(ctx context.Context, req report.DailyReportRequest) (report.DailySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.DailySummaryResponse{}, err
	}

	date, start, end, err := s.dayBounds(req.Date)
	if err != nil {
		return report.DailySummaryResponse{}, err
	}

	employees, err := s.employeeRepo.ListAll(ctx)
	if err != nil {
		return report.DailySummaryResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	records, err := s.attendanceRepo.ListBetween(ctx, start, end, nil)
	if err != nil {
		return report.DailySummaryResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	ws := s.settingsSvc.GetWorkSettings(ctx)
	days := groupByEmployee(records, s.loc)

	resp := report.DailySummaryResponse{
		Date:          date,
		WorkingHours:  ws.WorkingHours,
		WorkStartTime: ws.WorkStartTime,
		Rows:          make([]report.DailySummaryRow, 0, len(employees)),
	}
	for _, emp := range employees {
		day := days[emp.ID]
		row := s.dailyRow(emp, day, ws)
		resp.Rows = append(resp.Rows, row)

		resp.Totals.Employees++
		if day == nil {
			resp.Totals.Absent++
			continue
		}
		resp.Totals.Present++
		if row.IsLate {
			resp.Totals.Late++
		}
		if row.LeakMinutes > 0 {
			resp.Totals.UnderHours++
		}
	}

	return resp, nil
}

// personRange validates and resolves the [from, to) window of a person view.
func (s *ReportServiceImpl) personRange(req *report.PersonRangeRequest) (time.Time, time.Time, error) {
	if err := req.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	req.Resolve(s.today())

	from, err := worktime.ParseDate(req.From, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := worktime.ParseDate(req.To, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, report.ErrInvalidDateRange
	}
	if to.Sub(from) > 366*24*time.Hour {
		return time.Time{}, time.Time{}, report.ErrDateRangeTooLong
	}
	return from, to.AddDate(0, 0, 1), nil
}

func dayRow(day *dayActivity, workingMinutes int) report.DayRow {
	attended := day.attendanceMinutes()
	leak := worktime.LeakMinutes(workingMinutes, attended)
	band, label := worktime.LeakBand(attended, workingMinutes)

	return report.DayRow{
		Date:              day.date,
		FirstEntry:        day.entryTime(),
		LastExit:          day.exitTime(),
		TimeIn:            formatClock(day.entryTime()),
		TimeOut:           formatClock(day.exitTime()),
		EntrySnapshot:     day.entrySnapshot(),
		ExitSnapshot:      day.exitSnapshot(),
		AttendanceMinutes: attended,
		LeakMinutes:       leak,
		AttendanceHours:   worktime.FormatMinutes(attended),
		LeakHours:         worktime.FormatMinutes(leak),
		Band:              string(band),
		BandLabel:         label,
		BandColor:         band.Color(),
		Records:           len(day.records),
	}
}

// PersonMonthly implements report.ReportService.
func (s *ReportServiceImpl) PersonMonthly(ctx context.Context, req report.PersonRangeRequest) (report.PersonMonthlyResponse, error) {
	from, to, err := s.personRange(&req)
	if err != nil {
		return report.PersonMonthlyResponse{}, err
	}

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return report.PersonMonthlyResponse{}, err
	}

	records, err := s.attendanceRepo.ListBetween(ctx, from, to, &emp.ID)
	if err != nil {
		return report.PersonMonthlyResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	ws := s.settingsSvc.GetWorkSettings(ctx)
	days := groupByDate(records, s.loc)

	resp := report.PersonMonthlyResponse{
		Employee:     toEmployeeSummary(emp),
		From:         req.From,
		To:           req.To,
		WorkingHours: ws.WorkingHours,
		Days:         make([]report.DayRow, 0, len(days)),
	}
	for _, date := range sortedDates(days) {
		row := dayRow(days[date], ws.WorkingMinutes())
		row.IsLate = days[date].isLate(ws.WorkStartTime)
		resp.Days = append(resp.Days, row)
	}
	return resp, nil
}

// PersonCalendar implements report.ReportService.
func (s *ReportServiceImpl) PersonCalendar(ctx context.Context, req report.PersonCalendarRequest) (report.PersonCalendarResponse, error) {
	if err := req.Validate(); err != nil {
		return report.PersonCalendarResponse{}, err
	}
	if req.Month == "" {
		req.Month = s.now().In(s.loc).Format("2006-01")
	}

	from, to, err := worktime.MonthBounds(req.Month, s.loc)
	if err != nil {
		return report.PersonCalendarResponse{}, err
	}

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return report.PersonCalendarResponse{}, err
	}

	records, err := s.attendanceRepo.ListBetween(ctx, from, to, &emp.ID)
	if err != nil {
		return report.PersonCalendarResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	ws := s.settingsSvc.GetWorkSettings(ctx)
	days := groupByDate(records, s.loc)
	daysInMonth := worktime.DaysIn(from)

	resp := report.PersonCalendarResponse{
		Employee:     toEmployeeSummary(emp),
		Month:        req.Month,
		WorkingHours: ws.WorkingHours,
		Days:         make([]report.CalendarDay, 0, daysInMonth),
	}
	for i := 0; i < daysInMonth; i++ {
		date := from.AddDate(0, 0, i)
		key := date.Format(worktime.DateLayout)

		attended := 0
		if day, ok := days[key]; ok {
			attended = day.attendanceMinutes()
		}
		band, label := worktime.LeakBand(attended, ws.WorkingMinutes())

		resp.Days = append(resp.Days, report.CalendarDay{
			Date:              key,
			Day:               date.Day(),
			Weekday:           date.Weekday().String(),
			AttendanceMinutes: attended,
			Band:              string(band),
			BandLabel:         label,
			BandColor:         band.Color(),
		})
	}
	return resp, nil
}

// personDay loads one employee's records for a single day, oldest first.
func (s *ReportServiceImpl) personDay(ctx context.Context, req *report.PersonDateRequest) (employee.Employee, *dayActivity, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, nil, err
	}

	date, start, end, err := s.dayBounds(req.Date)
	if err != nil {
		return employee.Employee{}, nil, err
	}
	req.Date = date

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return employee.Employee{}, nil, err
	}

	records, err := s.attendanceRepo.ListBetween(ctx, start, end, &emp.ID)
	if err != nil {
		return employee.Employee{}, nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	day := &dayActivity{date: date}
	for _, r := range records {
		r.Timestamp = r.Timestamp.In(s.loc)
		day.add(r)
	}
	return emp, day, nil
}

func toActivityRow(r attendance.Record) report.ActivityRow {
	return report.ActivityRow{
		ID:          r.ID,
		EntryType:   string(r.EntryType),
		Timestamp:   r.Timestamp,
		Time:        r.Timestamp.Format(timeLayout),
		SnapshotURL: r.SnapshotURL,
	}
}

// DailyActivities implements report.ReportService.
func (s *ReportServiceImpl) DailyActivities(ctx context.Context, req report.PersonDateRequest) (report.DailyActivitiesResponse, error) {
	emp, day, err := s.personDay(ctx, &req)
	if err != nil {
		return report.DailyActivitiesResponse{}, err
	}

	attended := day.attendanceMinutes()
	resp := report.DailyActivitiesResponse{
		Employee:          toEmployeeSummary(emp),
		Date:              req.Date,
		AttendanceMinutes: attended,
		AttendanceHours:   worktime.FormatMinutes(attended),
		Activities:        make([]report.ActivityRow, 0, len(day.records)),
	}
	for _, r := range day.records {
		resp.Activities = append(resp.Activities, toActivityRow(r))
	}
	return resp, nil
}

// DateSpecific implements report.ReportService.
func (s *ReportServiceImpl) DateSpecific(ctx context.Context, req report.PersonDateRequest) (report.DateSpecificResponse, error) {
	emp, day, err := s.personDay(ctx, &req)
	if err != nil {
		return report.DateSpecificResponse{}, err
	}

	attended := day.attendanceMinutes()
	resp := report.DateSpecificResponse{
		Employee: toEmployeeSummary(emp),
		Date:     req.Date,
		Rows:     make([]report.DateSpecificRow, 0, len(day.records)),
	}
	for _, r := range day.records {
		resp.Rows = append(resp.Rows, report.DateSpecificRow{
			ActivityRow:          toActivityRow(r),
			DayAttendanceMinutes: attended,
			DayAttendanceHours:   worktime.FormatMinutes(attended),
		})
	}
	return resp, nil
}
