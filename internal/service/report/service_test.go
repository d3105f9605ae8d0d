package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	bobID  = "00000000-0000-0000-0000-000000000001"
	carlID = "00000000-0000-0000-0000-000000000002"
	janeID = "00000000-0000-0000-0000-000000000003"
)

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) ListAll(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Record
}

func (f *fakeAttendanceRepo) ListBetween(ctx context.Context, from, to time.Time, employeeID *string) ([]attendance.Record, error) {
	out := make([]attendance.Record, 0)
	for _, r := range f.records {
		if r.Timestamp.Before(from) || !r.Timestamp.Before(to) {
			continue
		}
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeSettings struct {
	settings.SettingsService
}

func (fakeSettings) GetWorkSettings(ctx context.Context) settings.WorkSettings {
	return settings.DefaultWorkSettings()
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func rec(id, employeeID string, entryType attendance.EntryType, ts time.Time) attendance.Record {
	return attendance.Record{ID: id, EmployeeID: employeeID, EntryType: entryType, Timestamp: ts}
}

func newTestService() *ReportServiceImpl {
	snapshot := "http://localhost:8080/uploads/snapshots/2025-03-04/r1.jpg"
	first := rec("r1", janeID, attendance.EntryTypeEntry, at(4, 8, 55))
	first.SnapshotURL = &snapshot

	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: bobID, Name: "Bob", JobClass: "Engineer"},
		{ID: carlID, Name: "Carl", JobClass: "Driver"},
		{ID: janeID, Name: "Jane Doe", JobClass: "Manager"},
	}}
	records := &fakeAttendanceRepo{records: []attendance.Record{
		rec("j0", janeID, attendance.EntryTypeEntry, at(2, 9, 0)),
		rec("j1", janeID, attendance.EntryTypeExit, at(2, 12, 0)),
		first,
		rec("b1", bobID, attendance.EntryTypeEntry, at(4, 9, 20)),
		rec("r2", janeID, attendance.EntryTypeEntry, at(4, 9, 30)),
		rec("b2", bobID, attendance.EntryTypeExit, at(4, 16, 0)),
		rec("r3", janeID, attendance.EntryTypeExit, at(4, 17, 10)),
	}}

	svc := NewReportService(records, employees, fakeSettings{}, time.UTC).(*ReportServiceImpl)
	svc.now = func() time.Time { return at(4, 18, 0) }
	return svc
}

func TestDailySummary(t *testing.T) {
	svc := newTestService()

	resp, err := svc.DailySummary(context.Background(), report.DailyReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-04", resp.Date)
	assert.Equal(t, report.DailyTotals{Employees: 3, Present: 2, Absent: 1, Late: 1, UnderHours: 1}, resp.Totals)
	require.Len(t, resp.Rows, 3)

	bob := resp.Rows[0]
	assert.Equal(t, "09:20:00", bob.EntryTime)
	assert.Equal(t, 400, bob.AttendanceMinutes)
	assert.Equal(t, 80, bob.LeakMinutes)
	assert.Equal(t, "Late & Under Hours", bob.Status)
	assert.Equal(t, "moderate", bob.Band)
	assert.Equal(t, "1:20", bob.BandLabel)

	carl := resp.Rows[1]
	assert.Nil(t, carl.FirstEntry)
	assert.Equal(t, "", carl.EntryTime)
	assert.Equal(t, "no_entry", carl.Band)
	assert.Equal(t, "No Entry", carl.BandLabel)

	jane := resp.Rows[2]
	assert.Equal(t, "08:55:00", jane.EntryTime)
	assert.Equal(t, "17:10:00", jane.ExitTime)
	assert.Equal(t, 495, jane.AttendanceMinutes)
	assert.Equal(t, "8:15", jane.AttendanceHours)
	assert.Equal(t, "On Time", jane.Status)
	assert.Equal(t, "complete", jane.Band)
	assert.Equal(t, "green", jane.BandColor)
	require.NotNil(t, jane.EntrySnapshot)
}

func TestExportDaily_CSV(t *testing.T) {
	svc := newTestService()

	file, err := svc.ExportDaily(context.Background(), report.ExportDailyRequest{Date: "2025-03-04"})
	require.NoError(t, err)

	assert.Equal(t, "staff-log-2025-03-04.csv", file.Filename)
	assert.Equal(t, export.ContentTypeCSV, file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Employee,Job Title,Entry Time,Exit Time,Hours Worked,Status,Entry Photo,Exit Photo", lines[0])
	assert.Equal(t, "Bob,Engineer,09:20:00,16:00:00,6:40,Late & Under Hours,,", lines[1])
}

func TestExportDaily_Detailed(t *testing.T) {
	svc := newTestService()

	file, err := svc.ExportDaily(context.Background(), report.ExportDailyRequest{Date: "2025-03-04", Format: "detailed"})
	require.NoError(t, err)

	assert.Equal(t, "staff-log-detailed-2025-03-04.csv", file.Filename)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	assert.Equal(t, "Jane Doe,Manager,2025-03-04,08:55:00,17:10:00,8:15,8:00,0:00,No,On Time,http://localhost:8080/uploads/snapshots/2025-03-04/r1.jpg,", lines[3])
}

func TestExportDaily_XLSX(t *testing.T) {
	svc := newTestService()

	file, err := svc.ExportDaily(context.Background(), report.ExportDailyRequest{Date: "2025-03-04", Format: "xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "staff-log-detailed-2025-03-04.xlsx", file.Filename)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Staff Log")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Employee Name", rows[0][0])
	assert.Equal(t, "Carl", rows[2][0])
}

func TestExportDaily_InvalidFormat(t *testing.T) {
	svc := newTestService()

	_, err := svc.ExportDaily(context.Background(), report.ExportDailyRequest{Format: "pdf"})

	assert.ErrorContains(t, err, "format")
}

func TestPersonMonthly(t *testing.T) {
	svc := newTestService()

	resp, err := svc.PersonMonthly(context.Background(), report.PersonRangeRequest{EmployeeID: janeID, From: "2025-03-01"})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-04", resp.To)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-03-04", resp.Days[0].Date)
	assert.Equal(t, 3, resp.Days[0].Records)
	assert.Equal(t, "2025-03-02", resp.Days[1].Date)
	assert.Equal(t, 180, resp.Days[1].AttendanceMinutes)
	assert.Equal(t, "severe", resp.Days[1].Band)
	assert.Equal(t, "5:00", resp.Days[1].BandLabel)
}

func TestPersonMonthly_DefaultRangeAndMissingEmployee(t *testing.T) {
	svc := newTestService()

	resp, err := svc.PersonMonthly(context.Background(), report.PersonRangeRequest{EmployeeID: janeID})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-03", resp.From)
	assert.Equal(t, "2025-03-04", resp.To)

	_, err = svc.PersonMonthly(context.Background(), report.PersonRangeRequest{EmployeeID: "99999999-9999-9999-9999-999999999999"})
	assert.ErrorIs(t, err, report.ErrEmployeeNotFound)
}

func TestExportPersonMonthly_CSV(t *testing.T) {
	svc := newTestService()

	file, err := svc.ExportPersonMonthly(context.Background(), report.ExportPersonMonthlyRequest{
		PersonRangeRequest: report.PersonRangeRequest{EmployeeID: janeID, From: "2025-03-01", To: "2025-03-31"},
	})
	require.NoError(t, err)

	assert.Equal(t, "attendance-jane-doe-2025-03-01-to-2025-03-31.csv", file.Filename)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Time In,Time Out,Attendance Hours,Leak Hours,Class,Image In,Image Out", lines[0])
	assert.Equal(t, "2,09:00:00,12:00:00,3:00,5:00,Manager,,", lines[2])
}

func TestPersonCalendar(t *testing.T) {
	svc := newTestService()

	resp, err := svc.PersonCalendar(context.Background(), report.PersonCalendarRequest{EmployeeID: janeID})
	require.NoError(t, err)

	assert.Equal(t, "2025-03", resp.Month)
	require.Len(t, resp.Days, 31)
	assert.Equal(t, "No Entry", resp.Days[0].BandLabel)
	assert.Equal(t, "Saturday", resp.Days[0].Weekday)
	assert.Equal(t, "complete", resp.Days[3].Band)
	assert.Equal(t, 4, resp.Days[3].Day)

	feb, err := svc.PersonCalendar(context.Background(), report.PersonCalendarRequest{EmployeeID: janeID, Month: "2025-02"})
	require.NoError(t, err)
	assert.Len(t, feb.Days, 28)
}

func TestDailyActivitiesAndDateSpecific(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	activities, err := svc.DailyActivities(ctx, report.PersonDateRequest{EmployeeID: janeID})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", activities.Date)
	assert.Equal(t, "8:15", activities.AttendanceHours)
	require.Len(t, activities.Activities, 3)
	assert.Equal(t, "r1", activities.Activities[0].ID)
	assert.Equal(t, "exit", activities.Activities[2].EntryType)

	specific, err := svc.DateSpecific(ctx, report.PersonDateRequest{EmployeeID: janeID, Date: "2025-03-04"})
	require.NoError(t, err)
	require.Len(t, specific.Rows, 3)
	for _, row := range specific.Rows {
		assert.Equal(t, 495, row.DayAttendanceMinutes)
	}
}

func TestExportDailyActivities(t *testing.T) {
	svc := newTestService()

	file, err := svc.ExportDailyActivities(context.Background(), report.PersonDateRequest{EmployeeID: janeID, Date: "2025-03-04"})
	require.NoError(t, err)

	assert.Equal(t, "person-log-jane-doe-2025-03-04.csv", file.Filename)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Entry #,Date,Time,Type,Snapshot", lines[0])
	assert.Equal(t, "3,2025-03-04,17:10:00,Exit,", lines[3])
}

func newZonedTestService() *ReportServiceImpl {
	utc := func(month, day, hour, minute int) time.Time {
		return time.Date(2025, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	}

	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: bobID, Name: "Bob", JobClass: "Engineer"},
		{ID: carlID, Name: "Carl", JobClass: "Driver"},
		{ID: janeID, Name: "Jane Doe", JobClass: "Manager"},
	}}
	records := &fakeAttendanceRepo{records: []attendance.Record{
		// 2025-03-01 01:00 to 05:00 in WIB
		rec("j0", janeID, attendance.EntryTypeEntry, utc(2, 28, 18, 0)),
		rec("j1", janeID, attendance.EntryTypeExit, utc(2, 28, 22, 0)),
		// 2025-03-04 06:30 in WIB
		rec("c1", carlID, attendance.EntryTypeEntry, utc(3, 3, 23, 30)),
		rec("j2", janeID, attendance.EntryTypeEntry, utc(3, 4, 1, 55)),
		rec("b1", bobID, attendance.EntryTypeEntry, utc(3, 4, 2, 20)),
		rec("c2", carlID, attendance.EntryTypeExit, utc(3, 4, 9, 0)),
		rec("b2", bobID, attendance.EntryTypeExit, utc(3, 4, 9, 0)),
		rec("j3", janeID, attendance.EntryTypeExit, utc(3, 4, 10, 10)),
		// 2025-03-05 00:30 to 08:00 in WIB
		rec("j4", janeID, attendance.EntryTypeEntry, utc(3, 4, 17, 30)),
		rec("j5", janeID, attendance.EntryTypeExit, utc(3, 5, 1, 0)),
		// 2025-04-01 in WIB
		rec("j6", janeID, attendance.EntryTypeEntry, utc(3, 31, 17, 30)),
		rec("j7", janeID, attendance.EntryTypeExit, utc(3, 31, 20, 0)),
	}}

	svc := NewReportService(records, employees, fakeSettings{}, time.FixedZone("WIB", 7*60*60)).(*ReportServiceImpl)
	// 2025-03-04 02:00 in WIB, still March 3 in UTC
	svc.now = func() time.Time { return utc(3, 3, 19, 0) }
	return svc
}

func TestDailySummary_NonUTCZone(t *testing.T) {
	svc := newZonedTestService()

	resp, err := svc.DailySummary(context.Background(), report.DailyReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-04", resp.Date)
	assert.Equal(t, report.DailyTotals{Employees: 3, Present: 3, Absent: 0, Late: 1, UnderHours: 1}, resp.Totals)
	require.Len(t, resp.Rows, 3)

	bob := resp.Rows[0]
	assert.Equal(t, "09:20:00", bob.EntryTime)
	assert.True(t, bob.IsLate)
	assert.Equal(t, "Late & Under Hours", bob.Status)

	carl := resp.Rows[1]
	assert.Equal(t, "06:30:00", carl.EntryTime)
	assert.Equal(t, "16:00:00", carl.ExitTime)
	assert.Equal(t, 570, carl.AttendanceMinutes)
	assert.False(t, carl.IsLate)

	jane := resp.Rows[2]
	assert.Equal(t, "08:55:00", jane.EntryTime)
	assert.Equal(t, "17:10:00", jane.ExitTime)
	assert.Equal(t, 495, jane.AttendanceMinutes)
	assert.False(t, jane.IsLate)
	assert.Equal(t, "On Time", jane.Status)
}

func TestPersonMonthly_NonUTCZone(t *testing.T) {
	svc := newZonedTestService()

	resp, err := svc.PersonMonthly(context.Background(), report.PersonRangeRequest{EmployeeID: janeID, From: "2025-03-01", To: "2025-03-05"})
	require.NoError(t, err)

	require.Len(t, resp.Days, 3)
	assert.Equal(t, "2025-03-05", resp.Days[0].Date)
	assert.Equal(t, "00:30:00", resp.Days[0].TimeIn)
	assert.Equal(t, 450, resp.Days[0].AttendanceMinutes)
	assert.False(t, resp.Days[0].IsLate)

	assert.Equal(t, "2025-03-04", resp.Days[1].Date)
	assert.Equal(t, "08:55:00", resp.Days[1].TimeIn)
	assert.Equal(t, 2, resp.Days[1].Records)
	assert.False(t, resp.Days[1].IsLate)

	assert.Equal(t, "2025-03-01", resp.Days[2].Date)
	assert.Equal(t, "01:00:00", resp.Days[2].TimeIn)
	assert.Equal(t, 240, resp.Days[2].AttendanceMinutes)

	bob, err := svc.PersonMonthly(context.Background(), report.PersonRangeRequest{EmployeeID: bobID, From: "2025-03-04", To: "2025-03-04"})
	require.NoError(t, err)
	require.Len(t, bob.Days, 1)
	assert.True(t, bob.Days[0].IsLate)
}

func TestPersonCalendar_NonUTCZone(t *testing.T) {
	svc := newZonedTestService()

	resp, err := svc.PersonCalendar(context.Background(), report.PersonCalendarRequest{EmployeeID: janeID})
	require.NoError(t, err)

	assert.Equal(t, "2025-03", resp.Month)
	require.Len(t, resp.Days, 31)
	assert.Equal(t, "2025-03-01", resp.Days[0].Date)
	assert.Equal(t, 240, resp.Days[0].AttendanceMinutes)
	assert.Equal(t, 0, resp.Days[2].AttendanceMinutes)
	assert.Equal(t, 495, resp.Days[3].AttendanceMinutes)
	assert.Equal(t, "complete", resp.Days[3].Band)
	assert.Equal(t, 450, resp.Days[4].AttendanceMinutes)
	assert.Equal(t, "2025-03-31", resp.Days[30].Date)
	assert.Equal(t, 0, resp.Days[30].AttendanceMinutes)

	feb, err := svc.PersonCalendar(context.Background(), report.PersonCalendarRequest{EmployeeID: janeID, Month: "2025-02"})
	require.NoError(t, err)
	require.Len(t, feb.Days, 28)
	assert.Equal(t, 0, feb.Days[27].AttendanceMinutes)
}
